package downloads

import (
	"fmt"
	"time"
)

// SyncConfig holds the caller-side settings for one sync pass.
// Start accepts anything ParseDay does; empty means DefaultStart.
type SyncConfig struct {
	Start string
	Repo  string
	Prop  string

	// Pin* make the matching field win over document overrides.
	PinStart bool
	PinRepo  bool
	PinProp  bool
}

// Overrides are per-document settings carried by the document itself.
type Overrides struct {
	Repo  string `json:"repo,omitempty" yaml:"repo"`
	Start string `json:"start,omitempty" yaml:"start"`
	Prop  string `json:"prop,omitempty" yaml:"prop"`
}

// Resolved is a SyncConfig after document overrides have been applied.
type Resolved struct {
	Start time.Time
	Repo  string
	Prop  string
}

// Resolve applies document overrides on top of c. A non-empty override wins
// unless the caller pinned that field. On error Repo and Prop are still filled
// in so the document can be written back in place.
func (c SyncConfig) Resolve(o Overrides) (Resolved, error) {
	r := Resolved{
		Repo: pick(c.Repo, o.Repo, c.PinRepo),
		Prop: pick(c.Prop, o.Prop, c.PinProp),
	}

	start := pick(c.Start, o.Start, c.PinStart)
	if start == "" {
		start = DefaultStart
	}
	startDay, err := ParseDay(start)
	if err != nil {
		return r, fmt.Errorf("resolve start: %w", err)
	}
	r.Start = startDay
	return r, nil
}

func pick(configured, override string, pinned bool) string {
	if pinned || override == "" {
		return configured
	}
	return override
}
