package v1

import (
	"fmt"
	"strings"
	"time"

	"github.com/aevon-lab/download-stats/internal/core/downloads"
	"github.com/shopspring/decimal"
)

// Granularities accepted by the series query endpoint.
const (
	GranularityDay   = "day"
	GranularityWeek  = "week"
	GranularityMonth = "month"
	GranularityTotal = "total"
)

// SeriesQuery is the query string of GET /v1/downloads/:name.
// Start and End are optional inclusive day bounds (YYYY-MM-DD).
type SeriesQuery struct {
	Start       string `form:"start"`
	End         string `form:"end"`
	Granularity string `form:"granularity"`
}

// SeriesRange is a validated SeriesQuery. Zero Start/End mean unbounded.
type SeriesRange struct {
	Start       time.Time
	End         time.Time
	Granularity string
}

// Validate parses the day bounds and defaults the granularity to "day".
func (q SeriesQuery) Validate() (SeriesRange, error) {
	r := SeriesRange{Granularity: strings.ToLower(strings.TrimSpace(q.Granularity))}
	if r.Granularity == "" {
		r.Granularity = GranularityDay
	}
	switch r.Granularity {
	case GranularityDay, GranularityWeek, GranularityMonth, GranularityTotal:
	default:
		return SeriesRange{}, fmt.Errorf("unsupported granularity %q", q.Granularity)
	}

	var err error
	if q.Start != "" {
		if r.Start, err = downloads.ParseDay(q.Start); err != nil {
			return SeriesRange{}, fmt.Errorf("start: %w", err)
		}
	}
	if q.End != "" {
		if r.End, err = downloads.ParseDay(q.End); err != nil {
			return SeriesRange{}, fmt.Errorf("end: %w", err)
		}
	}
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return SeriesRange{}, fmt.Errorf("end %s is before start %s", q.End, q.Start)
	}
	return r, nil
}

// Bucket is one rolled-up span of a series. Start and End are inclusive days.
type Bucket struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Downloads int64  `json:"downloads"`
}

// SeriesResponse is the body of GET /v1/downloads/:name.
type SeriesResponse struct {
	Document     string          `json:"document"`
	Repo         string          `json:"repo,omitempty"`
	Granularity  string          `json:"granularity"`
	Start        string          `json:"start,omitempty"`
	End          string          `json:"end,omitempty"`
	Total        int64           `json:"total"`
	DailyAverage decimal.Decimal `json:"daily_average"`
	Buckets      []Bucket        `json:"buckets"`
}

// Window is the inclusive day span a sync pass targeted.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NewWindow renders a downloads.Window for the wire.
func NewWindow(w downloads.Window) Window {
	return Window{
		Start: w.Start.UTC().Format(downloads.DayLayout),
		End:   w.End.UTC().Format(downloads.DayLayout),
	}
}

// SyncResponse is the body of POST /v1/sync/:name.
type SyncResponse struct {
	RunID    string `json:"run_id"`
	Document string `json:"document"`
	Repo     string `json:"repo,omitempty"`
	Mode     string `json:"mode"`
	Window   Window `json:"window"`
	Fetched  int    `json:"fetched"`
	Added    int    `json:"added"`
	Total    int    `json:"total"`
	Error    string `json:"error,omitempty"`
}

// Run is one entry of GET /v1/sync/:name/runs.
type Run struct {
	ID         string    `json:"id"`
	Document   string    `json:"document"`
	Repo       string    `json:"repo,omitempty"`
	Mode       string    `json:"mode"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Fetched    int       `json:"fetched"`
	Added      int       `json:"added"`
	Error      string    `json:"error,omitempty"`
}
