package syncer

import (
	"fmt"
	"time"

	"github.com/aevon-lab/download-stats/internal/core/downloads"
)

// FetchError reports a failed Source call. Fetching for the document stopped
// at this point; samples gathered before it were still merged.
type FetchError struct {
	Document string
	Repo     string
	Mode     Mode

	// Day is set in per-day mode, Window in range mode.
	Day    time.Time
	Window downloads.Window

	Err error
}

func (e *FetchError) Error() string {
	target := e.Repo
	if target == "" {
		target = "total"
	}
	span := e.Window.String()
	if e.Mode == ModePerDay {
		span = e.Day.Format(downloads.DayLayout)
	}
	return fmt.Sprintf("fetch %s downloads for %s (document %q): %v", target, span, e.Document, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
