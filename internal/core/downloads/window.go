package downloads

import (
	"fmt"
	"strings"
	"time"
)

const day = 24 * time.Hour

// acceptedDayLayouts lists the layouts ParseDay tries, in order.
var acceptedDayLayouts = []string{
	DayLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Window is the span a sync pass covers.
// Start is the last known (or seed) day; End is yesterday. Both are UTC midnights.
type Window struct {
	Start time.Time
	End   time.Time
}

// DayOf truncates t to midnight of its UTC calendar day.
// Example: DayOf(2020-01-05T13:45:00+02:00) → 2020-01-05T00:00:00Z
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a day string ("2006-01-02", RFC 3339, or "2006-01-02 15:04:05")
// and returns its UTC midnight.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("day must not be empty")
	}
	for _, layout := range acceptedDayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DayOf(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid day %q (want YYYY-MM-DD or RFC 3339)", s)
}

// ComputeWindow derives the fetch window for series.
//
// A non-empty series restarts from its newest day so the last known point is
// re-read. An empty series starts one day before start, so that the first
// per-day unit (Start+1) is start itself. End is the UTC midnight before now:
// the current, incomplete day is never fetched. A start in the future
// collapses onto End.
func ComputeWindow(series Series, start time.Time, now time.Time) Window {
	end := DayOf(now).Add(-day)

	var from time.Time
	if newest, ok := series.Newest(); ok {
		from = DayOf(newest.Day)
	} else {
		from = DayOf(start).Add(-day)
	}

	if from.After(end) {
		from = end
	}
	return Window{Start: from, End: end}
}

// Days returns the per-day fetch units of the window: every day after Start
// and before End, ascending.
func (w Window) Days() []time.Time {
	var days []time.Time
	for d := w.Start.Add(day); d.Before(w.End); d = d.Add(day) {
		days = append(days, d)
	}
	return days
}

// Empty reports whether the window has no per-day units.
func (w Window) Empty() bool {
	return !w.Start.Add(day).Before(w.End)
}

func (w Window) String() string {
	return w.Start.Format(DayLayout) + " to " + w.End.Format(DayLayout)
}
