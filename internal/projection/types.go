package projection

import (
	"errors"
	"fmt"
	"time"
)

const day = 24 * time.Hour

var (
	// ErrInvalidQuery marks request validation errors that should return HTTP 400.
	ErrInvalidQuery = errors.New("invalid series query")
)

func invalidQueryf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}

// span is a half-open [start, end) range of UTC midnights.
type span struct {
	start time.Time
	end   time.Time
}

func (s span) lastDay() time.Time {
	return s.end.Add(-day)
}

// days counts whole days in s. Unix seconds avoid the Duration overflow of
// spans longer than ~292 years.
func (s span) days() int64 {
	return daysBetween(s.start, s.end)
}

func daysBetween(a, b time.Time) int64 {
	return (b.Unix() - a.Unix()) / int64(day/time.Second)
}
