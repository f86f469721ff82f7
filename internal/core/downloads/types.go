package downloads

import (
	"context"
	"time"
)

// DayLayout is the on-disk representation of a sample day.
const DayLayout = "2006-01-02"

// DefaultStart is the first day considered when a series has never been synced.
const DefaultStart = "2010-01-01"

// Sample is one daily download observation.
// Day is always a UTC midnight; identity for dedup is the (Day, Downloads) pair.
type Sample struct {
	Day       time.Time
	Downloads int64
}

// Series is a newest-first sequence of samples with no repeated (Day, Downloads) pair.
type Series []Sample

// FetchRequest is one logical request to a Source.
// Start and End are inclusive UTC days. An empty Repo asks for registry totals.
type FetchRequest struct {
	Start time.Time
	End   time.Time
	Repo  string
}

// Source supplies download counts for a day or a range of days.
//
// Get pushes zero or more samples through emit and then returns exactly once:
// nil on success, the failure otherwise. Samples emitted before a failure are
// still valid and are kept by the caller.
type Source interface {
	Get(ctx context.Context, req FetchRequest, emit func(Sample)) error
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func(ctx context.Context, req FetchRequest, emit func(Sample)) error

func (f SourceFunc) Get(ctx context.Context, req FetchRequest, emit func(Sample)) error {
	return f(ctx, req, emit)
}
