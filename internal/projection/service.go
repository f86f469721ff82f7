package projection

import (
	"context"
	"fmt"
	"log/slog"

	v1 "github.com/aevon-lab/download-stats/internal/api/v1"
	"github.com/aevon-lab/download-stats/internal/core/document"
	"github.com/aevon-lab/download-stats/internal/core/downloads"
	"github.com/aevon-lab/download-stats/internal/core/storage"
	"github.com/shopspring/decimal"
)

// averagePlaces is the precision of the reported daily average.
const averagePlaces = 2

// Service serves read-only views over stored download series.
type Service struct {
	store storage.DocumentStore
	cfg   downloads.SyncConfig
}

// NewService creates a new projection service. cfg supplies the same repo
// and prop defaults the sync engine applies to each document.
func NewService(store storage.DocumentStore, cfg downloads.SyncConfig) *Service {
	return &Service{store: store, cfg: cfg}
}

// QuerySeries loads a document's series and rolls it up over the requested
// range. Missing documents surface storage.ErrNotFound.
func (s *Service) QuerySeries(ctx context.Context, name string, q v1.SeriesQuery) (*v1.SeriesResponse, error) {
	rng, err := q.Validate()
	if err != nil {
		return nil, invalidQueryf("%v", err)
	}

	doc, err := s.store.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load document %q: %w", name, err)
	}

	// A bad start override only matters to the sync engine; repo and prop
	// are still resolved.
	resolved, _ := s.cfg.Resolve(doc.Data)

	series, ok := document.ReadSeries(doc, resolved.Prop)
	if !ok {
		slog.Debug("[Projection] Document content is not valid JSON, serving empty series", "document", name)
	}
	daily := series.Latest()

	r, ok := queryRange(daily, rng)
	resp := &v1.SeriesResponse{
		Document:     name,
		Repo:         resolved.Repo,
		Granularity:  rng.Granularity,
		DailyAverage: decimal.Zero,
		Buckets:      []v1.Bucket{},
	}
	if !ok {
		return resp, nil
	}
	if n := bucketCount(r, rng.Granularity); n > maxBuckets {
		return nil, invalidQueryf("%s to %s spans %d %s buckets, at most %d allowed",
			r.start.Format(downloads.DayLayout), r.lastDay().Format(downloads.DayLayout),
			n, rng.Granularity, maxBuckets)
	}

	inRange := make(downloads.Series, 0, len(daily))
	for _, sample := range daily {
		if !sample.Day.Before(r.start) && sample.Day.Before(r.end) {
			inRange = append(inRange, sample)
		}
	}

	resp.Start = r.start.Format(downloads.DayLayout)
	resp.End = r.lastDay().Format(downloads.DayLayout)
	resp.Total = inRange.Total()
	resp.DailyAverage = decimal.NewFromInt(resp.Total).
		DivRound(decimal.NewFromInt(r.days()), averagePlaces)
	resp.Buckets = rollup(inRange, r, rng.Granularity)
	return resp, nil
}

// queryRange resolves unbounded ends of rng against the series extent.
// It reports false when nothing can be served.
func queryRange(daily downloads.Series, rng v1.SeriesRange) (span, bool) {
	start, end := rng.Start, rng.End
	if start.IsZero() {
		oldest, ok := daily.Oldest()
		if !ok {
			return span{}, false
		}
		start = oldest.Day
	}
	if end.IsZero() {
		newest, ok := daily.Newest()
		if !ok {
			return span{}, false
		}
		end = newest.Day
	}
	if end.Before(start) {
		return span{}, false
	}
	return span{start: start, end: end.Add(day)}, true
}
