package syncer

import (
	"context"
	"log/slog"

	"github.com/aevon-lab/download-stats/internal/core/downloads"
)

// Mode is the fetch strategy picked for a document.
type Mode string

const (
	// ModeRange issues one request for the whole window (a named repo).
	ModeRange Mode = "range"
	// ModePerDay issues one request per day (registry totals).
	ModePerDay Mode = "per-day"
)

// ModeFor picks the strategy for repo.
func ModeFor(repo string) Mode {
	if repo != "" {
		return ModeRange
	}
	return ModePerDay
}

// Fetcher drives Source calls for one window. It never has more than one
// request outstanding.
type Fetcher struct {
	source   downloads.Source
	observer Observer
}

// NewFetcher creates a Fetcher. A nil observer disables progress reporting.
func NewFetcher(source downloads.Source, observer Observer) *Fetcher {
	if observer == nil {
		observer = noopObserver{}
	}
	return &Fetcher{source: source, observer: observer}
}

// Fetch retrieves the samples of w and passes every one of them to emit,
// including those received before a failure. The returned error, if any, is
// a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, docName string, w downloads.Window, repo string, emit func(downloads.Sample)) error {
	if ModeFor(repo) == ModeRange {
		return f.fetchRange(ctx, docName, w, repo, emit)
	}
	return f.fetchPerDay(ctx, docName, w, emit)
}

func (f *Fetcher) fetchRange(ctx context.Context, docName string, w downloads.Window, repo string, emit func(downloads.Sample)) error {
	f.observer.OnProgress(Progress{Document: docName, Repo: repo, Start: w.Start, End: w.End})

	req := downloads.FetchRequest{Start: w.Start, End: w.End, Repo: repo}
	if err := f.source.Get(ctx, req, emit); err != nil {
		return &FetchError{Document: docName, Repo: repo, Mode: ModeRange, Window: w, Err: err}
	}
	return nil
}

func (f *Fetcher) fetchPerDay(ctx context.Context, docName string, w downloads.Window, emit func(downloads.Sample)) error {
	days := w.Days()
	for i, day := range days {
		if err := ctx.Err(); err != nil {
			slog.Info("[Fetcher] Per-day fetch cancelled",
				"document", docName,
				"day", day.Format(downloads.DayLayout),
				"days_done", i,
				"days_total", len(days),
			)
			return &FetchError{Document: docName, Mode: ModePerDay, Day: day, Window: w, Err: err}
		}

		f.observer.OnProgress(Progress{Document: docName, Day: day})

		req := downloads.FetchRequest{Start: day, End: day}
		if err := f.source.Get(ctx, req, emit); err != nil {
			return &FetchError{Document: docName, Mode: ModePerDay, Day: day, Window: w, Err: err}
		}
	}
	return nil
}
