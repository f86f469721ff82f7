package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aevon-lab/download-stats/internal/core/document"
	"github.com/aevon-lab/download-stats/internal/core/downloads"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// State is a step of a document's sync pass. Passes move strictly forward
// and always end in StateFinalized.
type State int

const (
	StateStart State = iota
	StateWindowComputed
	StateFetching
	StateMerging
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateWindowComputed:
		return "window_computed"
	case StateFetching:
		return "fetching"
	case StateMerging:
		return "merging"
	case StateFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result is the outcome of one document's sync pass. It is returned on every
// path, failed ones included; Document always holds the (possibly partially)
// updated series.
type Result struct {
	Document *document.Document
	State    State
	Mode     Mode
	Window   downloads.Window
	Repo     string

	// Fetched counts samples received from the source, Added the entries the
	// merge actually kept.
	Fetched int
	Added   int
	Total   int

	Err error
}

// Engine synchronizes documents against a Source.
type Engine struct {
	fetcher     *Fetcher
	cfg         downloads.SyncConfig
	concurrency int
	nowFn       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver injects the progress observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.fetcher.observer = o }
}

// WithClock overrides the wall clock used for the window end.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.nowFn = now }
}

// WithConcurrency bounds how many documents SyncAll processes at once.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// NewEngine creates an Engine over source with the caller-side config.
func NewEngine(source downloads.Source, cfg downloads.SyncConfig, opts ...Option) *Engine {
	e := &Engine{
		fetcher:     NewFetcher(source, nil),
		cfg:         cfg,
		concurrency: defaultConcurrency,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.fetcher.observer == nil {
		e.fetcher.observer = noopObserver{}
	}
	return e
}

// Sync runs one pass over doc: compute the window, fetch, merge, write back.
// The returned Result is never nil. The error is the pass failure, if any
// (usually a *FetchError), and is also stored in Result.Err.
func (e *Engine) Sync(ctx context.Context, doc *document.Document) (*Result, error) {
	p := &pass{doc: doc, res: &Result{Document: doc}}

	// Start
	p.enter(StateStart)
	resolved, err := e.cfg.Resolve(doc.Data)
	existing, parsed := document.ReadSeries(doc, resolved.Prop)
	if !parsed {
		slog.Debug("[SyncEngine] Unparseable document content, starting from empty series", "document", doc.Name)
	}
	if err != nil {
		p.fail(fmt.Errorf("document %q: %w", doc.Name, err))
		return p.finalize(existing, resolved.Prop)
	}
	p.res.Repo = resolved.Repo
	p.res.Mode = ModeFor(resolved.Repo)

	// WindowComputed
	p.res.Window = downloads.ComputeWindow(existing, resolved.Start, e.nowFn())
	p.enter(StateWindowComputed)

	// Fetching
	p.enter(StateFetching)
	var buffer []downloads.Sample
	fetchErr := e.fetcher.Fetch(ctx, doc.Name, p.res.Window, resolved.Repo, func(s downloads.Sample) {
		buffer = append(buffer, s)
	})
	p.res.Fetched = len(buffer)
	if fetchErr != nil {
		slog.Warn("[SyncEngine] Fetch failed, merging partial results",
			"document", doc.Name,
			"error", fetchErr,
			"samples_received", len(buffer),
		)
		p.fail(fetchErr)
	}

	// Merging
	p.enter(StateMerging)
	merged := downloads.Merge(existing, buffer)
	p.res.Added = len(merged) - len(existing)

	return p.finalize(merged, resolved.Prop)
}

// SyncAll synchronizes docs concurrently, each in its own pipeline. It always
// returns one Result per document, in input order; one document's failure
// never stops the others.
func (e *Engine) SyncAll(ctx context.Context, docs []*document.Document) []*Result {
	results := make([]*Result, len(docs))

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, doc := range docs {
		g.Go(func() error {
			results[i], _ = e.Sync(ctx, doc)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// pass tracks one document through the state machine.
type pass struct {
	doc *document.Document
	res *Result
}

func (p *pass) enter(s State) {
	p.res.State = s
	slog.Debug("[SyncEngine] State transition", "document", p.doc.Name, "state", s.String())
}

func (p *pass) fail(err error) {
	if p.res.Err == nil {
		p.res.Err = err
		return
	}
	p.res.Err = errors.Join(p.res.Err, err)
}

func (p *pass) finalize(series downloads.Series, prop string) (*Result, error) {
	if err := document.WriteSeries(p.doc, prop, series); err != nil {
		p.fail(err)
	}
	p.res.Total = len(series)
	p.enter(StateFinalized)

	slog.Info("[SyncEngine] Document synchronized",
		"document", p.doc.Name,
		"repo", p.res.Repo,
		"mode", p.res.Mode,
		"window", p.res.Window.String(),
		"fetched", p.res.Fetched,
		"added", p.res.Added,
		"total", p.res.Total,
		"failed", p.res.Err != nil,
	)
	return p.res, p.res.Err
}
