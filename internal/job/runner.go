package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aevon-lab/download-stats/internal/core/document"
	"github.com/aevon-lab/download-stats/internal/core/storage"
	"github.com/aevon-lab/download-stats/internal/syncer"
	"github.com/google/uuid"
)

// ErrSyncInProgress is returned when a document is already being synchronized.
var ErrSyncInProgress = errors.New("sync already in progress")

// persistTimeout bounds writing a pass back once its context is gone.
const persistTimeout = 30 * time.Second

// Outcome is one document's persisted sync pass.
type Outcome struct {
	RunID  uuid.UUID
	Result *syncer.Result

	// SaveErr is set when the merged document could not be written back.
	SaveErr error
}

// Err reports the first failure of the pass: fetch/merge, then save.
func (o *Outcome) Err() error {
	if o.Result != nil && o.Result.Err != nil {
		return o.Result.Err
	}
	return o.SaveErr
}

// Summary aggregates one RunOnce.
type Summary struct {
	Documents int
	Skipped   int
	Failed    int
	Fetched   int
	Added     int
	Duration  time.Duration
	Outcomes  []*Outcome
}

// Runner syncs stored documents and writes them back. Every pass is saved,
// failed ones included, so partial progress is never lost.
type Runner struct {
	engine *syncer.Engine
	store  storage.DocumentStore
	runs   storage.RunRecorder
	nowFn  func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewRunner creates a runner. runs may be nil when the backend keeps no run log.
func NewRunner(engine *syncer.Engine, store storage.DocumentStore, runs storage.RunRecorder) *Runner {
	return &Runner{
		engine:   engine,
		store:    store,
		runs:     runs,
		nowFn:    time.Now,
		inflight: make(map[string]struct{}),
	}
}

// RunOnce synchronizes every stored document. Documents already being synced
// by another caller are skipped. Only a listing failure aborts the run; per
// document failures are reported in the Summary.
func (r *Runner) RunOnce(ctx context.Context) (Summary, error) {
	started := r.nowFn()

	docs, err := r.store.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list documents: %w", err)
	}

	claimed := make([]*document.Document, 0, len(docs))
	for _, doc := range docs {
		if !r.claim(doc.Name) {
			slog.Info("[BatchJob] Skipping document, sync already in progress", "document", doc.Name)
			continue
		}
		claimed = append(claimed, doc)
	}
	defer func() {
		for _, doc := range claimed {
			r.release(doc.Name)
		}
	}()

	slog.Info("[BatchJob] Starting sync run", "documents", len(claimed), "skipped", len(docs)-len(claimed))

	results := r.engine.SyncAll(ctx, claimed)

	summary := Summary{
		Documents: len(claimed),
		Skipped:   len(docs) - len(claimed),
		Outcomes:  make([]*Outcome, 0, len(results)),
	}
	for _, res := range results {
		out := r.persist(ctx, res, started)
		summary.Outcomes = append(summary.Outcomes, out)
		summary.Fetched += res.Fetched
		summary.Added += res.Added
		if out.Err() != nil {
			summary.Failed++
		}
	}
	summary.Duration = r.nowFn().Sub(started)

	slog.Info("[BatchJob] Sync run complete",
		"documents", summary.Documents,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"fetched", summary.Fetched,
		"added", summary.Added,
		"duration", summary.Duration,
	)
	return summary, nil
}

// RunDocument synchronizes one named document.
func (r *Runner) RunDocument(ctx context.Context, name string) (*Outcome, error) {
	if !r.claim(name) {
		return nil, ErrSyncInProgress
	}
	defer r.release(name)

	doc, err := r.store.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load document %q: %w", name, err)
	}

	started := r.nowFn()
	res, _ := r.engine.Sync(ctx, doc)
	return r.persist(ctx, res, started), nil
}

// persist saves the synced document and records the run. It runs detached
// from ctx cancellation so a pass cut short by shutdown still lands.
func (r *Runner) persist(ctx context.Context, res *syncer.Result, started time.Time) *Outcome {
	out := &Outcome{RunID: uuid.New(), Result: res}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err := r.store.Save(ctx, res.Document); err != nil {
		slog.Error("[BatchJob] Failed to save document", "document", res.Document.Name, "error", err)
		out.SaveErr = fmt.Errorf("save document %q: %w", res.Document.Name, err)
	}

	if r.runs == nil {
		return out
	}

	record := storage.RunRecord{
		ID:         out.RunID,
		Document:   res.Document.Name,
		Repo:       res.Repo,
		Mode:       string(res.Mode),
		StartedAt:  started,
		FinishedAt: r.nowFn(),
		Fetched:    res.Fetched,
		Added:      res.Added,
	}
	if err := out.Err(); err != nil {
		record.Error = err.Error()
	}
	// Run log failures never fail the sync.
	if err := r.runs.RecordRun(ctx, record); err != nil {
		slog.Warn("[BatchJob] Failed to record sync run", "document", record.Document, "run_id", record.ID, "error", err)
	}
	return out
}

func (r *Runner) claim(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, busy := r.inflight[name]; busy {
		return false
	}
	r.inflight[name] = struct{}{}
	return true
}

func (r *Runner) release(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.inflight, name)
}
