package storage

import (
	"context"
	"errors"
	"time"

	"github.com/aevon-lab/download-stats/internal/core/document"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no document with the requested name exists.
var ErrNotFound = errors.New("document not found")

// DocumentStore loads and persists download documents.
type DocumentStore interface {
	// List returns every stored document, ordered by name.
	List(ctx context.Context) ([]*document.Document, error)

	// Get returns the named document or ErrNotFound.
	Get(ctx context.Context, name string) (*document.Document, error)

	// Save writes the document content back. Overrides are stored as well
	// where the backend keeps them alongside the content.
	Save(ctx context.Context, doc *document.Document) error
}

// RunRecord is the audit entry of one document sync pass.
type RunRecord struct {
	ID         uuid.UUID
	Document   string
	Repo       string
	Mode       string
	StartedAt  time.Time
	FinishedAt time.Time
	Fetched    int
	Added      int
	Error      string
}

// RunRecorder is implemented by stores that keep a sync run log.
type RunRecorder interface {
	RecordRun(ctx context.Context, run RunRecord) error

	// RecentRuns returns up to limit runs of one document, newest first.
	RecentRuns(ctx context.Context, document string, limit int) ([]RunRecord, error)
}

// HealthChecker is implemented by stores that can report backend health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
