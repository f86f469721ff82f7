package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aevon-lab/download-stats/internal/core/document"
	"github.com/aevon-lab/download-stats/internal/core/storage"
)

// Store is an in-memory DocumentStore and RunRecorder.
// Useful for testing and development.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*document.Document
	runs []storage.RunRecord
}

// NewStore creates a store seeded with docs.
func NewStore(docs ...*document.Document) *Store {
	s := &Store{docs: make(map[string]*document.Document)}
	for _, d := range docs {
		s.docs[d.Name] = clone(d)
	}
	return s
}

func (s *Store) List(ctx context.Context) ([]*document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*document.Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, clone(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) Get(ctx context.Context, name string) (*document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.docs[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return clone(d), nil
}

func (s *Store) Save(ctx context.Context, doc *document.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[doc.Name] = clone(doc)
	return nil
}

func (s *Store) RecordRun(ctx context.Context, run storage.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = append(s.runs, run)
	return nil
}

func (s *Store) RecentRuns(ctx context.Context, name string, limit int) ([]storage.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []storage.RunRecord{}
	for i := len(s.runs) - 1; i >= 0 && len(out) < limit; i-- {
		if s.runs[i].Document == name {
			out = append(out, s.runs[i])
		}
	}
	return out, nil
}

// Runs returns a copy of the recorded run log.
func (s *Store) Runs() []storage.RunRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]storage.RunRecord(nil), s.runs...)
}

// clone copies the document so callers cannot mutate stored state.
// Structured content is shared; stores only ever hold raw content.
func clone(d *document.Document) *document.Document {
	c := *d
	c.Content = append([]byte(nil), d.Content...)
	return &c
}
