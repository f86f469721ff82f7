package memory

import (
	"context"
	"testing"

	"github.com/aevon-lab/download-stats/internal/core/document"
	"github.com/aevon-lab/download-stats/internal/core/downloads"
	"github.com/aevon-lab/download-stats/internal/core/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetSaveList(t *testing.T) {
	ctx := context.Background()
	s := NewStore(
		document.New("b", []byte(`[]`), downloads.Overrides{Repo: "b"}),
		document.New("a", []byte(`[]`), downloads.Overrides{Repo: "a"}),
	)

	docs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].Name)
	assert.Equal(t, "b", docs[1].Name)

	_, err = s.Get(ctx, "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	got.Content[0] = 'x'

	again, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), again.Content, "stored content must not alias caller buffers")

	got.Content = []byte(`[{"day":"2020-01-01","downloads":1}]`)
	require.NoError(t, s.Save(ctx, got))
	again, err = s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, got.Content, again.Content)
}

func TestStore_RecordRun(t *testing.T) {
	s := NewStore()
	run := storage.RunRecord{ID: uuid.New(), Document: "a", Fetched: 3, Added: 2}
	require.NoError(t, s.RecordRun(context.Background(), run))

	runs := s.Runs()
	require.Len(t, runs, 1)
	assert.Equal(t, run, runs[0])
}

func TestStore_RecentRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for i := 0; i < 4; i++ {
		require.NoError(t, s.RecordRun(ctx, storage.RunRecord{ID: uuid.New(), Document: "a", Added: i}))
	}
	require.NoError(t, s.RecordRun(ctx, storage.RunRecord{ID: uuid.New(), Document: "b"}))

	runs, err := s.RecentRuns(ctx, "a", 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 3, runs[0].Added)
	assert.Equal(t, 2, runs[1].Added)

	runs, err = s.RecentRuns(ctx, "missing", 5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
