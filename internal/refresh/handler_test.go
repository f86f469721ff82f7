package refresh

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	v1 "github.com/aevon-lab/download-stats/internal/api/v1"
	"github.com/aevon-lab/download-stats/internal/core/document"
	"github.com/aevon-lab/download-stats/internal/core/downloads"
	httperr "github.com/aevon-lab/download-stats/internal/core/errors"
	"github.com/aevon-lab/download-stats/internal/core/storage/memory"
	"github.com/aevon-lab/download-stats/internal/job"
	"github.com/aevon-lab/download-stats/internal/syncer"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2020, 1, 5, 13, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T, store *memory.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	source := downloads.SourceFunc(func(ctx context.Context, req downloads.FetchRequest, emit func(downloads.Sample)) error {
		emit(downloads.Sample{Day: req.Start, Downloads: 3})
		if req.Repo == "broken" {
			return errors.New("registry unavailable")
		}
		return nil
	})
	engine := syncer.NewEngine(source, downloads.SyncConfig{Start: "2020-01-01"},
		syncer.WithClock(func() time.Time { return testNow }))

	r := gin.New()
	NewService(job.NewRunner(engine, store, store), store).RegisterRoutes(r)
	return r
}

func doRequest(r http.Handler, method, path string) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(method, path, nil))
	return resp
}

func TestSyncHandler_Success(t *testing.T) {
	store := memory.NewStore(document.New("assemble", []byte(`[]`), downloads.Overrides{Repo: "assemble"}))
	r := newTestRouter(t, store)

	resp := doRequest(r, http.MethodPost, "/v1/sync/assemble")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body v1.SyncResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.NotEmpty(t, body.RunID)
	assert.Equal(t, "range", body.Mode)
	assert.Equal(t, v1.Window{Start: "2019-12-31", End: "2020-01-04"}, body.Window)
	assert.Equal(t, 1, body.Fetched)
	assert.Equal(t, 1, body.Added)
	assert.Empty(t, body.Error)

	runs := store.Runs()
	require.Len(t, runs, 1)
	assert.Equal(t, body.RunID, runs[0].ID.String())
}

func TestSyncHandler_FetchFailureStillSaves(t *testing.T) {
	store := memory.NewStore(document.New("broken", []byte(`[]`), downloads.Overrides{Repo: "broken"}))
	r := newTestRouter(t, store)

	resp := doRequest(r, http.MethodPost, "/v1/sync/broken")
	require.Equal(t, http.StatusBadGateway, resp.Code, resp.Body.String())

	var body struct {
		ErrorType string          `json:"error_type"`
		Details   v1.SyncResponse `json:"details"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, httperr.HttpFetchFailedError, body.ErrorType)
	assert.Equal(t, 1, body.Details.Added)
	assert.Contains(t, body.Details.Error, "registry unavailable")

	doc, err := store.Get(context.Background(), "broken")
	require.NoError(t, err)
	series, ok := document.ReadSeries(doc, "")
	require.True(t, ok)
	assert.Len(t, series, 1)
}

func TestSyncHandler_ErrorMapping(t *testing.T) {
	store := memory.NewStore(document.New("bad-start", []byte(`[]`), downloads.Overrides{Repo: "x", Start: "not-a-day"}))
	r := newTestRouter(t, store)

	resp := doRequest(r, http.MethodPost, "/v1/sync/missing")
	require.Equal(t, http.StatusNotFound, resp.Code)

	resp = doRequest(r, http.MethodPost, "/v1/sync/bad-start")
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())
}

type busySyncer struct{}

func (busySyncer) RunDocument(context.Context, string) (*job.Outcome, error) {
	return nil, job.ErrSyncInProgress
}

func TestSyncHandler_InProgressReturnsConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewService(busySyncer{}, nil).RegisterRoutes(r)

	resp := doRequest(r, http.MethodPost, "/v1/sync/assemble")
	require.Equal(t, http.StatusConflict, resp.Code)

	var body httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, httperr.HttpSyncInProgressError, body.ErrorType)

	resp = doRequest(r, http.MethodGet, "/v1/sync/assemble/runs")
	assert.Equal(t, http.StatusNotFound, resp.Code, "runs route is only registered with a run log")
}

func TestListRunsHandler(t *testing.T) {
	store := memory.NewStore(document.New("assemble", []byte(`[]`), downloads.Overrides{Repo: "assemble"}))
	r := newTestRouter(t, store)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, doRequest(r, http.MethodPost, "/v1/sync/assemble").Code)
	}

	resp := doRequest(r, http.MethodGet, "/v1/sync/assemble/runs?limit=2")
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Runs []v1.Run `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Runs, 2)
	assert.Equal(t, "assemble", body.Runs[0].Document)

	for _, limit := range []string{"0", "abc", "1000"} {
		resp = doRequest(r, http.MethodGet, "/v1/sync/assemble/runs?limit="+limit)
		assert.Equal(t, http.StatusBadRequest, resp.Code, "limit=%s", limit)
	}
}
