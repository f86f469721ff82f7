package refresh

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	v1 "github.com/aevon-lab/download-stats/internal/api/v1"
	httperr "github.com/aevon-lab/download-stats/internal/core/errors"
	"github.com/aevon-lab/download-stats/internal/core/storage"
	"github.com/aevon-lab/download-stats/internal/job"
	"github.com/aevon-lab/download-stats/internal/syncer"
	"github.com/gin-gonic/gin"
)

const (
	msgNotFound       = "Document not found"
	msgInProgress     = "Document is already being synchronized"
	msgFetchFailed    = "Fetching downloads failed; partial results were saved"
	msgInvalidConfig  = "Document settings are invalid"
	msgSaveFailed     = "Failed to save document"
	msgSyncFailed     = "Failed to synchronize document"
	msgInvalidLimit   = "Invalid limit parameter"
	msgListRunsFailed = "Failed to list sync runs"
)

// refreshError carries the structured HTTP error shape back to the handler.
type refreshError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *refreshError) Error() string {
	return e.message
}

// SyncHandler handles POST /v1/sync/:name.
func (s *Service) SyncHandler(c *gin.Context) {
	name := c.Param("name")

	out, err := s.syncer.RunDocument(c.Request.Context(), name)
	if err != nil {
		writeError(c, classifyRunError(name, err))
		return
	}

	resp := toSyncResponse(out)
	if rerr := classifyOutcome(out, resp); rerr != nil {
		writeError(c, rerr)
		return
	}

	slog.Info("[Refresh] Document synchronized on demand",
		"document", name,
		"run_id", resp.RunID,
		"fetched", resp.Fetched,
		"added", resp.Added)
	c.JSON(http.StatusOK, resp)
}

// ListRunsHandler handles GET /v1/sync/:name/runs?limit=N.
func (s *Service) ListRunsHandler(c *gin.Context) {
	limit := defaultRunsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxRunsLimit {
			writeError(c, &refreshError{
				statusCode: http.StatusBadRequest,
				errorType:  httperr.HttpInvalidRequestError,
				message:    msgInvalidLimit,
				details:    "limit must be between 1 and " + strconv.Itoa(maxRunsLimit),
			})
			return
		}
		limit = n
	}

	records, err := s.runs.RecentRuns(c.Request.Context(), c.Param("name"), limit)
	if err != nil {
		slog.Error("[Refresh] Failed to list sync runs", "document", c.Param("name"), "error", err)
		writeError(c, &refreshError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgListRunsFailed,
			details:    err.Error(),
		})
		return
	}

	runs := make([]v1.Run, 0, len(records))
	for _, r := range records {
		runs = append(runs, v1.Run{
			ID:         r.ID.String(),
			Document:   r.Document,
			Repo:       r.Repo,
			Mode:       r.Mode,
			StartedAt:  r.StartedAt,
			FinishedAt: r.FinishedAt,
			Fetched:    r.Fetched,
			Added:      r.Added,
			Error:      r.Error,
		})
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func classifyRunError(name string, err error) *refreshError {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return &refreshError{
			statusCode: http.StatusNotFound,
			errorType:  httperr.HttpDocumentNotFoundError,
			message:    msgNotFound,
			details:    name,
		}
	case errors.Is(err, job.ErrSyncInProgress):
		return &refreshError{
			statusCode: http.StatusConflict,
			errorType:  httperr.HttpSyncInProgressError,
			message:    msgInProgress,
			details:    name,
		}
	default:
		slog.Error("[Refresh] Sync failed before it started", "document", name, "error", err)
		return &refreshError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgSyncFailed,
			details:    err.Error(),
		}
	}
}

// classifyOutcome maps a completed pass with errors onto an HTTP error.
// The response body is attached so callers still see what was saved.
func classifyOutcome(out *job.Outcome, resp v1.SyncResponse) *refreshError {
	if out.SaveErr != nil {
		return &refreshError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgSaveFailed,
			details:    resp,
		}
	}

	err := out.Result.Err
	if err == nil {
		return nil
	}

	var fetchErr *syncer.FetchError
	if errors.As(err, &fetchErr) {
		return &refreshError{
			statusCode: http.StatusBadGateway,
			errorType:  httperr.HttpFetchFailedError,
			message:    msgFetchFailed,
			details:    resp,
		}
	}
	return &refreshError{
		statusCode: http.StatusUnprocessableEntity,
		errorType:  httperr.HttpInvalidRequestError,
		message:    msgInvalidConfig,
		details:    resp,
	}
}

func toSyncResponse(out *job.Outcome) v1.SyncResponse {
	res := out.Result
	resp := v1.SyncResponse{
		RunID:    out.RunID.String(),
		Document: res.Document.Name,
		Repo:     res.Repo,
		Mode:     string(res.Mode),
		Fetched:  res.Fetched,
		Added:    res.Added,
		Total:    res.Total,
	}
	if !res.Window.Start.IsZero() {
		resp.Window = v1.NewWindow(res.Window)
	}
	if err := out.Err(); err != nil {
		resp.Error = err.Error()
	}
	return resp
}

func writeError(c *gin.Context, e *refreshError) {
	c.JSON(e.statusCode, httperr.ErrorResponse{
		ErrorType: e.errorType,
		Message:   e.message,
		Details:   e.details,
	})
}
