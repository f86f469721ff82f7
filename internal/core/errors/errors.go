package errors

const (
	HttpInternalError         = "internal_error"
	HttpInvalidRequestError   = "invalid_request"
	HttpDocumentNotFoundError = "document_not_found"
	HttpFetchFailedError      = "fetch_failed"
	HttpSyncInProgressError   = "sync_in_progress"
)

// ErrorResponse is the error response body of every API endpoint.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
