package projection

import (
	"errors"
	"net/http"

	v1 "github.com/aevon-lab/download-stats/internal/api/v1"
	httperr "github.com/aevon-lab/download-stats/internal/core/errors"
	"github.com/aevon-lab/download-stats/internal/core/storage"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all projection API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/downloads/:name", s.HandleQuerySeries)
}

// HandleQuerySeries handles GET /v1/downloads/:name
// Query parameters: start, end, granularity
func (s *Service) HandleQuerySeries(c *gin.Context) {
	var query v1.SeriesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidRequestError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}

	resp, err := s.QuerySeries(c.Request.Context(), c.Param("name"), query)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidQuery):
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpInvalidRequestError,
				Message:   "Invalid series query",
				Details:   err.Error(),
			})
		case errors.Is(err, storage.ErrNotFound):
			c.JSON(http.StatusNotFound, httperr.ErrorResponse{
				ErrorType: httperr.HttpDocumentNotFoundError,
				Message:   "Document not found",
				Details:   c.Param("name"),
			})
		default:
			c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
				ErrorType: httperr.HttpInternalError,
				Message:   "Failed to query series",
				Details:   err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
