package refresh

import (
	"context"

	"github.com/aevon-lab/download-stats/internal/core/storage"
	"github.com/aevon-lab/download-stats/internal/job"
	"github.com/gin-gonic/gin"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

// DocumentSyncer synchronizes and persists one document.
type DocumentSyncer interface {
	RunDocument(ctx context.Context, name string) (*job.Outcome, error)
}

// Service exposes on-demand synchronization over HTTP.
type Service struct {
	syncer DocumentSyncer
	runs   storage.RunRecorder
}

// NewService creates the refresh service. runs may be nil, in which case the
// run log endpoint is not registered.
func NewService(syncer DocumentSyncer, runs storage.RunRecorder) *Service {
	if syncer == nil {
		panic("refresh: syncer must not be nil")
	}
	return &Service{syncer: syncer, runs: runs}
}

// RegisterRoutes registers the refresh service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/sync/:name", s.SyncHandler)
	if s.runs != nil {
		r.GET("/v1/sync/:name/runs", s.ListRunsHandler)
	}
}
