package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aevon-lab/download-stats/internal/core/storage"
	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

type Server struct {
	Engine *gin.Engine
	Addr   string
	health storage.HealthChecker
}

// New creates the HTTP server. health may be nil for backends with nothing
// to ping (filesystem, memory).
func New(addr string, health storage.HealthChecker, mode string) *Server {
	if mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	s := &Server{
		Engine: r,
		Addr:   addr,
		health: health,
	}

	r.GET("/health", s.healthHandler)

	return s
}

func (s *Server) healthHandler(c *gin.Context) {
	if s.health == nil {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "storage": "local"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := s.health.Ping(ctx); err != nil {
		slog.Error("[Server] Health check failed: storage unreachable", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "storage unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"storage": "connected",
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.Addr,
		Handler: s.Engine,
	}

	slog.Info("[Server] Starting HTTP Server...", "address", s.Addr)

	go func() {
		<-ctx.Done()
		slog.Info("[Server] Stopping HTTP Server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("[Server] HTTP Server forced to shutdown", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
