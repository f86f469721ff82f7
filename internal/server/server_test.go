package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestServer_Health(t *testing.T) {
	tests := []struct {
		name           string
		health         pingFunc
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "no checker reports local storage",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"healthy","storage":"local"}`,
		},
		{
			name:           "ping ok",
			health:         func(context.Context) error { return nil },
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"healthy","storage":"connected"}`,
		},
		{
			name:           "ping failure returns 503",
			health:         func(context.Context) error { return errors.New("down") },
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"status":"unhealthy","error":"storage unreachable"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var s *Server
			if tc.health == nil {
				s = New(":0", nil, "release")
			} else {
				s = New(":0", tc.health, "release")
			}
			gin.SetMode(gin.TestMode)

			resp := httptest.NewRecorder()
			s.Engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, tc.expectedStatus, resp.Code)
			require.JSONEq(t, tc.expectedBody, resp.Body.String())
		})
	}
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	s := New("127.0.0.1:0", nil, "release")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	require.NoError(t, <-done)
}
