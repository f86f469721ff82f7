package npm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aevon-lab/download-stats/internal/core/downloads"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer creates a test server with keep-alives disabled so closing it
// does not affect other tests sharing the transport.
func newTestServer(handler http.Handler) *httptest.Server {
	server := httptest.NewServer(handler)
	server.Config.SetKeepAlivesEnabled(false)
	return server
}

func day(s string) time.Time {
	t, _ := downloads.ParseDay(s)
	return t
}

func collect(t *testing.T, c *Client, req downloads.FetchRequest) ([]downloads.Sample, error) {
	t.Helper()
	var out []downloads.Sample
	err := c.Get(context.Background(), req, func(s downloads.Sample) { out = append(out, s) })
	return out, err
}

func TestClient_Get_PackageRange(t *testing.T) {
	var gotPath string
	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"start":"2020-01-01","end":"2020-01-02","package":"assemble","downloads":[
			{"downloads":10,"day":"2020-01-01"},
			{"downloads":12,"day":"2020-01-02"}
		]}`)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL + "/"})
	samples, err := collect(t, c, downloads.FetchRequest{Start: day("2020-01-01"), End: day("2020-01-02"), Repo: "assemble"})
	require.NoError(t, err)

	assert.Equal(t, "/downloads/range/2020-01-01:2020-01-02/assemble", gotPath)
	require.Equal(t, []downloads.Sample{
		{Day: day("2020-01-01"), Downloads: 10},
		{Day: day("2020-01-02"), Downloads: 12},
	}, samples)
}

func TestClient_Get_TotalsOmitPackage(t *testing.T) {
	var gotPath string
	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"start":"2020-01-03","end":"2020-01-03","downloads":[{"downloads":123456,"day":"2020-01-03"}]}`)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL})
	samples, err := collect(t, c, downloads.FetchRequest{Start: day("2020-01-03"), End: day("2020-01-03")})
	require.NoError(t, err)
	assert.Equal(t, "/downloads/range/2020-01-03:2020-01-03", gotPath)
	require.Len(t, samples, 1)
	assert.Equal(t, int64(123456), samples[0].Downloads)
}

func TestClient_Get_SplitsLongRanges(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()

		span := strings.TrimPrefix(r.URL.Path, "/downloads/range/")
		span = strings.TrimSuffix(span, "/pkg")
		first := strings.SplitN(span, ":", 2)[0]
		fmt.Fprintf(w, `{"downloads":[{"downloads":1,"day":%q}]}`, first)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL, MaxRangeDays: 3})
	samples, err := collect(t, c, downloads.FetchRequest{Start: day("2020-01-01"), End: day("2020-01-07"), Repo: "pkg"})
	require.NoError(t, err)

	require.Equal(t, []string{
		"/downloads/range/2020-01-01:2020-01-03/pkg",
		"/downloads/range/2020-01-04:2020-01-06/pkg",
		"/downloads/range/2020-01-07:2020-01-07/pkg",
	}, paths)
	require.Len(t, samples, 3)
}

func TestClient_Get_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		errContains string
	}{
		{
			name:        "not found with api message",
			status:      http.StatusNotFound,
			body:        `{"error":"package nope not found"}`,
			errContains: "package nope not found",
		},
		{
			name:        "server error with plain body",
			status:      http.StatusBadGateway,
			body:        "upstream down",
			errContains: "status 502: upstream down",
		},
		{
			name:        "error field on 200",
			status:      http.StatusOK,
			body:        `{"error":"end date > start date"}`,
			errContains: "npm api: end date > start date",
		},
		{
			name:        "malformed json",
			status:      http.StatusOK,
			body:        `{"downloads":`,
			errContains: "decode",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer server.Close()

			c := NewClient(Config{BaseURL: server.URL})
			_, err := collect(t, c, downloads.FetchRequest{Start: day("2020-01-01"), End: day("2020-01-01"), Repo: "nope"})
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.errContains)
		})
	}
}

func TestClient_Get_PartialChunksEmittedBeforeFailure(t *testing.T) {
	calls := 0
	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"downloads":[{"downloads":5,"day":"2020-01-01"},{"downloads":6,"day":"2020-01-02"}]}`)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL, MaxRangeDays: 2})
	samples, err := collect(t, c, downloads.FetchRequest{Start: day("2020-01-01"), End: day("2020-01-04"), Repo: "pkg"})
	require.Error(t, err)
	require.Len(t, samples, 2)
	require.Equal(t, 2, calls)
}

func TestClient_Get_InvalidRange(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	_, err := collect(t, c, downloads.FetchRequest{Start: day("2020-01-02"), End: day("2020-01-01")})
	require.ErrorContains(t, err, "invalid range")
}

func TestClient_Get_ContextCancelled(t *testing.T) {
	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"downloads":[]}`)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(Config{BaseURL: server.URL})
	err := c.Get(ctx, downloads.FetchRequest{Start: day("2020-01-01"), End: day("2020-01-01")}, func(downloads.Sample) {})
	require.ErrorIs(t, err, context.Canceled)
}
