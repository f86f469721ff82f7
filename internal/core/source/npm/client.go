package npm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aevon-lab/download-stats/internal/core/downloads"
	"github.com/goccy/go-json"
)

const (
	DefaultBaseURL = "https://api.npmjs.org"
	defaultTimeout = 30 * time.Second

	// DefaultMaxRangeDays keeps single range queries inside the registry's
	// 18-month limit.
	DefaultMaxRangeDays = 365

	maxErrorBody = 4 << 10
)

// Config holds the npm downloads API client settings.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	MaxRangeDays int
}

// Client implements downloads.Source against the npm downloads API:
//
//	GET {base}/downloads/range/{start}:{end}[/{package}]
//
// Without a package the API answers with registry-wide totals.
type Client struct {
	baseURL      string
	maxRangeDays int
	httpClient   *http.Client
}

// rangeResponse is the API payload for a range query.
type rangeResponse struct {
	Start     string        `json:"start"`
	End       string        `json:"end"`
	Package   string        `json:"package"`
	Downloads []rangeSample `json:"downloads"`
	Error     string        `json:"error"`
}

type rangeSample struct {
	Day       string `json:"day"`
	Downloads int64  `json:"downloads"`
}

// NewClient creates a client; zero config fields take defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRangeDays <= 0 {
		cfg.MaxRangeDays = DefaultMaxRangeDays
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		maxRangeDays: cfg.MaxRangeDays,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
	}
}

// Get fetches req in consecutive chunks of at most maxRangeDays, oldest
// first, emitting samples as each chunk arrives. The first failing chunk
// ends the call; samples from earlier chunks have already been emitted.
func (c *Client) Get(ctx context.Context, req downloads.FetchRequest, emit func(downloads.Sample)) error {
	start := downloads.DayOf(req.Start)
	end := downloads.DayOf(req.End)
	if end.Before(start) {
		return fmt.Errorf("invalid range %s to %s", start.Format(downloads.DayLayout), end.Format(downloads.DayLayout))
	}

	span := time.Duration(c.maxRangeDays-1) * 24 * time.Hour
	for chunkStart := start; !chunkStart.After(end); {
		chunkEnd := chunkStart.Add(span)
		if chunkEnd.After(end) {
			chunkEnd = end
		}

		if err := c.getChunk(ctx, chunkStart, chunkEnd, req.Repo, emit); err != nil {
			return err
		}
		chunkStart = chunkEnd.Add(24 * time.Hour)
	}
	return nil
}

func (c *Client) getChunk(ctx context.Context, start, end time.Time, pkg string, emit func(downloads.Sample)) error {
	reqURL := c.rangeURL(start, end, pkg)

	body, err := c.executeRequest(ctx, reqURL)
	if err != nil {
		return err
	}
	defer body.Close()

	var resp rangeResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return fmt.Errorf("decode %s: %w", reqURL, err)
	}
	if resp.Error != "" {
		return fmt.Errorf("npm api: %s", resp.Error)
	}

	slog.Debug("[NPM] Range fetched",
		"package", pkg,
		"start", start.Format(downloads.DayLayout),
		"end", end.Format(downloads.DayLayout),
		"samples", len(resp.Downloads),
	)

	for _, s := range resp.Downloads {
		day, err := downloads.ParseDay(s.Day)
		if err != nil {
			slog.Warn("[NPM] Skipping sample with invalid day", "package", pkg, "day", s.Day)
			continue
		}
		emit(downloads.Sample{Day: day, Downloads: s.Downloads})
	}
	return nil
}

func (c *Client) rangeURL(start, end time.Time, pkg string) string {
	u := fmt.Sprintf("%s/downloads/range/%s:%s", c.baseURL,
		start.Format(downloads.DayLayout), end.Format(downloads.DayLayout))
	if pkg != "" {
		u += "/" + pkg
	}
	return u
}

// executeRequest issues a GET and returns the body of a 200 response.
func (c *Client) executeRequest(ctx context.Context, reqURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, fmt.Errorf("request %s failed with status %d: %s", reqURL, resp.StatusCode, readErrorBody(resp.Body))
	}
	return resp.Body, nil
}

// readErrorBody extracts the API error message when present, else the raw body.
func readErrorBody(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(b, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(b))
}
