// Package pexels queries the Pexels photo search API for a single wallpaper.
package pexels

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/m3rciful/wallbot/bot/metrics"
	"github.com/m3rciful/wallbot/core/httpx"
	"github.com/m3rciful/wallbot/core/logger"
)

const (
	// DefaultBaseURL is the production search endpoint.
	DefaultBaseURL = "https://api.pexels.com/v1/search"
	// DefaultTimeout bounds one search request.
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 1 << 20
)

// Photo is one search result.
type Photo struct {
	PreviewURL   string `json:"preview_url"`
	OriginalURL  string `json:"original_url"`
	Photographer string `json:"photographer"`
}

// Query selects a single photo: page N of term with one result per page.
type Query struct {
	Term        string
	Page        int
	Orientation string
}

// Options configure a Client.
type Options struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// RatePerSecond throttles outbound searches. Zero disables throttling.
	RatePerSecond float64
	HTTPClient    *http.Client
	Metrics       *metrics.Metrics
}

// Client performs photo searches.
type Client struct {
	apiKey   string
	baseURL  string
	http     *http.Client
	throttle *rate.Limiter
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// New returns a search client. Requests are never retried.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = httpx.NewClient(httpx.Options{Timeout: opts.Timeout})
	}
	c := &Client{
		apiKey:  opts.APIKey,
		baseURL: opts.BaseURL,
		http:    hc,
		metrics: opts.Metrics,
		log:     logger.Component("search"),
	}
	if opts.RatePerSecond > 0 {
		c.throttle = rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1)
	}
	return c
}

type searchResponse struct {
	Photos []struct {
		Photographer string `json:"photographer"`
		Src          struct {
			Large2x  string `json:"large2x"`
			Original string `json:"original"`
		} `json:"src"`
	} `json:"photos"`
}

// Search returns the first photo for q. Any failure, including an empty
// result list, is reported as false and logged.
func (c *Client) Search(ctx context.Context, q Query) (Photo, bool) {
	searchID := uuid.NewString()
	start := time.Now()

	photo, err := c.search(ctx, q)
	took := time.Since(start)

	result := "ok"
	switch {
	case err != nil:
		result = "error"
	case photo == nil:
		result = "no_result"
	}
	c.metrics.ObserveSearch(result, took.Seconds())

	attrs := []slog.Attr{
		slog.String("search_id", searchID),
		slog.String("category", q.Term),
		slog.Int("page", q.Page),
		slog.String("orientation", q.Orientation),
		slog.Duration("duration", logger.RoundMS(took)),
	}
	switch {
	case err != nil:
		logger.LogEvent(ctx, c.log, slog.LevelWarn, "search.fail",
			append(attrs, slog.String("status", "fail"), slog.String("err", err.Error()))...)
		return Photo{}, false
	case photo == nil:
		logger.LogEvent(ctx, c.log, slog.LevelInfo, "search.empty",
			append(attrs, slog.String("status", "ok"), slog.String("outcome", "no_result"))...)
		return Photo{}, false
	}
	logger.LogEvent(ctx, c.log, slog.LevelDebug, "search.ok", append(attrs, slog.String("status", "ok"))...)
	return *photo, true
}

func (c *Client) search(ctx context.Context, q Query) (*Photo, error) {
	if c.throttle != nil {
		if err := c.throttle.Wait(ctx); err != nil {
			return nil, fmt.Errorf("throttle: %w", err)
		}
	}

	params := url.Values{}
	params.Set("query", q.Term)
	params.Set("per_page", "1")
	params.Set("page", strconv.Itoa(q.Page))
	if q.Orientation != "" {
		params.Set("orientation", q.Orientation)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var body searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(body.Photos) == 0 {
		return nil, nil
	}
	first := body.Photos[0]
	if strings.TrimSpace(first.Src.Large2x) == "" || strings.TrimSpace(first.Src.Original) == "" {
		return nil, fmt.Errorf("photo without source urls")
	}
	return &Photo{
		PreviewURL:   first.Src.Large2x,
		OriginalURL:  first.Src.Original,
		Photographer: first.Photographer,
	}, nil
}
