// Package notehub is a thin REST client for the NoteHub notes API.
//
// Every call reads the bearer token at call time and fails with a
// *ConfigError before touching the network when it is missing. Transport
// failures come back as *NetworkError and non-2xx answers as *APIError.
package notehub

import (
	"bytes"
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

	"notehub/internal/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	notesPath       = "/notes"
	defaultTimeout  = 10 * time.Second
	maxErrorBodyLen = 4 << 10
)

// TokenSource returns the bearer credential; "" means not configured.
type TokenSource func() string

// StaticToken is a TokenSource that always returns token.
func StaticToken(token string) TokenSource {
	return func() string { return token }
}

// Client talks to the NoteHub API
type Client struct {
	baseURL string
	token   TokenSource
	http    *http.Client
	log     *slog.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithRegisterer instruments the transport with request counters and
// latency histograms registered on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Client) {
		requests := prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notehub_client_requests_total",
				Help: "Total number of requests sent to the NoteHub API",
			},
			[]string{"code", "method"},
		)
		duration := prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "notehub_client_request_duration_seconds",
				Help:    "Duration of NoteHub API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		)
		reg.MustRegister(requests, duration)

		next := c.http.Transport
		if next == nil {
			next = http.DefaultTransport
		}
		hc := *c.http
		hc.Transport = promhttp.InstrumentRoundTripperCounter(requests,
			promhttp.InstrumentRoundTripperDuration(duration, next))
		c.http = &hc
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, token TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: defaultTimeout},
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig creates a client whose token is NOTEHUB_TOKEN.
func NewFromConfig(cfg config.Config, opts ...Option) *Client {
	base := []Option{WithTimeout(cfg.HTTPTimeout())}
	return New(cfg.NoteHubBaseURL, StaticToken(cfg.NoteHubToken), append(base, opts...)...)
}

// List fetches one page of notes. A blank search is left out of the
// query string so the API applies no filter.
func (c *Client) List(ctx context.Context, p ListParams) (*ListResponse, error) {
	if p.Page < 1 {
		return nil, ErrInvalidPage
	}
	if p.PerPage <= 0 {
		return nil, ErrInvalidPerPage
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("perPage", strconv.Itoa(p.PerPage))
	if search := strings.TrimSpace(p.Search); search != "" {
		q.Set("search", search)
	}

	var resp ListResponse
	if err := c.do(ctx, "list", http.MethodGet, notesPath+"?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Create creates a note.
func (c *Client) Create(ctx context.Context, req CreateNoteRequest) (*Note, error) {
	var note Note
	if err := c.do(ctx, "create", http.MethodPost, notesPath, req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// Delete deletes a note and returns it as it was.
func (c *Client) Delete(ctx context.Context, id string) (*Note, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	var note Note
	if err := c.do(ctx, "delete", http.MethodDelete, notesPath+"/"+url.PathEscape(id), nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	token := ""
	if c.token != nil {
		token = c.token()
	}
	if token == "" {
		return &ConfigError{Key: "NOTEHUB_TOKEN"}
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("notehub %s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("notehub %s: build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("notehub request failed", "op", op, "method", method, "path", path, "error", err)
		return &NetworkError{Op: op, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Debug("failed to close response body", "op", op, "error", err)
		}
	}()

	if c.log.Enabled(ctx, slog.LevelDebug) {
		c.log.Debug("notehub request", "op", op, "method", method, "path", path,
			"status", resp.StatusCode, "elapsed", time.Since(start))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
