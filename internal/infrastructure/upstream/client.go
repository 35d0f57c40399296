// Package upstream talks to the grocery REST API that owns every entity the
// console shows. It handles retries, error bodies and bearer tokens.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/grocery/admin/internal/domain/identity"
	"github.com/grocery/admin/internal/infrastructure/config"
)

const tracerName = "github.com/grocery/admin/internal/infrastructure/upstream"

// maxErrorBody bounds how much of an error response is kept
const maxErrorBody = 64 << 10

// Recorder receives one observation per HTTP attempt
type Recorder interface {
	ObserveUpstream(method, route string, status int, elapsed time.Duration)
}

// RetryConfig configures retry behavior
type RetryConfig struct {
	MaxRetries int
	RetryDelay time.Duration
	MaxDelay   time.Duration
	Multiplier float64
}

// Client is the HTTP client for the remote data store
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	userAgent  string
	retry      RetryConfig
	logger     *zap.Logger
	recorder   Recorder
	tracer     trace.Tracer
	sleep      func(context.Context, time.Duration) error
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRecorder reports attempts to a metrics recorder
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the configured base URL
func NewClient(cfg config.UpstreamConfig, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:   base,
		userAgent: cfg.UserAgent,
		retry: RetryConfig{
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryBackoff,
			MaxDelay:   cfg.MaxBackoff,
			Multiplier: 2.0,
		},
		logger: zap.NewNop(),
		tracer: otel.Tracer(tracerName),
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Request is one call to the remote store
type Request struct {
	Method string
	// Route is the path template used for metrics and spans, e.g. "/products/:id"
	Route string
	Path  string
	Query url.Values
	Body  any
	// Token overrides the bearer token taken from the session in the context
	Token string
}

// Response is a successful (2xx) response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Attempts   int
}

// Decode unmarshals the body into v
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// Do executes a request, retrying transport errors, 5xx and 429 responses.
// Non-2xx responses are returned as *APIError.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	u := c.buildURL(req.Path, req.Query)
	route := req.Route
	if route == "" {
		route = req.Path
	}

	var payload []byte
	if req.Body != nil {
		var err error
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
	}

	token := req.Token
	if token == "" {
		if sess, ok := identity.SessionFrom(ctx); ok {
			token = sess.UpstreamToken
		}
	}

	ctx, span := c.tracer.Start(ctx, req.Method+" "+route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("http.route", route),
			attribute.String("server.address", c.baseURL.Host),
		),
	)
	defer span.End()

	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoff(attempt, lastErr)
			c.logger.Debug("Retrying upstream request",
				zap.String("method", req.Method),
				zap.String("route", route),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr))
			if err := c.sleep(ctx, delay); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}
		}

		resp, err := c.attempt(ctx, req.Method, route, u, payload, token)
		if err == nil {
			resp.Attempts = attempt + 1
			span.SetAttributes(
				attribute.Int("http.response.status_code", resp.StatusCode),
				attribute.Int("upstream.attempts", resp.Attempts),
			)
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil || !retryable(err) {
			break
		}
	}

	span.RecordError(lastErr)
	span.SetStatus(codes.Error, lastErr.Error())
	return nil, lastErr
}

// attempt performs a single HTTP exchange. The body reader is rebuilt for every attempt.
func (c *Client) attempt(ctx context.Context, method, route string, u *url.URL, payload []byte, token string) (*Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		c.observe(method, route, 0, elapsed)
		return nil, &TransportError{Method: method, Route: route, Err: err}
	}
	defer httpResp.Body.Close()
	c.observe(method, route, httpResp.StatusCode, elapsed)

	if httpResp.StatusCode >= 200 && httpResp.StatusCode < 300 {
		data, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return nil, &TransportError{Method: method, Route: route, Err: fmt.Errorf("reading response body: %w", err)}
		}
		return &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: data}, nil
	}

	data, _ := io.ReadAll(io.LimitReader(httpResp.Body, maxErrorBody))
	apiErr := NewAPIError(httpResp.StatusCode, data)
	apiErr.Method = method
	apiErr.Route = route
	apiErr.RetryAfter = parseRetryAfter(httpResp.Header.Get("Retry-After"))
	return nil, apiErr
}

func (c *Client) observe(method, route string, status int, elapsed time.Duration) {
	if c.recorder != nil {
		c.recorder.ObserveUpstream(method, route, status, elapsed)
	}
}

// buildURL joins the base URL and path and encodes the query
func (c *Client) buildURL(path string, query url.Values) *url.URL {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	u.RawPath = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return &u
}

// backoff returns the delay before the given retry: exponential with ±25% jitter,
// capped at MaxDelay. A Retry-After header on 429 wins when it is shorter than the cap.
func (c *Client) backoff(attempt int, lastErr error) time.Duration {
	if apiErr, ok := lastErr.(*APIError); ok && apiErr.RetryAfter > 0 {
		if c.retry.MaxDelay <= 0 || apiErr.RetryAfter <= c.retry.MaxDelay {
			return apiErr.RetryAfter
		}
	}
	delay := float64(c.retry.RetryDelay) * math.Pow(c.retry.Multiplier, float64(attempt-1))
	if c.retry.MaxDelay > 0 && delay > float64(c.retry.MaxDelay) {
		delay = float64(c.retry.MaxDelay)
	}
	jitter := delay * 0.25
	delay += (rand.Float64()*2 - 1) * jitter
	return time.Duration(delay)
}

func retryable(err error) bool {
	switch e := err.(type) {
	case *TransportError:
		return true
	case *APIError:
		return e.Status >= 500 || e.Status == http.StatusTooManyRequests
	}
	return false
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
