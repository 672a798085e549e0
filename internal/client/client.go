package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"go-inventory-console/internal/metrics"
	"go-inventory-console/internal/session"
	"go-inventory-console/pkg/logger"

	"go.uber.org/zap"
)

// DefaultMaxBodySize caps how much of a response is buffered.
const DefaultMaxBodySize = 32 << 20

var (
	ErrUnauthorized = errors.New("client: authorization failed")
	ErrBodyTooLarge = errors.New("client: response body too large")
)

// StatusError is returned for any response with status >= 400.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = http.StatusText(e.Code)
	}
	return fmt.Sprintf("%s %s failed: %d %s", e.Method, e.Path, e.Code, msg)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Options configures a Client. Session is required.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	Session    *session.Session
	Logger     *zap.Logger
	Metrics    *metrics.Metrics

	// MaxBodySize limits buffered responses; zero means DefaultMaxBodySize.
	MaxBodySize int64

	// OnUnauthorized runs after a 401 has cleared the session.
	OnUnauthorized func()
}

// Client issues backend calls on behalf of one session.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	timeout        time.Duration
	session        *session.Session
	logger         *zap.Logger
	metrics        *metrics.Metrics
	maxBodySize    int64
	onUnauthorized func()
}

// Response is a fully read backend response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	sess := opts.Session
	if sess == nil {
		sess = session.New()
	}
	limit := opts.MaxBodySize
	if limit <= 0 {
		limit = DefaultMaxBodySize
	}
	return &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		httpClient:     hc,
		timeout:        opts.Timeout,
		session:        sess,
		logger:         logger.OrNop(opts.Logger),
		metrics:        opts.Metrics,
		maxBodySize:    limit,
		onUnauthorized: opts.OnUnauthorized,
	}
}

// Session returns the session whose token the client attaches.
func (c *Client) Session() *session.Session {
	return c.session
}

type requestOptions struct {
	anonymous bool
}

// RequestOption tweaks a single call.
type RequestOption func(*requestOptions)

// Anonymous sends the request without a bearer token and leaves the session
// alone on a 401. Used for the login exchange.
func Anonymous() RequestOption {
	return func(o *requestOptions) { o.anonymous = true }
}

// Do sends a request to path (relative to the base URL). A non-nil body is
// encoded as JSON. The bearer token of the session is attached when the
// session is authenticated.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	var ro requestOptions
	for _, o := range opts {
		o(&ro)
	}

	if c.timeout > 0 {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("client: encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" && !ro.anonymous {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	endpoint := endpointName(path)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveClient(endpoint, 0, time.Since(start))
		c.logger.Warn("Backend request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	// One byte past the limit tells a full body from a truncated one.
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	c.metrics.ObserveClient(endpoint, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("client: read %s %s: %w", method, path, err)
	}
	if int64(len(data)) > c.maxBodySize {
		c.logger.Warn("Backend response exceeds size limit",
			zap.String("path", path),
			zap.Int64("limit", c.maxBodySize),
		)
		return nil, fmt.Errorf("%w: %s %s over %d bytes", ErrBodyTooLarge, method, path, c.maxBodySize)
	}

	c.logger.Debug("Backend request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode == http.StatusUnauthorized && !ro.anonymous {
		c.session.Clear()
		c.logger.Warn("Backend rejected credentials, session cleared", zap.String("path", path))
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	}
	if resp.StatusCode >= 400 {
		return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: string(data)}
	}

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// DecodeJSON unmarshals a response body into v.
func (r *Response) DecodeJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Filename extracts the filename from a Content-Disposition header, or
// returns fallback.
func (r *Response) Filename(fallback string) string {
	return FilenameFromDisposition(r.Header.Get("Content-Disposition"), fallback)
}

// FilenameFromDisposition parses header per RFC 6266, preferring filename*.
func FilenameFromDisposition(header, fallback string) string {
	if header == "" {
		return fallback
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return fallback
	}
	// mime decodes filename* into "filename".
	if name := strings.TrimSpace(params["filename"]); name != "" {
		return name
	}
	return fallback
}

func endpointName(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return strings.TrimPrefix(path, "/api/")
}
