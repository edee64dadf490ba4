// Package analyzer is the client of the image-analysis service that turns
// event flyers into structured card data.
//
// Every failure is returned as *Error carrying one human-readable message;
// health checks degrade to false instead of failing.
package analyzer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/eventdeck/internal/logging"
	"github.com/aretw0/eventdeck/pkg/domain"
)

// Defaults of the analysis service.
const (
	DefaultBaseURL        = "http://localhost:3001"
	DefaultAnalyzeTimeout = 30 * time.Second
	DefaultHealthTimeout  = 5 * time.Second
	DefaultTitle          = "Evento"

	PathAnalyzeImage = "/api/events/analyze-image"
	PathAnalyzeURL   = "/api/events/analyze-url"
	PathHealth       = "/api/health"
)

// Fallback messages when the service gives none.
const (
	msgAnalysisFailed  = "Analysis failed"
	msgAnalyzeImage    = "Failed to analyze image"
	msgContract        = "Unexpected response from analysis service"
	maxResponseBytes   = 4 << 20
	contentTypeJSON    = "application/json"
	defaultImageFormat = "image/jpeg"
)

// Client calls the analysis service.
type Client struct {
	baseURL        string
	http           *http.Client
	logger         *slog.Logger
	hooks          domain.LifecycleHooks
	contract       *Contract
	analyzeTimeout time.Duration
	healthTimeout  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger configures the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Client) {
		c.hooks = hooks
	}
}

// WithAnalyzeTimeout bounds each analysis call.
func WithAnalyzeTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.analyzeTimeout = d
	}
}

// WithHealthTimeout bounds each health check.
func WithHealthTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.healthTimeout = d
	}
}

// WithContract validates requests and responses against contract.
func WithContract(contract *Contract) Option {
	return func(c *Client) {
		c.contract = contract
	}
}

// New creates a client for the service at baseURL. An empty baseURL uses
// DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           http.DefaultClient,
		logger:         logging.NewNop(),
		analyzeTimeout: DefaultAnalyzeTimeout,
		healthTimeout:  DefaultHealthTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AnalyzeImage extracts an event from image, a data URI or an URL.
// An empty title sends DefaultTitle.
func (c *Client) AnalyzeImage(ctx context.Context, image, title string) (*Result, error) {
	if title == "" {
		title = DefaultTitle
	}
	return c.analyze(ctx, PathAnalyzeImage, map[string]string{"image": image, "title": title})
}

// AnalyzeURL extracts an event from a social post URL.
func (c *Client) AnalyzeURL(ctx context.Context, url string) (*Result, error) {
	return c.analyze(ctx, PathAnalyzeURL, map[string]string{"url": url})
}

func (c *Client) analyze(ctx context.Context, path string, payload map[string]string) (res *Result, err error) {
	start := time.Now()
	defer func() {
		if err != nil {
			c.logger.Error("analysis failed", "endpoint", path, "err", err)
		}
		if c.hooks.OnAnalysis != nil {
			c.hooks.OnAnalysis(ctx, &domain.AnalysisEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventAnalysis},
				Endpoint:  path,
				Duration:  time.Since(start),
				Err:       err,
			})
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.analyzeTimeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Message: msgAnalyzeImage, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Message: msgAnalyzeImage, Err: err}
	}
	req.Header.Set("Content-Type", contentTypeJSON)

	if c.contract != nil {
		if err := c.contract.ValidateRequest(ctx, req, body); err != nil {
			return nil, &Error{Message: msgAnalyzeImage, Err: err}
		}
	}

	c.logger.Debug("analyzing", "endpoint", path)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Message: msgAnalyzeImage, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Status: resp.StatusCode, Message: msgAnalyzeImage, Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &Error{Status: resp.StatusCode, Message: msgAnalyzeImage, Err: fmt.Errorf("decode response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := firstNonEmpty(env.Message, env.Error, msgAnalyzeImage)
		return nil, &Error{Status: resp.StatusCode, Message: msg, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	if c.contract != nil {
		if err := c.contract.ValidateResponse(ctx, req, resp.StatusCode, resp.Header, raw); err != nil {
			return nil, &Error{Status: resp.StatusCode, Message: msgContract, Err: err}
		}
	}

	if !env.Success {
		msg := firstNonEmpty(env.Message, msgAnalysisFailed)
		return nil, &Error{Status: resp.StatusCode, Message: msg, Err: errors.New("service reported failure")}
	}

	result := env.Result
	return &result, nil
}

// Health fetches the service status report.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+PathHealth, nil)
	if err != nil {
		return nil, &Error{Message: "Health check failed", Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Message: "Health check failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Status: resp.StatusCode, Message: "Health check failed", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	var h Health
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&h); err != nil {
		return nil, &Error{Status: resp.StatusCode, Message: "Health check failed", Err: err}
	}
	return &h, nil
}

// Healthy reports whether the service and its dependencies are ready.
// Failures are logged and reported as unhealthy.
func (c *Client) Healthy(ctx context.Context) bool {
	h, err := c.Health(ctx)
	if err != nil {
		c.logger.Error("health check failed", "err", err)
		return false
	}
	return h.Ready()
}

// EncodeImageFile reads an image and returns it as a base64 data URI.
func EncodeImageFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	return EncodeImage(data, mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))), nil
}

// EncodeImage returns data as a base64 data URI. An empty or non-image
// contentType is sniffed from the data.
func EncodeImage(data []byte, contentType string) string {
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil {
			contentType = mt
		}
	}
	if !strings.HasPrefix(contentType, "image/") {
		contentType = http.DetectContentType(data)
		if !strings.HasPrefix(contentType, "image/") {
			contentType = defaultImageFormat
		}
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
