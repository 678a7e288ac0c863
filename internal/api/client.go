package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/premiumbank/pbank/internal/models"
	"github.com/premiumbank/pbank/internal/utils"
)

// ErrUnexpectedResponse is returned when a success body does not match the expected shape
var ErrUnexpectedResponse = errors.New("unexpected response from server")

// authPathPrefix marks endpoints that must be called without a bearer token
const authPathPrefix = "/auth"

// DefaultTimeout bounds a single HTTP attempt. The backend can cold start, so it is generous.
const DefaultTimeout = 60 * time.Second

// TokenSource supplies the bearer token of the current session, or "" when logged out
type TokenSource interface {
	Token() string
}

// Doer executes HTTP requests; *http.Client and RetryDoer implement it
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options tunes the transport of a Client
type Options struct {
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	Transport     http.RoundTripper
	Logger        *slog.Logger
}

// Client represents the banking API client
type Client struct {
	BaseURL    string
	HTTPClient Doer
	tokens     TokenSource
	logger     *slog.Logger
}

// NewClient creates a new API client. baseURL is normalized so it ends in exactly one /api.
func NewClient(baseURL string, tokens TokenSource, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := &http.Client{
		Timeout:   opts.Timeout,
		Transport: opts.Transport,
	}

	return &Client{
		BaseURL:    NormalizeBaseURL(baseURL),
		HTTPClient: NewRetryDoer(httpClient, opts.RetryAttempts, opts.RetryDelay, logger),
		tokens:     tokens,
		logger:     logger,
	}
}

// NormalizeBaseURL strips trailing slashes and one trailing /api, then appends /api.
func NormalizeBaseURL(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	base = strings.TrimSuffix(base, "/api")
	return base + "/api"
}

// request describes one API call
type request struct {
	method string
	path   string
	query  url.Values
	body   interface{}
	// retry allows transient transport failures to be retried; GETs always allow it
	retry bool
}

// do executes a request and decodes a 2xx JSON body into out (when out is non-nil)
func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	var reader io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	target := c.BaseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	if r.retry || r.method == http.MethodGet {
		ctx = withRetry(ctx)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuthHeaders(req, r.path)

	started := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", "method", r.method, "path", r.path, "request_id", requestID, "error", err)
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request", "method", r.method, "path", r.path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(started))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr models.ErrorResponse
		_ = json.Unmarshal(body, &apiErr)
		return utils.NewAPIError(resp.StatusCode, strings.TrimSpace(apiErr.Message))
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnexpectedResponse, r.method, r.path, err)
	}
	return nil
}

// setAuthHeaders attaches the bearer token to every call except the /auth endpoints
func (c *Client) setAuthHeaders(req *http.Request, path string) {
	if strings.HasPrefix(path, authPathPrefix) || c.tokens == nil {
		return
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
