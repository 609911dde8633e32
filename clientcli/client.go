package clientcli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sagarc03/stratum"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 30 * time.Second

// Client talks to a stratum inspection server.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	cfg = cfg.WithDefaults()

	c := &Client{
		config: &Config{
			Endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
			Token:    cfg.Token,
		},
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Health returns nil when the server has a resolved configuration.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/healthz")
	if err != nil {
		return fmt.Errorf("health: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health: %w", readServerError(resp))
	}
	return nil
}

// Show returns every value of the current configuration.
func (c *Client) Show(ctx context.Context) (*Snapshot, error) {
	resp, err := c.do(ctx, http.MethodGet, "/config")
	if err != nil {
		return nil, fmt.Errorf("show: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("show: %w", readServerError(resp))
	}

	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("show: decode response: %w", err)
	}
	return &snap, nil
}

// Get returns a single value. Unknown keys return an error matching ErrNotFound.
func (c *Client) Get(ctx context.Context, key string) (*stratum.Value, error) {
	if key == "" {
		return nil, fmt.Errorf("get: %w", ErrEmptyKey)
	}

	resp, err := c.do(ctx, http.MethodGet, "/config/"+url.PathEscape(key))
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: %w", key, readServerError(resp))
	}

	var v stratum.Value
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, fmt.Errorf("get: decode response: %w", err)
	}
	return &v, nil
}

// Reload asks the server to resolve again. A rejected configuration returns a
// *ReportError listing every problem.
func (c *Client) Reload(ctx context.Context) (*Snapshot, error) {
	resp, err := c.do(ctx, http.MethodPost, "/reload")
	if err != nil {
		return nil, fmt.Errorf("reload: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		var snap Snapshot
		if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
			return nil, fmt.Errorf("reload: decode response: %w", err)
		}
		return &snap, nil
	case http.StatusUnprocessableEntity:
		var report struct {
			Problems []Problem `json:"problems"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
			return nil, fmt.Errorf("reload: decode report: %w", err)
		}
		return nil, &ReportError{Problems: report.Problems}
	default:
		return nil, fmt.Errorf("reload: %w", readServerError(resp))
	}
}

func (c *Client) do(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.config.Endpoint+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}

// readServerError extracts the error message from a non-2xx response.
func readServerError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	apiErr := &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	var decoded struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &decoded) == nil && decoded.Error != "" {
		apiErr.Code = decoded.Error
		apiErr.Message = decoded.Message
	}
	return apiErr
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	// Code and Message are set when the body is a JSON error response.
	Code    string
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return "server error: " + strconv.Itoa(e.StatusCode) + " " + e.Code + " - " + e.Message
	}
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Body
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// IsNotFound returns true if the error is a 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrNotFound is returned for unknown keys (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrUnauthorized is returned when the bearer token is missing or wrong (401).
	ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized}

	// ErrNotReady is returned when the server holds no configuration or a source is unavailable (503).
	ErrNotReady = &APIError{StatusCode: http.StatusServiceUnavailable}
)
