// Package remote implements the Gateway against the hosted database API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/artpar/notionorm/domain/notion"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// DefaultBaseURL is the public API endpoint.
const DefaultBaseURL = "https://api.notion.com"

// Client provides authenticated JSON over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	version    string
	headers    map[string]string

	mu    sync.RWMutex
	token string
}

// ClientConfig configures the remote client.
type ClientConfig struct {
	BaseURL string
	Token   string
	Version string // Notion-Version header, defaults to notion.DefaultVersion
	Timeout time.Duration
	Headers map[string]string
}

// NewClient creates a new remote HTTP client.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	version := cfg.Version
	if version == "" {
		version = notion.DefaultVersion
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		version:    version,
		headers:    cfg.Headers,
		token:      cfg.Token,
	}
}

// SetToken replaces the bearer token used by subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Request sends an HTTP request and decodes the JSON response into result.
// Numbers in the response decode as json.Number.
func (c *Client) Request(ctx context.Context, method, path string, body, result any) error {
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	resp, err := c.do(ctx, method, path, data)
	if err != nil {
		return err
	}
	return decodeResponse(resp, result)
}

func (c *Client) do(ctx context.Context, method, path string, data []byte) (*http.Response, error) {
	var bodyReader io.Reader
	if data != nil {
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Notion-Version", c.version)

	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	return resp, nil
}

func decodeResponse(resp *http.Response, result any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		return newRemoteError(resp.StatusCode, data)
	}

	if result != nil {
		dec := json.NewDecoder(resp.Body)
		dec.UseNumber()
		if err := dec.Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

var (
	errorCode    = jp.MustParseString("$.code")
	errorMessage = jp.MustParseString("$.message")
)

// RemoteError represents an error response from the remote service.
type RemoteError struct {
	StatusCode int
	Code       string // e.g. "validation_error", "object_not_found"
	Message    string
}

func newRemoteError(status int, body []byte) *RemoteError {
	e := &RemoteError{StatusCode: status, Message: strings.TrimSpace(string(body))}
	if len(body) == 0 {
		return e
	}
	parsed, err := oj.Parse(body)
	if err != nil {
		return e
	}
	if code, ok := errorCode.First(parsed).(string); ok {
		e.Code = code
	}
	if msg, ok := errorMessage.First(parsed).(string); ok {
		e.Message = msg
	}
	return e
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("remote error %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("remote error %d: %s", e.StatusCode, e.Message)
}

// Status returns the HTTP status code.
func (e *RemoteError) Status() int { return e.StatusCode }

// IsNotFound returns true if the error is a 404.
func IsNotFound(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.StatusCode == http.StatusNotFound
}

// IsUnauthorized returns true if the token was rejected.
func IsUnauthorized(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.StatusCode == http.StatusUnauthorized
}
