// Package api is the HTTP client for the Mission Control backend.
//
// Each operation performs exactly one round trip and blocks until the
// response arrives or the request fails. Nothing is retried: writes are not
// idempotent on the backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nibzard/missionctl/internal/config"
	"github.com/nibzard/missionctl/internal/logging"
	"github.com/nibzard/missionctl/internal/model"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 16 << 20

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-Id"

// Options configures a Client.
type Options struct {
	BaseURL    string
	APIKey     string
	UserID     string
	UserAgent  string
	HTTPClient *http.Client
	Logger     *log.Logger
}

// OptionsFromConfig copies the backend settings out of cfg.
func OptionsFromConfig(cfg *config.Config, logger *log.Logger) Options {
	return Options{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		UserID:  cfg.UserID,
		Logger:  logger,
	}
}

// Client talks to the Mission Control HTTP API.
type Client struct {
	baseURL   *url.URL
	apiKey    string
	userID    string
	userAgent string
	http      *http.Client
	logger    *log.Logger
}

// New validates opts and returns a client. A missing base URL is a
// ConfigurationError so no request is ever attempted without one.
func New(opts Options) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if raw == "" {
		return nil, &config.ConfigurationError{Field: config.FieldBaseURL}
	}
	base, err := url.Parse(raw)
	if err != nil || base.Scheme == "" || base.Host == "" {
		if err == nil {
			err = fmt.Errorf("expected an absolute URL like https://name.convex.site, got %q", raw)
		}
		return nil, &config.ConfigurationError{Field: config.FieldBaseURL, Err: err}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		// No client timeout: a round trip lasts until the response arrives or
		// ctx is cancelled, so a slow write is never reported as failed.
		httpClient = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "missionctl"
	}

	return &Client{
		baseURL:   base,
		apiKey:    opts.APIKey,
		userID:    opts.UserID,
		userAgent: userAgent,
		http:      httpClient,
		logger:    logger.With("component", "api"),
	}, nil
}

// UserID returns the identity recorded on writes.
func (c *Client) UserID() string {
	return c.userID
}

// BaseURL returns the deployment URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// requireUser fails before any network call when no identity is configured.
func (c *Client) requireUser() error {
	if strings.TrimSpace(c.userID) == "" {
		return &config.ConfigurationError{Field: config.FieldUserID}
	}
	return nil
}

// request describes one round trip.
type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	// kind selects the schema the response body is checked against before
	// decoding. Empty skips schema validation.
	kind model.PayloadKind
	// noAuth omits the Authorization header.
	noAuth bool
}

// do performs req and decodes a 2xx body into out when out is non-nil.
func (c *Client) do(ctx context.Context, req request, out any) error {
	endpoint := c.baseURL.JoinPath(req.path)
	if len(req.query) > 0 {
		endpoint.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", req.op, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint.String(), body)
	if err != nil {
		return fmt.Errorf("%s: building request: %w", req.op, err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" && !req.noAuth {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Debug("request failed", "op", req.op, "method", req.method, "path", endpoint.Path, "request_id", requestID, "err", err)
		return &TransportError{Op: req.op, URL: endpoint.String(), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &TransportError{Op: req.op, URL: endpoint.String(), Err: fmt.Errorf("reading response: %w", err)}
	}
	c.logger.Debug("request",
		"op", req.op,
		"method", req.method,
		"path", endpoint.Path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(req.op, resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}

	if req.kind != "" {
		if err := model.ValidatePayload(req.kind, data); err != nil {
			return &DecodeError{Op: req.op, Err: err}
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Op: req.op, Err: err}
	}
	return nil
}

func newAPIError(op string, status int, body []byte) *APIError {
	apiErr := &APIError{Op: op, StatusCode: status, Body: strings.TrimSpace(string(body))}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		apiErr.Message = payload.Error
	}
	return apiErr
}

// decodeID extracts the identifier from a creation response such as
// {"taskId": "..."}.
func decodeID(op string, raw map[string]any, key string) (string, error) {
	id, ok := raw[key].(string)
	if !ok || id == "" {
		return "", &DecodeError{Op: op, Err: fmt.Errorf("response has no %q", key)}
	}
	return id, nil
}
