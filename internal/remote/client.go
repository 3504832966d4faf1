// Package remote is the HTTP/JSON client of the external auth/admin API
// (base path /api/auth). The backend owns authentication, persistence,
// change detection and the audit trail; this package only moves JSON.
package remote

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

	"github.com/baharkarakas/authmonitor/internal/metrics"
	"github.com/baharkarakas/authmonitor/internal/models"
)

const DefaultBaseURL = "https://apimongo-3.onrender.com/api/auth"

// maxErrorBody caps how much of a failed response is read looking for {error}.
const maxErrorBody = 64 << 10

type Client struct {
	baseURL string
	hc      *http.Client
	log     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithTimeout bounds every call. Zero keeps the transport default (none).
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.hc.Timeout = d
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Register(ctx context.Context, creds models.Credentials) (models.MessageResponse, error) {
	var out models.MessageResponse
	err := c.do(ctx, "register", http.MethodPost, "/register", creds, &out)
	return out, err
}

// Login returns the backend's success payload untouched; its shape is not
// part of the contract, only the 2xx status is.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, "login", http.MethodPost, "/login", creds, &out)
	return out, err
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := c.do(ctx, "list_users", http.MethodGet, "/users", nil, &out)
	return out, err
}

func (c *Client) UpdateUser(ctx context.Context, id string, creds models.Credentials) (models.MessageResponse, error) {
	var out models.MessageResponse
	err := c.do(ctx, "update_user", http.MethodPut, "/users/"+url.PathEscape(id), creds, &out)
	return out, err
}

func (c *Client) DeleteUser(ctx context.Context, id string) (models.MessageResponse, error) {
	var out models.MessageResponse
	err := c.do(ctx, "delete_user", http.MethodDelete, "/users/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) ListLogs(ctx context.Context) ([]models.AuditLog, error) {
	var out []models.AuditLog
	err := c.do(ctx, "list_logs", http.MethodGet, "/logs", nil, &out)
	return out, err
}

func (c *Client) DetectChanges(ctx context.Context) (models.ChangeReport, error) {
	var out models.ChangeReport
	err := c.do(ctx, "detect_changes", http.MethodGet, "/verificar-cambios", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) (err error) {
	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.UpstreamRequests.WithLabelValues(op, outcome).Inc()
		metrics.UpstreamLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
		if err != nil {
			c.log.Warn("remote call failed", "op", op, "err", err)
		} else {
			c.log.Debug("remote call", "op", op, "dur", time.Since(start))
		}
	}()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			outcome = "transport_error"
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		outcome = "transport_error"
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		outcome = "transport_error"
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = "api_error"
		return decodeAPIError(op, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		outcome = "transport_error"
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func decodeAPIError(op string, resp *http.Response) error {
	ae := &APIError{Op: op, Status: resp.StatusCode}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var er models.ErrorResponse
	if json.Unmarshal(b, &er) == nil {
		ae.Message = er.Error
	}
	return ae
}
