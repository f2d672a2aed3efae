package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/collectadmin/internal/common"
	"github.com/sethvargo/go-retry"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// listBackoff governs retries of list requests, which are safe to repeat.
var listBackoff = func() retry.Backoff {
	return retry.WithMaxRetries(2, retry.NewExponential(200*time.Millisecond))
}

// User is the account projection returned by the server.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginResult is the body of a successful login.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

// ExportResult locates an uploaded snapshot.
type ExportResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type errorBody struct {
	Error string `json:"error"`
}

// APIClient is a thin JSON client for the admin HTTP API. It is safe for
// concurrent use.
type APIClient struct {
	baseURL *url.URL
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewAPIClient validates baseURL and returns a client whose requests are
// bounded by timeout.
func NewAPIClient(baseURL string, timeout time.Duration) (*APIClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}
	return &APIClient{baseURL: u, http: &http.Client{Timeout: timeout}}, nil
}

func (c *APIClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *APIClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *APIClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	req := map[string]string{"email": email, "password": password}
	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &res); err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return &res, nil
}

// Logout tells the server to drop the cookie and forgets the local token.
// The token is forgotten even when the call fails.
func (c *APIClient) Logout(ctx context.Context) error {
	defer c.SetToken("")
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// List fetches the raw JSON array for r, retrying while the server is
// unreachable.
func (c *APIClient) List(ctx context.Context, r Resource) (json.RawMessage, error) {
	return retry.DoValue(ctx, listBackoff(), func(ctx context.Context) (json.RawMessage, error) {
		var raw json.RawMessage
		err := c.do(ctx, http.MethodGet, r.path(), nil, &raw)
		if errors.Is(err, ErrUnavailable) {
			return nil, retry.RetryableError(err)
		}
		return raw, err
	})
}

// Create posts in and returns the created record as raw JSON.
func (c *APIClient) Create(ctx context.Context, r Resource, in any) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, r.path(), in, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *APIClient) Delete(ctx context.Context, r Resource, id string) error {
	return c.do(ctx, http.MethodDelete, r.path()+"/"+url.PathEscape(id), nil, nil)
}

func (c *APIClient) Export(ctx context.Context, r Resource) (*ExportResult, error) {
	var res ExportResult
	if err := c.do(ctx, http.MethodPost, "/api/export/"+string(r), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return mapError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// mapError turns an error response into a sentinel. The server answers 401
// both for auth failures and for a company still referenced by vehicles, so
// the message is what tells them apart.
func mapError(resp *http.Response) error {
	var eb errorBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&eb)
	msg := eb.Error

	switch resp.StatusCode {
	case http.StatusBadRequest:
		if msg == "" {
			msg = "bad request"
		}
		return common.NewValidationError(msg)
	case http.StatusUnauthorized:
		switch msg {
		case common.ErrorConflict.Error():
			return common.ErrorConflict
		case ErrInvalidCredentials.Error():
			return ErrInvalidCredentials
		}
		return ErrUnauthorized
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusServiceUnavailable:
		if msg == common.ErrorExportDisabled.Error() {
			return common.ErrorExportDisabled
		}
		return fmt.Errorf("%w: %s", ErrUnavailable, msg)
	}

	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return fmt.Errorf("server error %d: %s", resp.StatusCode, msg)
}
