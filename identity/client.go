// Package identity is the HTTP client for the backend identity service that
// authenticates credentials and owns user accounts.
package identity

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
	"time"

	apperrors "github.com/Sajjadhussain197/umsfront/internal/errors"
	"github.com/Sajjadhussain197/umsfront/users"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const maxResponseSize = 1 << 20

// Client implements Service over HTTP
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client

	// in-flight user listings, keyed by access token
	listings singleflight.Group
}

var _ Service = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient creates a client for the identity service at baseURL. Every call is
// bounded by timeout.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("[identity NewClient] invalid base URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("[identity NewClient] base URL must be absolute http(s): %q", baseURL)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Login exchanges credentials for tokens. Every failure is reported as ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("[identity Login] email and password are required: %w", apperrors.ErrInvalidCredentials)
	}

	var data LoginData
	if err := c.do(ctx, "", http.MethodPost, PathLogin, LoginRequest{Email: email, Password: password}, &data); err != nil {
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			log.Warn().Err(err).Msg("identity: credential exchange failed")
		}
		return nil, fmt.Errorf("[identity Login] %w: %v", apperrors.ErrInvalidCredentials, err)
	}
	if data.AccessToken == "" || data.User.ID == "" {
		return nil, fmt.Errorf("[identity Login] incomplete login response: %w", apperrors.ErrInvalidCredentials)
	}

	return &LoginResult{
		AccessToken:  data.AccessToken,
		RefreshToken: data.RefreshToken,
		User:         data.User,
	}, nil
}

func (c *Client) Register(ctx context.Context, accessToken string, req users.CreateRequest) (*users.User, error) {
	var user users.User
	if err := c.do(ctx, accessToken, http.MethodPost, PathRegister, req, &user); err != nil {
		return nil, fmt.Errorf("[identity Register] %w", err)
	}
	return &user, nil
}

// ListUsers returns every account. Concurrent calls with the same token share one request,
// which outlives any single caller; each caller still stops waiting when its ctx is done.
func (c *Client) ListUsers(ctx context.Context, accessToken string) ([]users.User, error) {
	shared := context.WithoutCancel(ctx)
	results := c.listings.DoChan(accessToken, func() (any, error) {
		list := make([]users.User, 0)
		if err := c.do(shared, accessToken, http.MethodGet, PathListUsers, nil, &list); err != nil {
			return nil, err
		}
		return list, nil
	})

	var result singleflight.Result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("[identity ListUsers] %w", ctx.Err())
	case result = <-results:
	}
	if result.Err != nil {
		return nil, fmt.Errorf("[identity ListUsers] %w", result.Err)
	}
	list := result.Val.([]users.User)
	owned := make([]users.User, len(list))
	copy(owned, list)
	return owned, nil
}

func (c *Client) GetUser(ctx context.Context, accessToken, id string) (*users.User, error) {
	if id == "" {
		return nil, fmt.Errorf("[identity GetUser] id is required: %w", apperrors.ErrNotFound)
	}
	var user users.User
	if err := c.do(ctx, accessToken, http.MethodGet, PathGetUser+url.PathEscape(id), nil, &user); err != nil {
		return nil, fmt.Errorf("[identity GetUser] %w", err)
	}
	return &user, nil
}

// UpdateAccount edits the account that owns accessToken
func (c *Client) UpdateAccount(ctx context.Context, accessToken string, req users.UpdateRequest) (*users.User, error) {
	req.Role = ""
	var user users.User
	if err := c.do(ctx, accessToken, http.MethodPatch, PathUpdateAccount, req, &user); err != nil {
		return nil, fmt.Errorf("[identity UpdateAccount] %w", err)
	}
	return &user, nil
}

// UpdateUser edits any account; the identity service requires an admin token
func (c *Client) UpdateUser(ctx context.Context, accessToken, id string, req users.UpdateRequest) (*users.User, error) {
	if id == "" {
		return nil, fmt.Errorf("[identity UpdateUser] id is required: %w", apperrors.ErrNotFound)
	}
	var user users.User
	if err := c.do(ctx, accessToken, http.MethodPatch, PathUpdateUser+url.PathEscape(id), req, &user); err != nil {
		return nil, fmt.Errorf("[identity UpdateUser] %w", err)
	}
	return &user, nil
}

func (c *Client) ChangePassword(ctx context.Context, accessToken string, req users.ChangePasswordRequest) error {
	if err := c.do(ctx, accessToken, http.MethodPost, PathChangePassword, req, nil); err != nil {
		return fmt.Errorf("[identity ChangePassword] %w", err)
	}
	return nil
}

func (c *Client) DeleteUser(ctx context.Context, accessToken, id string) error {
	if id == "" {
		return fmt.Errorf("[identity DeleteUser] id is required: %w", apperrors.ErrNotFound)
	}
	if err := c.do(ctx, accessToken, http.MethodDelete, PathDeleteUser+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("[identity DeleteUser] %w", err)
	}
	return nil
}

// do sends one JSON request and decodes the envelope's data into out
func (c *Client) do(ctx context.Context, accessToken, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.clientFor(ctx, accessToken).Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var envelope Response
	decodeErr := json.Unmarshal(raw, &envelope)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: envelope.Message}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if decodeErr != nil {
		return fmt.Errorf("%w: undecodable response: %v", apperrors.ErrBackend, decodeErr)
	}
	if !envelope.Success {
		return &APIError{Status: resp.StatusCode, Message: envelope.Message}
	}
	if out != nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("%w: unexpected data: %v", apperrors.ErrBackend, err)
		}
	}
	return nil
}

// clientFor returns an HTTP client that attaches accessToken as a bearer token
func (c *Client) clientFor(ctx context.Context, accessToken string) *http.Client {
	if accessToken == "" {
		return c.httpClient
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
}
