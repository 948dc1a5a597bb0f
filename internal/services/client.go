// Core HTTP client for the backend admin API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ferrovax/gamedesk/internal/models"
	"github.com/ferrovax/gamedesk/internal/shared"
)

// Resource paths on the backend admin surface.
const (
	gamesPath        = "/admin/games/game"
	tagsPath         = "/admin/games/additional_tags"
	usersPath        = "/admin/user"
	subscriptionPath = "/admin/user/set_subscription"
	uploadPath       = "/admin/games/upload/picture"
)

// TokenSource supplies the current bearer token. An empty string means no
// session; requests are then sent unauthenticated and the backend decides.
type TokenSource interface {
	Token() string
}

// Backend is the full set of admin operations the console performs against
// the file backend. *Client is the production implementation; tests use the
// mock in internal/testing.
type Backend interface {
	Login(ctx context.Context, username, password string) (string, error)

	ListGames(ctx context.Context) ([]models.Game, error)
	CreateGame(ctx context.Context, game models.Game) (*models.Game, error)
	UpdateGame(ctx context.Context, game models.Game) (*models.Game, error)
	DeleteGame(ctx context.Context, id string) error

	ListTags(ctx context.Context) ([]models.Tag, error)
	CreateTag(ctx context.Context, tag models.Tag) (*models.Tag, error)
	DeleteTag(ctx context.Context, id string) error

	ListUsers(ctx context.Context) ([]models.UserAccount, error)
	SetSubscription(ctx context.Context, id string, subscribed bool) error

	UploadPicture(ctx context.Context, filename string, content io.Reader) (string, error)
}

var _ Backend = (*Client)(nil)

// Client talks to the backend admin API.
type Client struct {
	baseURL    string
	loginPath  string
	httpClient *http.Client
	tokens     TokenSource

	// onUnauthorized fires once per 401 response, regardless of which
	// operation tripped it. Set by the session store.
	onUnauthorized func()
}

// NewClient creates a Client for the configured backend.
func NewClient(cfg shared.ServerConfig, httpClient *http.Client) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:9000"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout()}
	}

	return &Client{
		baseURL:    baseURL,
		loginPath:  cfg.Login(),
		httpClient: httpClient,
	}
}

// BaseURL returns the backend base URL, for asset reference resolution.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetTokenSource wires the token provider consulted on every request.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// SetUnauthorizedHook registers the callback fired whenever any call returns
// 401. Callers cannot opt out per request.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// envelope is the optional response wrapper the backend sometimes applies.
// Success is a pointer so a bare payload that happens to decode cleanly is
// not mistaken for a wrapped one.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// do issues an authenticated request and decodes the JSON response into
// result (when non-nil), unwrapping the {success, data} envelope if present.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	payload, err := c.request(ctx, method, path, body)
	if err != nil {
		return err
	}

	if result == nil || len(payload) == 0 {
		return nil
	}

	if err := json.Unmarshal(payload, result); err != nil {
		return fmt.Errorf("%w: malformed response: %v", shared.ErrAPIRequest, err)
	}

	return nil
}

// request performs the HTTP round trip and returns the normalized (bare)
// response payload.
func (c *Client) request(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, shared.ErrSessionExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return unwrap(data)
}

// authorize attaches the bearer header when a token is present.
func (c *Client) authorize(req *http.Request) {
	if c.tokens == nil {
		return
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// unwrap normalizes a response body: a {success, data} envelope yields its
// data, a bare payload passes through, and an explicit success=false becomes
// an error.
func unwrap(data []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil || env.Success == nil {
		return trimmed, nil
	}

	if !*env.Success {
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		if msg == "" {
			msg = "backend reported failure"
		}
		return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, msg)
	}

	return env.Data, nil
}

// Login exchanges admin credentials for a bearer token at the configured
// login endpoint. There is exactly one login path; it defaults to
// /admin/auth/login and is a configuration concern.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}

	var result struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, c.loginPath, body, &result); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if result.Token == "" {
		return "", fmt.Errorf("%w: no token in response", shared.ErrAuthFailed)
	}

	return result.Token, nil
}
