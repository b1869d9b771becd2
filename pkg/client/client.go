// Package client is the Go consumer of the TaskOrg API. It plays the
// part the browser session manager plays in the web client: it holds
// the access token and current user, persists them across restarts,
// attaches the token to outgoing requests, and on a 401 performs
// exactly one silent refresh-and-retry before forcing a logout.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// APIError is the decoded error envelope of a failed call.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	store      SessionStore
	logger     zerolog.Logger

	mu      sync.RWMutex
	session Session

	// Concurrent 401s coalesce into a single refresh round-trip.
	refreshGroup singleflight.Group
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New builds a client rooted at baseURL (e.g. "http://localhost:8000")
// and loads any previously persisted session from the store.
func New(baseURL string, store SessionStore, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: baseURL + "/api/v1",
		store:   store,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		c.httpClient = &http.Client{Jar: jar}
	}

	session, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session != nil {
		c.session = *session
	}

	return c, nil
}

// Session returns a copy of the current session state.
func (c *Client) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// LoggedIn reports whether an access token is currently held.
func (c *Client) LoggedIn() bool {
	return c.Session().AccessToken != ""
}

func (c *Client) setSession(session Session) {
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	err := c.store.Save(&session)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Msg("failed to persist session")
	}
}

func (c *Client) setAccessToken(token string) {
	c.mu.Lock()
	c.session.AccessToken = token
	session := c.session
	c.mu.Unlock()

	err := c.store.Save(&session)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Msg("failed to persist session")
	}
}

func (c *Client) clearSession() {
	c.mu.Lock()
	c.session = Session{}
	c.mu.Unlock()

	err := c.store.Clear()
	if err != nil {
		c.logger.Warn().
			Err(err).
			Msg("failed to clear session store")
	}
}

type envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
}

// do sends one API call. Authenticated calls carry the bearer token and
// get at most one refresh-and-retry on 401; repeated failure clears the
// session and surfaces the error.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	env, err := c.send(ctx, method, path, payload, authed)
	if err != nil {
		return err
	}

	if env.StatusCode == http.StatusUnauthorized && authed {
		token, refreshErr := c.refreshAccessToken(ctx)
		if refreshErr != nil {
			c.logger.Debug().
				Err(refreshErr).
				Msg("refresh failed, forcing logout")
			c.clearSession()
			return refreshErr
		}
		c.setAccessToken(token)

		env, err = c.send(ctx, method, path, payload, authed)
		if err != nil {
			return err
		}
		if env.StatusCode == http.StatusUnauthorized {
			c.clearSession()
		}
	}

	if !env.Success {
		return &APIError{StatusCode: env.StatusCode, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		err = json.Unmarshal(env.Data, out)
		if err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, authed bool) (*envelope, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authed && req.Header.Get("Authorization") == "" {
		if token := c.Session().AccessToken; token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	env := new(envelope)
	err = json.NewDecoder(resp.Body).Decode(env)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if env.StatusCode == 0 {
		env.StatusCode = resp.StatusCode
	}
	return env, nil
}

// refreshAccessToken calls the refresh endpoint once per burst: every
// goroutine that hits a 401 while a refresh is already in flight waits
// for that same round-trip instead of issuing its own.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	token, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		env, err := c.send(ctx, http.MethodPost, "/users/refresh-token", nil, false)
		if err != nil {
			return "", err
		}
		if !env.Success {
			return "", &APIError{StatusCode: env.StatusCode, Message: env.Message}
		}

		var data struct {
			AccessToken string `json:"accessToken"`
		}
		err = json.Unmarshal(env.Data, &data)
		if err != nil {
			return "", fmt.Errorf("failed to decode refresh response: %w", err)
		}
		return data.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}
