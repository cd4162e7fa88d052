// Package ecos is a client for the ECOS cloud API used by eCactus
// residential solar/battery systems. It authenticates a user, fetches
// account, home and device metadata, and retrieves realtime and historical
// power/energy metrics.
//
// Every operation exists twice: on *Client with a context.Context (the
// round-trip is the suspension point and honors cancellation) and on
// *BlockingClient without one. Both surfaces share a single implementation.
package ecos

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
	"sync"
	"time"

	"github.com/gmasse/ecos-go/pkg/common"
	"github.com/gmasse/ecos-go/pkg/log"
)

const loginPath = "/api/client/guide/login"

// Client is a session with the ECOS API. All methods are safe for concurrent
// use; the token pair is the only shared mutable state and is guarded by a
// mutex that is never held across a network call.
type Client struct {
	httpClient *http.Client
	baseURL    string

	mu           sync.Mutex
	email        string
	password     string
	accessToken  string
	refreshToken string
}

type clientConfig struct {
	datacenter   Datacenter
	url          string
	email        string
	password     string
	accessToken  string
	refreshToken string
	httpClient   *http.Client
}

// Option configures a Client at construction time.
type Option func(*clientConfig)

// WithDatacenter selects the regional deployment to talk to. Ignored when
// WithURL is also given.
func WithDatacenter(d Datacenter) Option {
	return func(c *clientConfig) {
		c.datacenter = d
	}
}

// WithURL sets an explicit API base URL, taking precedence over any
// datacenter. A trailing slash is stripped.
func WithURL(u string) Option {
	return func(c *clientConfig) {
		c.url = u
	}
}

// WithCredentials pre-seeds the login credentials so operations can log in
// on demand when no access token is held.
func WithCredentials(email, password string) Option {
	return func(c *clientConfig) {
		c.email = email
		c.password = password
	}
}

// WithTokens pre-seeds the token pair, e.g. restored from an earlier session.
func WithTokens(accessToken, refreshToken string) Option {
	return func(c *clientConfig) {
		c.accessToken = accessToken
		c.refreshToken = refreshToken
	}
}

// WithHTTPClient replaces the underlying HTTP client. Timeout policy lives
// there, not in the Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}

// New creates a session with the ECOS API. Exactly one of WithDatacenter or
// WithURL must resolve the base URL, otherwise an *InitializationError is
// returned.
func New(opts ...Option) (*Client, error) {
	var cfg clientConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	baseURL := cfg.url
	if baseURL == "" {
		if cfg.datacenter == "" {
			return nil, &InitializationError{Reason: "url or datacenter not specified"}
		}
		baseURL = cfg.datacenter.BaseURL()
		if baseURL == "" {
			return nil, &InitializationError{
				Reason: fmt.Sprintf("datacenter must be one of %s, %s, %s",
					DatacenterCN, DatacenterEU, DatacenterAU),
			}
		}
	} else {
		baseURL = strings.TrimRight(baseURL, "/")
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = common.HTTPClient(time.Minute)
	}

	return &Client{
		httpClient:   hc,
		baseURL:      baseURL,
		email:        cfg.email,
		password:     cfg.password,
		accessToken:  cfg.accessToken,
		refreshToken: cfg.refreshToken,
	}, nil
}

// BaseURL returns the resolved API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Tokens returns the current token pair. Both are empty before a login.
func (c *Client) Tokens() Tokens {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Tokens{AccessToken: c.accessToken, RefreshToken: c.refreshToken}
}

// SetTokens replaces the token pair, e.g. to drop an expired token so the
// next operation logs in again. Tokens are never cleared automatically.
func (c *Client) SetTokens(t Tokens) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = t.AccessToken
	c.refreshToken = t.RefreshToken
}

// Login authenticates with the given email and password and stores the
// issued token pair on the session. Rejected credentials surface as an
// *AuthenticationError.
func (c *Client) Login(ctx context.Context, email, password string) error {
	log.Ctx(ctx).InfoContext(ctx, "logging in to ecos", slog.String("email", email))

	c.mu.Lock()
	if email != "" {
		c.email = email
	}
	if password != "" {
		c.password = password
	}
	email = c.email
	password = c.password
	c.mu.Unlock()

	payload := map[string]any{
		"_t":            time.Now().Unix(),
		"clientType":    "BROWSER",
		"clientVersion": "1.0",
		"email":         email,
		"password":      password,
	}
	var tokens Tokens
	if err := c.invoke(ctx, http.MethodPost, loginPath, payload, &tokens); err != nil {
		var apiErr *ApiResponseError
		if errors.As(err, &apiErr) && apiErr.Code == codeAuthenticationFailed {
			return &AuthenticationError{Err: apiErr}
		}
		return err
	}

	c.mu.Lock()
	c.accessToken = tokens.AccessToken
	c.refreshToken = tokens.RefreshToken
	c.mu.Unlock()
	return nil
}

// ensureLogin logs in on demand when no access token is held and credentials
// were supplied. Without credentials the call proceeds tokenless and the
// vendor's 401 surfaces as *UnauthorizedError.
func (c *Client) ensureLogin(ctx context.Context) error {
	c.mu.Lock()
	token := c.accessToken
	email := c.email
	c.mu.Unlock()

	if token != "" || email == "" {
		return nil
	}
	return c.Login(ctx, "", "")
}

// invoke performs exactly one round-trip: it builds the authenticated
// request, dispatches it, runs the response through the envelope codec and
// decodes the payload into dest. HTTP 401 is promoted to *UnauthorizedError
// here since every operation treats it the same way.
func (c *Client) invoke(ctx context.Context, method, apiPath string, payload map[string]any, dest any) error {
	fullURL := c.baseURL + "/" + strings.TrimLeft(apiPath, "/")
	log.Ctx(ctx).DebugContext(ctx, "ecos api call", slog.String("method", method), slog.String("url", fullURL))

	var req *http.Request
	var err error
	switch method {
	case http.MethodGet:
		if len(payload) > 0 {
			params := url.Values{}
			for k, v := range payload {
				params.Set(k, fmt.Sprint(v))
			}
			fullURL += "?" + params.Encode()
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return &TransportError{Err: err}
		}
	case http.MethodPost:
		if payload == nil {
			payload = map[string]any{}
		}
		body, merr := json.Marshal(payload)
		if merr != nil {
			return &TransportError{Err: merr}
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(body))
		if err != nil {
			return &TransportError{Err: err}
		}
		req.Header.Set("Content-Type", "application/json")
	default:
		return &TransportError{Err: fmt.Errorf("unsupported method %s", method)}
	}

	c.mu.Lock()
	token := c.accessToken
	c.mu.Unlock()
	// The token is attached verbatim even when empty. The vendor answers
	// unauthorized in that case; the client does not special-case it locally.
	req.Header.Set("Authorization", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{StatusCode: resp.StatusCode, Err: err}
	}

	data, err := decodeEnvelope(resp.StatusCode, body)
	if err != nil {
		var transportErr *TransportError
		if errors.As(err, &transportErr) && transportErr.StatusCode == http.StatusUnauthorized {
			return &UnauthorizedError{Err: err}
		}
		log.Ctx(ctx).DebugContext(ctx, "ecos api call failed",
			slog.String("url", fullURL), slog.Any("error", err))
		return err
	}

	if dest != nil && len(data) > 0 && !bytes.Equal(data, []byte("null")) {
		if err := json.Unmarshal(data, dest); err != nil {
			return &InvalidEnvelopeError{Err: err}
		}
	}
	return nil
}
