package authtoken

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"resty.dev/v3"
)

var (
	ErrTokenRequestFailed = errors.New("authtoken: token request failed")
	ErrNoAccessToken      = errors.New("authtoken: no access token in response")
)

const (
	DefaultTimeout       = 10 * time.Second
	tokenExpiryBuffer    = 30 * time.Second
	grantTypeCredentials = "client_credentials"
)

//nolint:tagliatelle
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

//nolint:tagliatelle
type tokenError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// describe prefers the human-readable description over the OAuth error code.
func (e tokenError) describe() string {
	switch {
	case e.ErrorDescription != "" && e.Error != "":
		return e.Error + ": " + e.ErrorDescription
	case e.ErrorDescription != "":
		return e.ErrorDescription
	case e.Error != "":
		return e.Error
	default:
		return "no error details"
	}
}

// Client exchanges service-account credentials for an API token and caches it
// until shortly before it expires.
type Client struct {
	tokenURL     string
	clientID     string
	clientSecret string
	scope        string
	restyClient  *resty.Client

	mu          sync.RWMutex
	accessToken string
	expiresAt   time.Time
}

func New(tokenURL, clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		scope:        "",
		restyClient:  createDefaultRestyClient(),
		mu:           sync.RWMutex{},
		accessToken:  "",
		expiresAt:    time.Time{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func createDefaultRestyClient() *resty.Client {
	return resty.New().
		SetTimeout(DefaultTimeout).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetHeader("Accept", "application/json")
}

func (c *Client) GetToken(ctx context.Context) (string, error) {
	c.mu.RLock()
	if c.accessToken != "" && time.Now().Before(c.expiresAt) {
		token := c.accessToken
		c.mu.RUnlock()

		return token, nil
	}
	c.mu.RUnlock()

	return c.refreshToken(ctx)
}

func (c *Client) refreshToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have refreshed while we waited for the lock.
	if c.accessToken != "" && time.Now().Before(c.expiresAt) {
		return c.accessToken, nil
	}

	token, expiresIn, err := c.fetchToken(ctx)
	if err != nil {
		return "", err
	}

	c.accessToken = token
	c.expiresAt = time.Now().Add(time.Duration(expiresIn)*time.Second - tokenExpiryBuffer)

	return c.accessToken, nil
}

func (c *Client) fetchToken(ctx context.Context) (string, int, error) {
	formData := map[string]string{
		"grant_type":    grantTypeCredentials,
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
	}

	if c.scope != "" {
		formData["scope"] = c.scope
	}

	var tokenResp tokenResponse

	var tokenErr tokenError

	resp, err := c.restyClient.R().
		SetContext(ctx).
		SetFormData(formData).
		SetResult(&tokenResp).
		SetError(&tokenErr).
		Post(c.tokenURL)
	if err != nil {
		return "", 0, fmt.Errorf("failed to fetch token: %w", err)
	}

	if !resp.IsSuccess() {
		return "", 0, fmt.Errorf("%w: %s (status %d)", ErrTokenRequestFailed, tokenErr.describe(), resp.StatusCode())
	}

	if tokenResp.AccessToken == "" {
		return "", 0, ErrNoAccessToken
	}

	return tokenResp.AccessToken, tokenResp.ExpiresIn, nil
}

func (c *Client) InvalidateToken() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.accessToken = ""
	c.expiresAt = time.Time{}
}
