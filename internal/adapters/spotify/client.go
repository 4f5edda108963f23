// Package spotify resolves track metadata and audio analysis from the Spotify Web API.
package spotify

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/ewilliams-labs/remixense/internal/core/ports"
)

const (
	DefaultBaseURL  = "https://api.spotify.com/v1"
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
)

// Client is an HTTP client for the Spotify adapter.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	maxRetries  int
	baseBackoff time.Duration
}

// compile-time interface assertion
var _ ports.MetadataProvider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithRetry sets how many attempts a request gets and the first backoff delay.
func WithRetry(maxRetries int, baseBackoff time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.baseBackoff = baseBackoff
	}
}

// NewClient constructs a Spotify client around an already authenticated http.Client.
func NewClient(httpClient *http.Client, baseURL string, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxRetries:  defaultMaxRetries,
		baseBackoff: defaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientCredentials returns a client that fetches and refreshes app tokens
// with the OAuth2 client credentials flow.
func NewClientCredentials(ctx context.Context, clientID, clientSecret string, opts ...Option) *Client {
	cfg := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     DefaultTokenURL,
	}
	httpClient := cfg.Client(ctx)
	httpClient.Timeout = 15 * time.Second
	return NewClient(httpClient, DefaultBaseURL, opts...)
}
