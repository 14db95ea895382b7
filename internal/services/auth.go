package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/desertthunder/callouts/internal/shared"
)

// YouTubeReadonlyScope grants read access to the account's YouTube data.
const YouTubeReadonlyScope = "https://www.googleapis.com/auth/youtube.readonly"

// LoadOAuthConfig reads an installed-app client_secret.json and returns its OAuth2 config.
//
// redirectURL overrides the redirect URI listed in the file when set.
func LoadOAuthConfig(path, redirectURL string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", shared.ErrMissingCredentials, path)
		}
		return nil, fmt.Errorf("failed to read client secret: %w", err)
	}

	config, err := google.ConfigFromJSON(data, YouTubeReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrInvalidConfig, err)
	}

	if redirectURL != "" {
		config.RedirectURL = redirectURL
	}
	return config, nil
}

// AuthURL returns the consent URL that yields a refresh token.
func AuthURL(config *oauth2.Config, state string) string {
	return config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// TokenCache persists an OAuth2 token as JSON.
type TokenCache struct {
	path string
	mu   sync.Mutex
}

// NewTokenCache creates a cache backed by the file at path.
func NewTokenCache(path string) *TokenCache {
	return &TokenCache{path: path}
}

// Path returns the cache file location.
func (c *TokenCache) Path() string {
	return c.path
}

// Load reads the cached token. A missing file returns [shared.ErrNotAuthenticated].
func (c *TokenCache) Load() (*oauth2.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no token at %s", shared.ErrNotAuthenticated, c.path)
		}
		return nil, fmt.Errorf("failed to read token cache: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token cache: %w", err)
	}
	return &token, nil
}

// Save writes token to disk, readable only by the owner.
func (c *TokenCache) Save(token *oauth2.Token) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}
	return nil
}

// cachingTokenSource writes every newly issued token back to the cache.
type cachingTokenSource struct {
	base  oauth2.TokenSource
	cache *TokenCache

	mu   sync.Mutex
	last string
}

func (s *cachingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token.AccessToken != s.last {
		if err := s.cache.Save(token); err != nil {
			return nil, err
		}
		s.last = token.AccessToken
	}
	return token, nil
}

// NewAuthenticatedClient returns an HTTP client authorized with the cached token.
//
// Expired tokens are refreshed through config and the refreshed token replaces the cached one.
func NewAuthenticatedClient(ctx context.Context, config *oauth2.Config, cache *TokenCache) (*http.Client, error) {
	token, err := cache.Load()
	if err != nil {
		return nil, err
	}

	source := &cachingTokenSource{
		base:  config.TokenSource(ctx, token),
		cache: cache,
		last:  token.AccessToken,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(token, source)), nil
}
