package auth

import (
	"context"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// TokenSource is an oauth2.TokenSource that persists refreshed tokens.
// Strava access tokens live six hours, so long sessions refresh several
// times; each new token goes through onRefresh before use.
type TokenSource struct {
	config    *oauth2.Config
	token     *oauth2.Token
	onRefresh func(*oauth2.Token) error
	mu        sync.Mutex
}

// NewTokenSource wraps a stored token. onRefresh may be nil.
func NewTokenSource(cfg *oauth2.Config, token *oauth2.Token, onRefresh func(*oauth2.Token) error) *TokenSource {
	return &TokenSource{
		config:    cfg,
		token:     token,
		onRefresh: onRefresh,
	}
}

// Token returns a valid token, refreshing and persisting when the current
// one is inside the expiry buffer.
func (ts *TokenSource) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if time.Until(ts.token.Expiry) > expiryBuffer {
		return ts.token, nil
	}

	fresh, err := ts.config.TokenSource(context.Background(), ts.token).Token()
	if err != nil {
		return nil, err
	}

	// Persist before handing the token out: a token the store never saw
	// would strand the next session on a dead refresh token.
	if ts.onRefresh != nil {
		if err := ts.onRefresh(fresh); err != nil {
			return nil, err
		}
	}

	ts.token = fresh
	return fresh, nil
}

// IsExpired reports whether the current token is inside the expiry buffer.
func (ts *TokenSource) IsExpired() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return time.Until(ts.token.Expiry) <= expiryBuffer
}
