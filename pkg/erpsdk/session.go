package erpsdk

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// refreshSkew renews the access token shortly before it expires.
const refreshSkew = 30 * time.Second

// Session is an authenticated connection to one tenant.
type Session struct {
	client *Client

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
	scopes       map[string]bool
}

func newSession(c *Client, tok *TokenResponse) *Session {
	s := &Session{client: c}
	s.apply(tok)
	return s
}

// apply must be called with mu held or before the session is shared.
func (s *Session) apply(tok *TokenResponse) {
	s.accessToken = tok.AccessToken
	s.refreshToken = tok.RefreshToken
	s.expiresAt = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - refreshSkew)
	s.scopes = make(map[string]bool)
	for _, sc := range strings.Fields(tok.Scope) {
		s.scopes[sc] = true
	}
}

func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if time.Now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have refreshed while we waited.
	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}
	if s.refreshToken == "" {
		return "", errors.New("access token expired and no refresh token available")
	}

	tok, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}
	s.apply(tok)
	return s.accessToken, nil
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// ExpiresAt is when the current access token stops being accepted.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt.Add(refreshSkew)
}

// Scope returns the granted scopes, space separated and sorted.
func (s *Session) Scope() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.scopes))
	for sc := range s.scopes {
		out = append(out, sc)
	}
	slices.Sort(out)
	return strings.Join(out, " ")
}

// HasScope reports whether the last issued access token carries scope.
func (s *Session) HasScope(scope string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scopes[scope]
}

// Revoke ends the session server side.
func (s *Session) Revoke(ctx context.Context) error {
	s.mu.RLock()
	rt := s.refreshToken
	s.mu.RUnlock()

	if rt == "" {
		return errors.New("no refresh token to revoke")
	}
	return s.client.RevokeToken(ctx, rt)
}
