package erpsdk

import (
	"net/http"
	"strings"
	"time"
)

// Client calls the public endpoints and opens Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewSessionFromTokens resumes a session from stored tokens. The access
// token is refreshed on first use when expiresIn has elapsed.
func (c *Client) NewSessionFromTokens(accessToken, refreshToken, scope string, expiresIn int64) *Session {
	return newSession(c, &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		Scope:        scope,
	})
}
