package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims are the access-token claims issued by the ERP. Every token is bound
// to exactly one tenant; handlers never trust a tenant id from the request.
type Claims struct {
	jwt.RegisteredClaims

	// TenantID is the distributor the user belongs to.
	TenantID string `json:"tid"`

	// Role is one of owner, staff or pro.
	Role string `json:"role,omitempty"`

	// CustomerID links a pro user to their B2B customer record.
	CustomerID string `json:"cid,omitempty"`

	Email string `json:"email,omitempty"`

	// Session ID, the refresh token family this access token came from.
	SID string `json:"sid,omitempty"`

	// Scopes such as "catalog:read" or "portal:order".
	Scopes []string `json:"scopes,omitempty"`

	// Authentication Methods Reference ["pwd","otp","mfa"].
	AMR []string `json:"amr,omitempty"`
}

// AccessParams are the inputs for NewAccessClaims.
type AccessParams struct {
	Subject    string
	TenantID   string
	Role       string
	CustomerID string
	Email      string
	SID        string
	Scopes     []string
	AMR        []string
	TTL        time.Duration
	Issuer     string
	Audience   []string
}

// NewAccessClaims builds minimally-correct claims.
func NewAccessClaims(p AccessParams, now time.Time) Claims {
	ttl := p.TTL
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}

	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.Issuer,
			Subject:   p.Subject,
			Audience:  jwt.ClaimStrings(p.Audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		TenantID:   p.TenantID,
		Role:       p.Role,
		CustomerID: p.CustomerID,
		Email:      p.Email,
		SID:        p.SID,
		Scopes:     p.Scopes,
		AMR:        p.AMR,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// HasScope reports whether the claims carry scope s.
func (c *Claims) HasScope(s string) bool {
	return slices.Contains(c.Scopes, s)
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateAudience checks if at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}

	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}

	return ErrAudience
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry() error {
	return c.ValidateExpiryWithLeeway(0)
}

// ValidateExpiryWithLeeway adds a small grace period for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(leeway time.Duration) error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}

// ValidateTenant rejects tokens that are not bound to a tenant.
func (c *Claims) ValidateTenant() error {
	if c.TenantID == "" {
		return ErrInvalidClaim
	}
	return nil
}
