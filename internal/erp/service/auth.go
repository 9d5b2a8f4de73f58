package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/store"
	"github.com/OolalaDXB/outrenational/pkg/cryptox"
	"github.com/OolalaDXB/outrenational/pkg/idx"
	"github.com/OolalaDXB/outrenational/pkg/jwtx"
	"github.com/OolalaDXB/outrenational/pkg/slogx"
)

// Authentication method references carried in the amr claim.
const (
	AMRPassword = "pwd"
	AMROTP      = "otp"
	AMRMFA      = "mfa"
	AMRRefresh  = "refresh"
)

type AuthService struct {
	KeyManager *jwtx.KeyManager
	Store      store.Store
	Issuer     string
	Audience   []string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (s *AuthService) accessTTL() time.Duration {
	if s.AccessTTL <= 0 {
		return jwtx.DefaultAccessTokenTTL
	}
	return s.AccessTTL
}

func (s *AuthService) refreshTTL() time.Duration {
	if s.RefreshTTL <= 0 {
		return jwtx.DefaultRefreshTokenTTL
	}
	return s.RefreshTTL
}

type LoginInput struct {
	Tenant   string `json:"tenant"`
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp,omitempty"`
}

// Login implements the password grant. Users with MFA enabled must also
// present a current TOTP code.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	tenant, err := s.Store.Tenants().GetTenantBySlug(ctx, strings.ToLower(strings.TrimSpace(in.Tenant)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	u, err := s.Store.Users().GetUserByEmail(ctx, tenant.ID, in.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := cryptox.VerifyPassword(in.Password, u.PasswordHash); err != nil {
		l.Info("password verification failed", slog.String("tenant_id", tenant.ID), slog.String("user_id", u.ID))
		return nil, ErrInvalidCredentials
	}

	amr := []string{AMRPassword}
	if u.MFAEnabled {
		if strings.TrimSpace(in.OTP) == "" {
			return nil, ErrMFARequired
		}
		if !totp.Validate(strings.TrimSpace(in.OTP), u.MFASecret) {
			l.Warn("totp verification failed", slog.String("tenant_id", tenant.ID), slog.String("user_id", u.ID))
			return nil, ErrInvalidOTP
		}
		amr = append(amr, AMROTP, AMRMFA)
	}

	var pair *domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		pair, err = s.issue(ctx, tx, u, idx.New().String(), amr)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.Info("user logged in", slog.String("tenant_id", tenant.ID), slog.String("user_id", u.ID))
	return pair, nil
}

// Refresh rotates a refresh token. Presenting a revoked token revokes every
// token of that user, since it means the token leaked.
func (s *AuthService) Refresh(ctx context.Context, refreshOpaque string) (*domain.TokenPair, error) {
	now := time.Now().UTC()
	fp := cryptox.FingerprintToken(strings.TrimSpace(refreshOpaque))

	rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	if rt.Revoked {
		slogx.FromContext(ctx).Warn("revoked refresh token reused",
			slog.String("tenant_id", rt.TenantID), slog.String("user_id", rt.UserID))
		if err := s.Store.RefreshTokens().RevokeUserRefreshTokens(ctx, rt.TenantID, rt.UserID); err != nil {
			return nil, err
		}
		return nil, ErrInvalidRefresh
	}
	if now.After(rt.ExpiresAt) {
		return nil, ErrInvalidRefresh
	}

	var pair *domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByID(ctx, rt.TenantID, rt.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}

		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, fp); err != nil {
			return err
		}

		amr := strings.Fields(rt.AMR)
		if !slices.Contains(amr, AMRRefresh) {
			amr = append(amr, AMRRefresh)
		}
		pair, err = s.issue(ctx, tx, u, rt.SessionID, amr)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Revoke invalidates a refresh token. Unknown tokens are not an error.
func (s *AuthService) Revoke(ctx context.Context, refreshOpaque string) error {
	fp := cryptox.FingerprintToken(strings.TrimSpace(refreshOpaque))
	err := s.Store.RefreshTokens().RevokeRefreshToken(ctx, fp)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// issue signs an access token and stores a fresh refresh token using tx.
func (s *AuthService) issue(ctx context.Context, tx store.Tx, u domain.User, sessionID string, amr []string) (*domain.TokenPair, error) {
	now := time.Now().UTC()
	scopes := domain.ScopesFor(u.Role)

	claims := jwtx.NewAccessClaims(jwtx.AccessParams{
		Subject:    u.ID,
		TenantID:   u.TenantID,
		Role:       string(u.Role),
		CustomerID: u.CustomerID,
		Email:      u.Email,
		SID:        sessionID,
		Scopes:     scopes,
		AMR:        amr,
		TTL:        s.accessTTL(),
		Issuer:     s.Issuer,
		Audience:   s.Audience,
	}, now)

	signer := s.KeyManager.GetSigner()
	if signer == nil {
		return nil, errors.New("no signing key available")
	}
	access, err := signer.Sign(claims)
	if err != nil {
		return nil, err
	}

	refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}

	rt := domain.RefreshToken{
		ID:        idx.New().String(),
		TenantID:  u.TenantID,
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(refreshOpaque),
		SessionID: sessionID,
		AMR:       strings.Join(amr, " "),
		ExpiresAt: now.Add(s.refreshTTL()),
		CreatedAt: now,
	}
	if err := tx.RefreshTokens().CreateRefreshToken(ctx, rt); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refreshOpaque,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL().Seconds()),
		Scope:        strings.Join(scopes, " "),
	}, nil
}
