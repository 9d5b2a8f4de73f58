package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/pkg/slogx"
)

// EnrollTOTP generates a TOTP secret for the user. MFA stays disabled until
// VerifyTOTP confirms the authenticator works.
func (s *AuthService) EnrollTOTP(ctx context.Context, tenantID, userID string) (domain.MFAEnrollment, error) {
	u, err := s.Store.Users().GetUserByID(ctx, tenantID, userID)
	if err != nil {
		return domain.MFAEnrollment{}, err
	}
	if u.MFAEnabled {
		return domain.MFAEnrollment{}, ErrMFAAlreadyEnabled
	}

	issuer := s.Issuer
	if issuer == "" {
		issuer = "Outrenational"
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: u.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.MFAEnrollment{}, fmt.Errorf("generate totp key: %w", err)
	}

	if err := s.Store.Users().SetMFA(ctx, tenantID, userID, false, key.Secret()); err != nil {
		return domain.MFAEnrollment{}, err
	}

	return domain.MFAEnrollment{Secret: key.Secret(), OTPAuthURL: key.URL()}, nil
}

// VerifyTOTP checks a code against the pending secret and enables MFA.
func (s *AuthService) VerifyTOTP(ctx context.Context, tenantID, userID, code string) error {
	u, err := s.Store.Users().GetUserByID(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if u.MFAEnabled {
		return ErrMFAAlreadyEnabled
	}
	if u.MFASecret == "" {
		return ErrMFANotEnrolled
	}
	if !totp.Validate(strings.TrimSpace(code), u.MFASecret) {
		return ErrInvalidOTP
	}

	if err := s.Store.Users().SetMFA(ctx, tenantID, userID, true, u.MFASecret); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("mfa enabled", "user_id", userID)
	return nil
}

// DisableTOTP turns MFA off after checking a current code.
func (s *AuthService) DisableTOTP(ctx context.Context, tenantID, userID, code string) error {
	u, err := s.Store.Users().GetUserByID(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if !u.MFAEnabled {
		return ErrMFANotEnrolled
	}
	if !totp.Validate(strings.TrimSpace(code), u.MFASecret) {
		return ErrInvalidOTP
	}

	if err := s.Store.Users().SetMFA(ctx, tenantID, userID, false, ""); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("mfa disabled", "user_id", userID)
	return nil
}
