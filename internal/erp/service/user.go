package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/store"
	"github.com/OolalaDXB/outrenational/pkg/cryptox"
	"github.com/OolalaDXB/outrenational/pkg/idx"
	"github.com/OolalaDXB/outrenational/pkg/slogx"
)

type UserService struct {
	Store store.Store
}

type CreateUserInput struct {
	Email      string      `json:"email"`
	Name       string      `json:"name"`
	Password   string      `json:"password"`
	Role       domain.Role `json:"role"`
	CustomerID string      `json:"customer_id,omitempty"`
}

// CreateUser adds a user to a tenant. Pro users are bound to a customer of
// the same tenant; staff and owners must not be.
func (s *UserService) CreateUser(ctx context.Context, tenantID string, in CreateUserInput) (domain.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if !strings.Contains(in.Email, "@") {
		return domain.User{}, fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}
	if !in.Role.Valid() {
		return domain.User{}, fmt.Errorf("%w: role must be owner, staff or pro", ErrInvalidInput)
	}
	if err := cryptox.CheckPasswordPolicy(in.Password); err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	switch {
	case in.Role == domain.RolePro && in.CustomerID == "":
		return domain.User{}, fmt.Errorf("%w: pro users need a customer_id", ErrInvalidInput)
	case in.Role != domain.RolePro && in.CustomerID != "":
		return domain.User{}, fmt.Errorf("%w: only pro users are bound to a customer", ErrInvalidInput)
	}
	if in.CustomerID != "" {
		c, err := s.Store.Customers().GetCustomer(ctx, tenantID, in.CustomerID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.User{}, fmt.Errorf("%w: customer not found", ErrInvalidInput)
			}
			return domain.User{}, err
		}
		if !c.IsPro {
			return domain.User{}, fmt.Errorf("%w: customer %s is not a pro account", ErrInvalidInput, c.ID)
		}
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		TenantID:     tenantID,
		Email:        in.Email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         in.Role,
		CustomerID:   in.CustomerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user created", "user_id", u.ID, "role", u.Role)
	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, tenantID, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, tenantID, userID)
}

func (s *UserService) ListUsers(ctx context.Context, tenantID string) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx, tenantID)
}

// DeleteUser removes a user. Owners cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, tenantID, actorID, userID string) error {
	if actorID == userID {
		return fmt.Errorf("%w: cannot delete yourself", ErrForbidden)
	}
	return s.Store.Users().DeleteUser(ctx, tenantID, userID)
}

// ChangePassword verifies the current password, stores the new hash and
// revokes every refresh token of the user.
func (s *UserService) ChangePassword(ctx context.Context, tenantID, userID, current, next string) error {
	u, err := s.Store.Users().GetUserByID(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if err := cryptox.VerifyPassword(current, u.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}
	if err := cryptox.CheckPasswordPolicy(next); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hash, err := cryptox.HashPassword(next)
	if err != nil {
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, tenantID, userID, hash); err != nil {
			return err
		}
		return tx.RefreshTokens().RevokeUserRefreshTokens(ctx, tenantID, userID)
	})
}
