package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/store"
)

func TestCreateUser(t *testing.T) {
	e := newEnv(t)
	shop := e.customer(t, CustomerInput{Name: "Shop", IsPro: true})

	t.Run("staff", func(t *testing.T) {
		u, err := e.users.CreateUser(e.ctx, e.tenant.ID, CreateUserInput{
			Email: " Staff@Outre.test ", Name: "Staff", Password: testPassword, Role: domain.RoleStaff,
		})
		require.NoError(t, err)
		require.Equal(t, "staff@outre.test", u.Email)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := e.users.CreateUser(e.ctx, e.tenant.ID, CreateUserInput{
			Email: "staff@outre.test", Password: testPassword, Role: domain.RoleStaff,
		})
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("pro needs a customer", func(t *testing.T) {
		_, err := e.users.CreateUser(e.ctx, e.tenant.ID, CreateUserInput{
			Email: "pro@shop.test", Password: testPassword, Role: domain.RolePro,
		})
		require.ErrorIs(t, err, ErrInvalidInput)

		_, err = e.users.CreateUser(e.ctx, e.tenant.ID, CreateUserInput{
			Email: "pro@shop.test", Password: testPassword, Role: domain.RolePro, CustomerID: "missing",
		})
		require.ErrorIs(t, err, ErrInvalidInput)

		u, err := e.users.CreateUser(e.ctx, e.tenant.ID, CreateUserInput{
			Email: "pro@shop.test", Password: testPassword, Role: domain.RolePro, CustomerID: shop.ID,
		})
		require.NoError(t, err)
		require.Equal(t, shop.ID, u.CustomerID)
	})

	t.Run("pro customer required", func(t *testing.T) {
		walkIn := e.customer(t, CustomerInput{Name: "Walk-in"})
		_, err := e.users.CreateUser(e.ctx, e.tenant.ID, CreateUserInput{
			Email: "walkin@shop.test", Password: testPassword, Role: domain.RolePro, CustomerID: walkIn.ID,
		})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("staff cannot carry a customer", func(t *testing.T) {
		_, err := e.users.CreateUser(e.ctx, e.tenant.ID, CreateUserInput{
			Email: "s2@outre.test", Password: testPassword, Role: domain.RoleStaff, CustomerID: shop.ID,
		})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	users, err := e.users.ListUsers(e.ctx, e.tenant.ID)
	require.NoError(t, err)
	require.Len(t, users, 3)
}

func TestDeleteUser(t *testing.T) {
	e := newEnv(t)

	err := e.users.DeleteUser(e.ctx, e.tenant.ID, e.owner.ID, e.owner.ID)
	require.ErrorIs(t, err, ErrForbidden)

	u, err := e.users.CreateUser(e.ctx, e.tenant.ID, CreateUserInput{
		Email: "staff@outre.test", Password: testPassword, Role: domain.RoleStaff,
	})
	require.NoError(t, err)
	require.NoError(t, e.users.DeleteUser(e.ctx, e.tenant.ID, e.owner.ID, u.ID))

	_, err = e.users.GetUser(e.ctx, e.tenant.ID, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}
