package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
)

func TestSignup(t *testing.T) {
	e := newEnv(t)

	require.Equal(t, "outre", e.tenant.Slug)
	require.Equal(t, "EUR", e.tenant.Currency)
	require.True(t, e.tenant.DefaultVATRate.Equal(DefaultVATRate))
	require.Equal(t, domain.SubscriptionNone, e.tenant.SubscriptionStatus)
	require.Equal(t, domain.RoleOwner, e.owner.Role)
	require.Equal(t, e.tenant.ID, e.owner.TenantID)

	t.Run("slug is unique", func(t *testing.T) {
		_, _, err := e.tenants.Signup(e.ctx, SignupInput{
			TenantName: "Other", Slug: "OUTRE", Country: "DE",
			OwnerEmail: "x@y.test", Password: testPassword,
		})
		require.ErrorIs(t, err, ErrSlugTaken)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		cases := map[string]SignupInput{
			"missing name":  {Slug: "abc", Country: "FR", OwnerEmail: "a@b.test", Password: testPassword},
			"bad slug":      {TenantName: "A", Slug: "A!", Country: "FR", OwnerEmail: "a@b.test", Password: testPassword},
			"bad country":   {TenantName: "A", Slug: "abc", Country: "FRA", OwnerEmail: "a@b.test", Password: testPassword},
			"bad email":     {TenantName: "A", Slug: "abc", Country: "FR", OwnerEmail: "nope", Password: testPassword},
			"weak password": {TenantName: "A", Slug: "abc", Country: "FR", OwnerEmail: "a@b.test", Password: "short"},
		}
		for name, in := range cases {
			t.Run(name, func(t *testing.T) {
				_, _, err := e.tenants.Signup(e.ctx, in)
				require.ErrorIs(t, err, ErrInvalidInput)
			})
		}
	})
}

func TestUpdateSettings(t *testing.T) {
	e := newEnv(t)

	rate := dec("0.055")
	got, err := e.tenants.UpdateSettings(e.ctx, e.tenant.ID, TenantSettings{
		Country:        "be",
		DefaultVATRate: &rate,
		VATNumber:      "be 0123.456.789",
	})
	require.NoError(t, err)
	require.Equal(t, "BE", got.Country)
	require.Equal(t, "BE0123456789", got.VATNumber)
	require.Equal(t, "Outre Records", got.Name)

	reloaded, err := e.tenants.Get(e.ctx, e.tenant.ID)
	require.NoError(t, err)
	require.True(t, reloaded.DefaultVATRate.Equal(rate))

	bad := dec("1.5")
	_, err = e.tenants.UpdateSettings(e.ctx, e.tenant.ID, TenantSettings{DefaultVATRate: &bad})
	require.ErrorIs(t, err, ErrInvalidInput)
}
