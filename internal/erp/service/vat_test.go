package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/external/vies"
)

type fakeChecker struct {
	calls atomic.Int32
	valid map[string]bool
	err   error
}

func (f *fakeChecker) CheckVAT(_ context.Context, cc, number string) (domain.VATCheck, error) {
	f.calls.Add(1)
	if f.err != nil {
		return domain.VATCheck{}, f.err
	}
	return domain.VATCheck{
		CountryCode: cc,
		Number:      number,
		Valid:       f.valid[cc+number],
		Name:        "Plattenladen GmbH",
	}, nil
}

func TestNormalizeVATNumber(t *testing.T) {
	cases := map[string]string{
		" de 123.456-789 ": "DE123456789",
		"fr\t12345678901":  "FR12345678901",
		"GR123456789":      "EL123456789",
		"":                 "",
	}
	for in, want := range cases {
		require.Equal(t, want, NormalizeVATNumber(in), "input %q", in)
	}
}

func TestSplitVATNumber(t *testing.T) {
	cc, num, err := SplitVATNumber("de 123 456 789")
	require.NoError(t, err)
	require.Equal(t, "DE", cc)
	require.Equal(t, "123456789", num)

	cc, num, err = SplitVATNumber("NL123456789B01")
	require.NoError(t, err)
	require.Equal(t, "NL", cc)
	require.Equal(t, "123456789B01", num)

	for _, bad := range []string{"", "DE1", "US123456789", "DE12345678", "ATX12345678"} {
		_, _, err := SplitVATNumber(bad)
		require.ErrorIs(t, err, ErrInvalidVATFormat, "input %q", bad)
	}
}

func TestVATValidateCaches(t *testing.T) {
	e := newEnv(t)
	checker := &fakeChecker{valid: map[string]bool{"DE123456789": true}}
	svc := &VATService{Store: e.store, Checker: checker, Cache: e.cache}

	check, err := svc.Validate(e.ctx, "DE 123 456 789")
	require.NoError(t, err)
	require.True(t, check.Valid)
	require.Equal(t, "DE123456789", check.VATNumber())
	require.False(t, check.CheckedAt.IsZero())

	_, err = svc.Validate(e.ctx, "de123456789")
	require.NoError(t, err)
	require.EqualValues(t, 1, checker.calls.Load(), "second lookup is served from cache")

	invalid, err := svc.Validate(e.ctx, "DE999999999")
	require.NoError(t, err)
	require.False(t, invalid.Valid)
	_, err = svc.Validate(e.ctx, "DE999999999")
	require.NoError(t, err)
	require.EqualValues(t, 2, checker.calls.Load(), "negative answers are cached too")

	_, err = svc.Validate(e.ctx, "XX123")
	require.ErrorIs(t, err, ErrInvalidVATFormat)
	require.EqualValues(t, 2, checker.calls.Load(), "malformed numbers never reach the registry")
}

func TestVATValidateUnavailableIsNotCached(t *testing.T) {
	e := newEnv(t)
	checker := &fakeChecker{err: vies.ErrUnavailable}
	svc := &VATService{Store: e.store, Checker: checker, Cache: e.cache, CacheTTL: time.Minute}

	_, err := svc.Validate(e.ctx, "DE123456789")
	require.ErrorIs(t, err, ErrVATUnavailable)

	checker.err = nil
	checker.valid = map[string]bool{"DE123456789": true}
	check, err := svc.Validate(e.ctx, "DE123456789")
	require.NoError(t, err)
	require.True(t, check.Valid)
	require.EqualValues(t, 2, checker.calls.Load())
}

func TestValidateCustomer(t *testing.T) {
	e := newEnv(t)
	checker := &fakeChecker{valid: map[string]bool{"DE123456789": true}}
	svc := &VATService{Store: e.store, Checker: checker, Cache: e.cache}

	t.Run("valid number sets the flag", func(t *testing.T) {
		c := e.customer(t, CustomerInput{Name: "Laden", Country: "DE", VATNumber: "DE123456789"})
		_, err := svc.ValidateCustomer(e.ctx, e.tenant.ID, c.ID)
		require.NoError(t, err)

		got, err := e.customers.GetCustomer(e.ctx, e.tenant.ID, c.ID)
		require.NoError(t, err)
		require.True(t, got.VATValidated)
	})

	t.Run("registry says invalid", func(t *testing.T) {
		c := e.customer(t, CustomerInput{Name: "Other", Country: "DE", VATNumber: "DE000000000"})
		check, err := svc.ValidateCustomer(e.ctx, e.tenant.ID, c.ID)
		require.NoError(t, err)
		require.False(t, check.Valid)

		got, err := e.customers.GetCustomer(e.ctx, e.tenant.ID, c.ID)
		require.NoError(t, err)
		require.False(t, got.VATValidated)
	})

	t.Run("no number", func(t *testing.T) {
		c := e.customer(t, CustomerInput{Name: "Plain"})
		_, err := svc.ValidateCustomer(e.ctx, e.tenant.ID, c.ID)
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unavailable keeps the previous flag", func(t *testing.T) {
		c := e.customer(t, CustomerInput{Name: "Kept", Country: "DE", VATNumber: "DE111111111"})
		require.NoError(t, e.store.Customers().SetVATValidated(e.ctx, e.tenant.ID, c.ID, true))

		down := &VATService{Store: e.store, Checker: &fakeChecker{err: vies.ErrUnavailable}}
		_, err := down.ValidateCustomer(e.ctx, e.tenant.ID, c.ID)
		require.ErrorIs(t, err, ErrVATUnavailable)

		got, err := e.customers.GetCustomer(e.ctx, e.tenant.ID, c.ID)
		require.NoError(t, err)
		require.True(t, got.VATValidated)
	})
}
