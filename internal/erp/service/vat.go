package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/internal/erp/external/vies"
	"github.com/OolalaDXB/outrenational/internal/erp/store"
	"github.com/OolalaDXB/outrenational/pkg/cachex"
	"github.com/OolalaDXB/outrenational/pkg/metricsx"
	"github.com/OolalaDXB/outrenational/pkg/slogx"
)

// DefaultVATCacheTTL keeps VIES answers for a day.
const DefaultVATCacheTTL = 24 * time.Hour

// VATChecker is the upstream registry. *vies.Client satisfies it.
type VATChecker interface {
	CheckVAT(ctx context.Context, countryCode, number string) (domain.VATCheck, error)
}

// vatFormats are the national number shapes, without the country prefix.
var vatFormats = map[string]*regexp.Regexp{
	"AT": regexp.MustCompile(`^U\d{8}$`),
	"BE": regexp.MustCompile(`^[01]\d{9}$`),
	"BG": regexp.MustCompile(`^\d{9,10}$`),
	"CY": regexp.MustCompile(`^\d{8}[A-Z]$`),
	"CZ": regexp.MustCompile(`^\d{8,10}$`),
	"DE": regexp.MustCompile(`^\d{9}$`),
	"DK": regexp.MustCompile(`^\d{8}$`),
	"EE": regexp.MustCompile(`^\d{9}$`),
	"EL": regexp.MustCompile(`^\d{9}$`),
	"ES": regexp.MustCompile(`^[A-Z0-9]\d{7}[A-Z0-9]$`),
	"FI": regexp.MustCompile(`^\d{8}$`),
	"FR": regexp.MustCompile(`^[A-Z0-9]{2}\d{9}$`),
	"HR": regexp.MustCompile(`^\d{11}$`),
	"HU": regexp.MustCompile(`^\d{8}$`),
	"IE": regexp.MustCompile(`^(\d{7}[A-W][A-I]?|\d[A-Z+*]\d{5}[A-W])$`),
	"IT": regexp.MustCompile(`^\d{11}$`),
	"LT": regexp.MustCompile(`^(\d{9}|\d{12})$`),
	"LU": regexp.MustCompile(`^\d{8}$`),
	"LV": regexp.MustCompile(`^\d{11}$`),
	"MT": regexp.MustCompile(`^\d{8}$`),
	"NL": regexp.MustCompile(`^\d{9}B\d{2}$`),
	"PL": regexp.MustCompile(`^\d{10}$`),
	"PT": regexp.MustCompile(`^\d{9}$`),
	"RO": regexp.MustCompile(`^\d{2,10}$`),
	"SE": regexp.MustCompile(`^\d{12}$`),
	"SI": regexp.MustCompile(`^\d{8}$`),
	"SK": regexp.MustCompile(`^\d{10}$`),
	"XI": regexp.MustCompile(`^(\d{9}|\d{12}|GD\d{3}|HA\d{3})$`),
}

// NormalizeVATNumber strips separators and upper-cases a VAT number. A
// Greek GR prefix becomes the EL used by VIES.
func NormalizeVATNumber(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '.', '-', '\t':
			return -1
		}
		return r
	}, strings.ToUpper(strings.TrimSpace(s)))
	if strings.HasPrefix(s, "GR") {
		s = "EL" + s[2:]
	}
	return s
}

// SplitVATNumber normalises s and splits it into country prefix and national
// number, checking the national format.
func SplitVATNumber(s string) (string, string, error) {
	s = NormalizeVATNumber(s)
	if len(s) < 4 {
		return "", "", fmt.Errorf("%w: too short", ErrInvalidVATFormat)
	}
	cc, num := s[:2], s[2:]
	re, ok := vatFormats[cc]
	if !ok {
		return "", "", fmt.Errorf("%w: %s is not an EU prefix", ErrInvalidVATFormat, cc)
	}
	if !re.MatchString(num) {
		return "", "", fmt.Errorf("%w: %s number has the wrong shape", ErrInvalidVATFormat, cc)
	}
	return cc, num, nil
}

// VATService validates VAT numbers against VIES behind a cache. Definite
// answers, valid or not, are cached; upstream failures are not.
type VATService struct {
	Store    store.Store
	Checker  VATChecker
	Cache    cachex.Cache
	CacheTTL time.Duration
}

func vatCacheKey(cc, num string) string { return "vat:" + cc + num }

func (s *VATService) ttl() time.Duration {
	if s.CacheTTL > 0 {
		return s.CacheTTL
	}
	return DefaultVATCacheTTL
}

func (s *VATService) Validate(ctx context.Context, vatNumber string) (domain.VATCheck, error) {
	cc, num, err := SplitVATNumber(vatNumber)
	if err != nil {
		return domain.VATCheck{}, err
	}

	key := vatCacheKey(cc, num)
	if s.Cache != nil {
		cached, err := cachex.GetJSON[domain.VATCheck](ctx, s.Cache, key)
		if err == nil {
			metricsx.RecordCacheEvent(ctx, "vat", true)
			return cached, nil
		}
		if !errors.Is(err, cachex.ErrMiss) {
			slogx.FromContext(ctx).Warn("vat cache read failed", "key", key, "error", err)
		}
		metricsx.RecordCacheEvent(ctx, "vat", false)
	}

	check, err := s.Checker.CheckVAT(ctx, cc, num)
	if err != nil {
		slogx.FromContext(ctx).Error("vies lookup failed", "country_code", cc, "error", err)
		if errors.Is(err, vies.ErrUnavailable) {
			return domain.VATCheck{}, ErrVATUnavailable
		}
		return domain.VATCheck{}, fmt.Errorf("%w: %v", ErrVATUnavailable, err)
	}
	if check.CheckedAt.IsZero() {
		check.CheckedAt = time.Now().UTC()
	}

	if s.Cache != nil {
		if err := cachex.SetJSON(ctx, s.Cache, key, check, s.ttl()); err != nil {
			slogx.FromContext(ctx).Warn("vat cache write failed", "key", key, "error", err)
		}
	}
	return check, nil
}

// ValidateCustomer checks the customer's VAT number and stores the result.
// A malformed number clears the flag; an unreachable registry leaves it.
func (s *VATService) ValidateCustomer(ctx context.Context, tenantID, customerID string) (domain.VATCheck, error) {
	c, err := s.Store.Customers().GetCustomer(ctx, tenantID, customerID)
	if err != nil {
		return domain.VATCheck{}, err
	}
	if c.VATNumber == "" {
		return domain.VATCheck{}, fmt.Errorf("%w: customer has no vat_number", ErrInvalidInput)
	}

	check, err := s.Validate(ctx, c.VATNumber)
	if errors.Is(err, ErrInvalidVATFormat) {
		if serr := s.Store.Customers().SetVATValidated(ctx, tenantID, customerID, false); serr != nil {
			return domain.VATCheck{}, serr
		}
		return domain.VATCheck{}, err
	}
	if err != nil {
		return domain.VATCheck{}, err
	}

	if err := s.Store.Customers().SetVATValidated(ctx, tenantID, customerID, check.Valid); err != nil {
		return domain.VATCheck{}, err
	}
	slogx.FromContext(ctx).Info("customer vat validated",
		"customer_id", customerID, "valid", check.Valid)
	return check, nil
}
