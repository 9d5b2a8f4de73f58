package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Cents rounds an amount to two decimals, half away from zero.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineTotal is qty × unit × (1 − discount), rounded to cents.
func LineTotal(qty int, unit, discount decimal.Decimal) decimal.Decimal {
	gross := unit.Mul(decimal.NewFromInt(int64(qty)))
	return Cents(gross.Mul(decimal.NewFromInt(1).Sub(discount)))
}

// IsRate reports whether r lies in [0, 1].
func IsRate(r decimal.Decimal) bool {
	return !r.IsNegative() && r.LessThanOrEqual(decimal.NewFromInt(1))
}

var euCountries = []string{
	"AT", "BE", "BG", "CY", "CZ", "DE", "DK", "EE", "EL", "ES", "FI", "FR", "HR",
	"HU", "IE", "IT", "LT", "LU", "LV", "MT", "NL", "PL", "PT", "RO", "SE", "SI", "SK",
}

// IsEU reports whether an ISO country code (or the VIES "EL" for Greece) is
// an EU member state.
func IsEU(country string) bool {
	if country == "GR" {
		country = "EL"
	}
	return slices.Contains(euCountries, country)
}

// ReverseCharge reports whether an intra-EU B2B sale is zero rated: the
// buyer holds a validated VAT number and sits in a different member state.
func ReverseCharge(sellerCountry string, c Customer) bool {
	if !c.VATValidated || c.VATNumber == "" {
		return false
	}
	if !IsEU(sellerCountry) || !IsEU(c.Country) {
		return false
	}
	return normCountry(sellerCountry) != normCountry(c.Country)
}

func normCountry(c string) string {
	if c == "GR" {
		return "EL"
	}
	return c
}
