package domain

import "time"

// VATCheck is the answer of the VIES registry for one VAT number.
type VATCheck struct {
	CountryCode string    `json:"country_code"`
	Number      string    `json:"number"`
	Valid       bool      `json:"valid"`
	Name        string    `json:"name,omitempty"`
	Address     string    `json:"address,omitempty"`
	CheckedAt   time.Time `json:"checked_at"`
}

// VATNumber returns the full number with its country prefix.
func (c VATCheck) VATNumber() string {
	return c.CountryCode + c.Number
}
