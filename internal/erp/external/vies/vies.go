// Package vies queries the EU VIES REST API for VAT number validity.
package vies

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/OolalaDXB/outrenational/internal/erp/domain"
	"github.com/OolalaDXB/outrenational/pkg/metricsx"
)

const DefaultBaseURL = "https://ec.europa.eu/taxation_customs/vies/rest-api"

// ErrUnavailable covers every answer that is not a definite valid/invalid:
// member state down, rate limited, transport errors.
var ErrUnavailable = errors.New("vies: unavailable")

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string, hc *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: hc}
}

type checkResponse struct {
	IsValid     bool   `json:"isValid"`
	RequestDate string `json:"requestDate"`
	UserError   string `json:"userError"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	VATNumber   string `json:"vatNumber"`
}

// CheckVAT asks VIES about number (without country prefix) in member state cc.
func (c *Client) CheckVAT(ctx context.Context, cc, number string) (check domain.VATCheck, err error) {
	start := time.Now()
	defer func() { metricsx.RecordExternalCall(ctx, "vies", "check_vat", time.Since(start), err) }()

	u := fmt.Sprintf("%s/ms/%s/vat/%s", c.BaseURL, url.PathEscape(cc), url.PathEscape(number))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return check, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return check, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return check, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return check, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}

	switch body.UserError {
	case "", "VALID", "INVALID":
	default:
		return check, fmt.Errorf("%w: %s", ErrUnavailable, body.UserError)
	}

	return domain.VATCheck{
		CountryCode: cc,
		Number:      number,
		Valid:       body.IsValid,
		Name:        cleanField(body.Name),
		Address:     cleanField(body.Address),
		CheckedAt:   time.Now().UTC(),
	}, nil
}

// cleanField drops the "---" placeholder VIES returns for undisclosed data.
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	if s == "---" {
		return ""
	}
	return s
}
