package erpsdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// ProductQuery narrows ListProducts. Zero values are omitted.
type ProductQuery struct {
	Search   string
	LowStock bool
	Limit    int
	Offset   int
}

func (q ProductQuery) encode() string {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.LowStock {
		v.Set("low_stock", "true")
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func (s *Session) ListProducts(ctx context.Context, q ProductQuery) ([]Product, error) {
	var out ProductList
	if err := s.getJSON(ctx, "/v1/products"+q.encode(), &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// ImportProducts uploads a catalog CSV. Rows that fail are listed in the
// report; the call itself only fails on a bad header or transport error.
func (s *Session) ImportProducts(ctx context.Context, csv io.Reader) (*ImportReport, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/products/import", csv, map[string]string{"Content-Type": "text/csv"})
	if err != nil {
		return nil, err
	}

	var report ImportReport
	if err := decodeJSON(resp, &report, http.StatusOK); err != nil {
		return nil, err
	}
	return &report, nil
}

// ExportProducts streams the catalog CSV into w.
func (s *Session) ExportProducts(ctx context.Context, w io.Writer) error {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/products/export", nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp, body)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to read export: %w", err)
	}
	return nil
}
