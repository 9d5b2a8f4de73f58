package erpsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLoginAndAuthenticatedCalls(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/token", func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "right" {
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: ErrorCodeInvalidCredentials, ErrorDescription: "nope"})
			return
		}
		writeJSON(w, http.StatusOK, TokenResponse{AccessToken: "at-1", RefreshToken: "rt-1", TokenType: "Bearer", ExpiresIn: 900, Scope: "catalog:read purchasing:write"})
	})
	mux.HandleFunc("GET /v1/products", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
		require.Equal(t, "miles", r.URL.Query().Get("search"))
		writeJSON(w, http.StatusOK, ProductList{Products: []Product{{ID: "p1", SKU: "LP-001"}}})
	})
	mux.HandleFunc("POST /v1/purchase-orders/{id}/transition", func(w http.ResponseWriter, r *http.Request) {
		var req TransitionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Status == "closed" {
			writeJSON(w, http.StatusConflict, ErrorResponse{Error: ErrorCodeInvalidTransition, ErrorDescription: "draft -> closed"})
			return
		}
		writeJSON(w, http.StatusOK, PurchaseOrder{ID: r.PathValue("id"), Status: req.Status})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL + "/")
	ctx := context.Background()

	_, err := c.Login(ctx, LoginRequest{Tenant: "outre", Email: "a@b.c", Password: "wrong"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, ErrorCodeInvalidCredentials, apiErr.Code)

	s, err := c.Login(ctx, LoginRequest{Tenant: "outre", Email: "a@b.c", Password: "right"})
	require.NoError(t, err)
	require.True(t, s.HasScope("catalog:read"))
	require.False(t, s.HasScope("users:write"))

	products, err := s.ListProducts(ctx, ProductQuery{Search: "miles"})
	require.NoError(t, err)
	require.Len(t, products, 1)

	po, err := s.TransitionPurchaseOrder(ctx, "po1", "sent")
	require.NoError(t, err)
	require.Equal(t, "sent", po.Status)

	_, err = s.TransitionPurchaseOrder(ctx, "po1", "closed")
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, ErrorCodeInvalidTransition, apiErr.Code)
}

func TestSessionRefreshesExpiredToken(t *testing.T) {
	t.Parallel()

	var refreshes atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		var req RefreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "rt-old", req.RefreshToken)
		refreshes.Add(1)
		writeJSON(w, http.StatusOK, TokenResponse{AccessToken: "at-new", RefreshToken: "rt-new", ExpiresIn: 900})
	})
	mux.HandleFunc("GET /v1/purchase-orders", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer at-new", r.Header.Get("Authorization"))
		require.Equal(t, "sent", r.URL.Query().Get("status"))
		writeJSON(w, http.StatusOK, PurchaseOrderList{})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	s := NewClient(srv.URL).NewSessionFromTokens("at-old", "rt-old", "", 0)
	_, err := s.ListPurchaseOrders(context.Background(), "sent")
	require.NoError(t, err)
	require.Equal(t, "rt-new", s.RefreshToken())

	_, err = s.ListPurchaseOrders(context.Background(), "sent")
	require.NoError(t, err)
	require.EqualValues(t, 1, refreshes.Load())
}

func TestImportExportProducts(t *testing.T) {
	t.Parallel()

	const csv = "sku,title\nLP-1,Kind of Blue\n"
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/products/import", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "text/csv", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.Equal(t, csv, string(body))
		writeJSON(w, http.StatusOK, ImportReport{Created: 1, Errors: []ImportError{}})
	})
	mux.HandleFunc("GET /v1/products/export", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, csv)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	s := NewClient(srv.URL).NewSessionFromTokens("at", "rt", "", 900)

	report, err := s.ImportProducts(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, 1, report.Created)

	var buf bytes.Buffer
	require.NoError(t, s.ExportProducts(context.Background(), &buf))
	require.Equal(t, csv, buf.String())
}

func TestParseErrorResponseFallback(t *testing.T) {
	t.Parallel()

	resp := &http.Response{StatusCode: http.StatusBadGateway}
	err := parseErrorResponse(resp, []byte("<html>bad gateway</html>"))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, ErrorCodeServerError, apiErr.Code)
	require.Contains(t, apiErr.Description, "502")
	require.NoError(t, parseErrorResponse(&http.Response{StatusCode: http.StatusOK}, nil))
}

func TestHealth(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /livez", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: "test"})
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	h, err := c.GetLiveness(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", h.Status)

	_, err = c.GetReadiness(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}
