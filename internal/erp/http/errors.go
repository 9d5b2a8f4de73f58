package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/OolalaDXB/outrenational/internal/erp/service"
	"github.com/OolalaDXB/outrenational/internal/erp/store"
	"github.com/OolalaDXB/outrenational/pkg/erpsdk"
	"github.com/OolalaDXB/outrenational/pkg/httpx"
	"github.com/OolalaDXB/outrenational/pkg/slogx"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
	dateLayout      = "2006-01-02"
)

// writeServiceError maps a service or store error onto an API error body.
// Unknown errors are logged and reported as server_error without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		erpsdk.ErrServerError.WriteError(w)
		return
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer error="`+code+`"`)
	}
	httpx.WriteError(w, status, code, err.Error())
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidVATFormat),
		errors.Is(err, service.ErrInvalidSignature):
		return http.StatusBadRequest, erpsdk.ErrorCodeInvalidRequest

	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, erpsdk.ErrorCodeInvalidCredentials
	case errors.Is(err, service.ErrMFARequired):
		return http.StatusUnauthorized, erpsdk.ErrorCodeMFARequired
	case errors.Is(err, service.ErrInvalidOTP):
		return http.StatusUnauthorized, erpsdk.ErrorCodeInvalidCredentials
	case errors.Is(err, service.ErrInvalidRefresh):
		return http.StatusUnauthorized, erpsdk.ErrorCodeInvalidToken

	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, erpsdk.ErrorCodeForbidden

	case errors.Is(err, store.ErrNotFound), errors.Is(err, service.ErrDiscogsNotFound):
		return http.StatusNotFound, erpsdk.ErrorCodeNotFound

	case errors.Is(err, service.ErrSlugTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrSKUTaken),
		errors.Is(err, store.ErrAlreadyExists),
		errors.Is(err, store.ErrInUse),
		errors.Is(err, service.ErrInvoiceExists),
		errors.Is(err, service.ErrPayoutExceedsBalance),
		errors.Is(err, service.ErrOverReceipt),
		errors.Is(err, service.ErrMFAAlreadyEnabled),
		errors.Is(err, service.ErrMFANotEnrolled),
		errors.Is(err, service.ErrStockBusy):
		return http.StatusConflict, erpsdk.ErrorCodeConflict
	case errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict, erpsdk.ErrorCodeInvalidTransition
	case errors.Is(err, service.ErrInsufficientStock):
		return http.StatusConflict, erpsdk.ErrorCodeInsufficientStock

	case errors.Is(err, service.ErrVATUnavailable), errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway, erpsdk.ErrorCodeUpstream
	case errors.Is(err, service.ErrBillingDisabled):
		return http.StatusServiceUnavailable, erpsdk.ErrorCodeUpstream
	}
	return http.StatusInternalServerError, erpsdk.ErrorCodeServerError
}

func writeBadRequest(w http.ResponseWriter, desc string) {
	httpx.WriteError(w, http.StatusBadRequest, erpsdk.ErrorCodeInvalidRequest, desc)
}

// decode reads a JSON body and answers 400 on failure. It returns false
// when the handler should stop.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httpx.DecodeJSON(r, v); err != nil {
		writeBadRequest(w, "invalid JSON in request body: "+err.Error())
		return false
	}
	return true
}

// page reads limit and offset query parameters.
func page(r *http.Request) (limit, offset int, err error) {
	q := r.URL.Query()
	limit, offset = defaultPageSize, 0

	if v := q.Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return 0, 0, fmt.Errorf("limit must be a positive integer")
		}
		limit = min(limit, maxPageSize)
	}
	if v := q.Get("offset"); v != "" {
		offset, err = strconv.Atoi(v)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("offset must be a non-negative integer")
		}
	}
	return limit, offset, nil
}

// period reads the from/to query parameters as dates (YYYY-MM-DD) or RFC
// 3339 timestamps. A date in "to" is exclusive of that day's end, so
// to=2025-02-01 covers January. Missing bounds default to the current
// calendar month.
func period(r *http.Request) (from, to time.Time, err error) {
	now := time.Now().UTC()
	from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to = from.AddDate(0, 1, 0)

	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		if from, err = parseTime(v); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("from: %w", err)
		}
	}
	if v := q.Get("to"); v != "" {
		if to, err = parseTime(v); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("to: %w", err)
		}
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("from must be before to")
	}
	return from, to, nil
}

func parseTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(dateLayout, v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD or RFC 3339, got %q", v)
	}
	return t.UTC(), nil
}

// optionalPeriod is period for listings where both bounds may be absent.
func optionalPeriod(r *http.Request) (from, to time.Time, err error) {
	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		if from, err = parseTime(v); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("from: %w", err)
		}
	}
	if v := q.Get("to"); v != "" {
		if to, err = parseTime(v); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("to: %w", err)
		}
	}
	return from, to, nil
}

func boolParam(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}
