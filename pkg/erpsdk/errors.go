package erpsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/OolalaDXB/outrenational/pkg/httpx"
)

// Error codes returned in the "error" field of API responses.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeMFARequired        = "mfa_required"
	ErrorCodeInsufficientScope  = "insufficient_scope"
	ErrorCodeForbidden          = "forbidden"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeConflict           = "conflict"
	ErrorCodeInvalidTransition  = "invalid_transition"
	ErrorCodeInsufficientStock  = "insufficient_stock"
	ErrorCodeRateLimitExceeded  = "rate_limit_exceeded"
	ErrorCodeUpstream           = "upstream_error"
	ErrorCodeServerError        = "server_error"
)

// APIError is the error body of every failed request. The server writes it
// with WriteError; the client returns it from every call.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes e as the JSON response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteError(w, e.StatusCode, e.Code, e.Description)
}

// NewAPIError builds an APIError.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Description: description}
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "resource not found",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// parseErrorResponse turns a non-2xx response into an *APIError, falling
// back to the status text when the body is not an error document.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
