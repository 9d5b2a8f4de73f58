package service

import "errors"

// Sentinel errors returned by the services. Handlers map them to HTTP
// status codes; wrap them with %w to add detail.
var (
	ErrInvalidInput       = errors.New("invalid_request")
	ErrForbidden          = errors.New("forbidden")
	ErrSlugTaken          = errors.New("slug_taken")
	ErrEmailTaken         = errors.New("email_taken")
	ErrSKUTaken           = errors.New("sku_taken")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrMFARequired        = errors.New("mfa_required")
	ErrInvalidOTP         = errors.New("invalid_otp")
	ErrMFAAlreadyEnabled  = errors.New("mfa_already_enabled")
	ErrMFANotEnrolled     = errors.New("mfa_not_enrolled")

	ErrInvalidTransition    = errors.New("invalid_transition")
	ErrInsufficientStock    = errors.New("insufficient_stock")
	ErrOverReceipt          = errors.New("over_receipt")
	ErrPayoutExceedsBalance = errors.New("payout_exceeds_balance")
	ErrInvoiceExists        = errors.New("invoice_exists")
	ErrStockBusy            = errors.New("stock_busy")

	ErrInvalidVATFormat = errors.New("invalid_vat_format")
	ErrVATUnavailable   = errors.New("vat_service_unavailable")
	ErrDiscogsNotFound  = errors.New("discogs_release_not_found")
	ErrUpstream         = errors.New("upstream_error")
	ErrBillingDisabled  = errors.New("billing_not_configured")
	ErrInvalidSignature = errors.New("invalid_signature")
)
