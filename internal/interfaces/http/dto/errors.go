package dto

import "net/http"

// Error code constants, grouped by category

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation and input error codes
const (
	ErrCodeValidation  = "ERR_VALIDATION"
	ErrCodeBadRequest  = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeBusinessRule      = "ERR_BUSINESS_RULE"
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	ErrCodeEmptyCart         = "ERR_EMPTY_CART"
	ErrCodeAmountMismatch    = "ERR_AMOUNT_MISMATCH"
	ErrCodePaymentRejected   = "ERR_PAYMENT_REJECTED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:  http.StatusBadRequest,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeEmptyCart:         http.StatusUnprocessableEntity,
	ErrCodeAmountMismatch:    http.StatusUnprocessableEntity,
	ErrCodePaymentRejected:   http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the API's
// standardized codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"INSUFFICIENT_STOCK":   ErrCodeInsufficientStock,
	"EMPTY_CART":           ErrCodeEmptyCart,
	"EMPTY_ORDER":          ErrCodeEmptyCart,
	"AMOUNT_MISMATCH":      ErrCodeAmountMismatch,
	"INVALID_CREDENTIALS":  ErrCodeUnauthorized,
	"ACCOUNT_INACTIVE":     ErrCodeForbidden,
	"EMAIL_TAKEN":          ErrCodeAlreadyExists,
	"SLUG_TAKEN":           ErrCodeAlreadyExists,
	"OWN_PRODUCT":          ErrCodeBusinessRule,
	"OUT_OF_STOCK":         ErrCodeInsufficientStock,
	"ORDER_NOT_FOUND":      ErrCodeNotFound,
	"CATEGORY_NOT_FOUND":   ErrCodeNotFound,
	"VARIATION_NOT_FOUND":  ErrCodeBadRequest,
	"UNKNOWN_GATEWAY":      ErrCodeBadRequest,
	"MALFORMED_PAYLOAD":    ErrCodeBadRequest,
	"SIGNATURE_MISMATCH":   ErrCodeUnauthorized,
	"GATEWAY_UNAVAILABLE":  ErrCodeBusinessRule,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the standardized
// format. Unmapped codes pass through unchanged.
func NormalizeErrorCode(code string) string {
	if normalized, ok := DomainErrorCodeMapping[code]; ok {
		return normalized
	}
	return code
}
