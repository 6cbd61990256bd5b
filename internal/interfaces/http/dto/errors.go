package dto

import "net/http"

// Error codes shared by the API surface. Domain errors carry the same
// codes, so handlers can pass them straight through.
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeAlreadyExists is used when creating a duplicate resource
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	// ErrCodeConflict is used for resource conflicts
	ErrCodeConflict = "CONFLICT"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "INVALID_INPUT"
	// ErrCodeInvalidState is used when an operation is invalid for the current state
	ErrCodeInvalidState = "INVALID_STATE"
	// ErrCodeInsufficientStock is used when stock cannot cover a request
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	// ErrCodeEmptyCart is used when checkout finds nothing to convert
	ErrCodeEmptyCart = "EMPTY_CART"
	// ErrCodeAlreadyPaid is used when a paid order is charged again
	ErrCodeAlreadyPaid = "ALREADY_PAID"
	// ErrCodeUnauthorized is used for missing or failed authentication
	ErrCodeUnauthorized = "AUTHENTICATION_ERROR"
	// ErrCodeExternalService is used when an upstream provider fails
	ErrCodeExternalService = "EXTERNAL_SERVICE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Concurrent writers that exhaust their reload retries
	"OPTIMISTIC_LOCK_FAILED": http.StatusConflict,

	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	// Domain-level field validations that binding cannot catch
	"INVALID_NAME":     http.StatusBadRequest,
	"INVALID_SKU":      http.StatusBadRequest,
	"INVALID_PRICE":    http.StatusBadRequest,
	"INVALID_QUANTITY": http.StatusBadRequest,

	// Oversell and double-charge attempts read as conflicts with the
	// resource's current state
	ErrCodeInsufficientStock: http.StatusConflict,
	ErrCodeAlreadyPaid:       http.StatusConflict,

	ErrCodeEmptyCart: http.StatusBadRequest,

	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeExternalService: http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code, or 500
// when the code is unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
