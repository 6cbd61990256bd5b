package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound          = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists     = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput      = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState      = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrConflict          = NewDomainError("CONFLICT", "Operation conflicts with current resource state")
	ErrOptimisticLock    = NewDomainError("OPTIMISTIC_LOCK_FAILED", "Resource was modified by another transaction")
	ErrInsufficientStock = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrEmptyCart         = NewDomainError("EMPTY_CART", "Cart is empty")
	ErrAuthentication    = NewDomainError("AUTHENTICATION_ERROR", "Authentication failed")
	ErrExternalService   = NewDomainError("EXTERNAL_SERVICE", "External service call failed")
)
