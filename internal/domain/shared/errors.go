package shared

import "fmt"

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
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
)

// NewInsufficientStockError creates an insufficient-stock error naming the
// offending product so callers can report which line of a batch failed.
func NewInsufficientStockError(productName string) *DomainError {
	return NewDomainError("INSUFFICIENT_STOCK", fmt.Sprintf("Insufficient stock for %s", productName))
}

// IsInsufficientStock reports whether err carries the insufficient-stock code.
func IsInsufficientStock(err error) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == ErrInsufficientStock.Code
}

// IsNotFound reports whether err carries the not-found code.
func IsNotFound(err error) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == ErrNotFound.Code
}

// IsConcurrencyConflict reports whether err carries the conflict code.
func IsConcurrencyConflict(err error) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == ErrConcurrencyConflict.Code
}
