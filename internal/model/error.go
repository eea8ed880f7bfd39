package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Details       string `json:"details,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeInvalidEmail       = "INVALID_EMAIL"
	ErrCodeStoreNotConfigured = "STORE_NOT_CONFIGURED"
	ErrCodeAlreadySubscribed  = "ALREADY_SUBSCRIBED"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

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

// Common domain errors. Messages are shown to the caller verbatim.
var (
	ErrInvalidJSON          = NewDomainError(ErrCodeInvalidJSON, "Invalid JSON payload.")
	ErrEmailRequired        = NewDomainError(ErrCodeMissingField, "Email is required.")
	ErrInvalidEmail         = NewDomainError(ErrCodeInvalidEmail, "Please provide a valid email.")
	ErrMissingInquiryFields = NewDomainError(ErrCodeMissingField, "Missing required inquiry fields.")
	ErrStoreNotConfigured   = NewDomainError(ErrCodeStoreNotConfigured, "Database credentials are not configured.")
	ErrAlreadySubscribed    = NewDomainError(ErrCodeAlreadySubscribed, "Email is already subscribed.")
	ErrProductNotFound      = NewDomainError(ErrCodeProductNotFound, "Product not found.")
)

// APIError is a non-2xx response received from the storefront API.
type APIError struct {
	Status  int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned status %d", e.Status)
	}
	return fmt.Sprintf("api returned status %d: %s", e.Status, e.Message)
}
