package domain

import (
	"errors"
	"strings"
)

var (
	// Account errors
	ErrAccountNotFound  = errors.New("account not found")
	ErrAccountInactive  = errors.New("account is inactive")
	ErrAccountCodeTaken = errors.New("account code already exists")

	// Payment errors
	ErrPaymentNotFound        = errors.New("payment not found")
	ErrPaymentAlreadyPaid     = errors.New("payment already paid")
	ErrPaymentVoided          = errors.New("payment is voided")
	ErrPaymentPayerMissing    = errors.New("payment has no payer account")
	ErrPayerAccountNotFound   = errors.New("payer account not found")
	ErrCurrencyMismatch       = errors.New("payment currency does not match payer account")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrPaymentWithoutLineItem = errors.New("payment must have at least one item")
)

// ErrorKind classifies errors into the categories exposed to callers.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindInvalidState      ErrorKind = "INVALID_STATE"
	KindConflict          ErrorKind = "CONFLICT"
	KindInsufficientFunds ErrorKind = "INSUFFICIENT_FUNDS"
	KindValidation        ErrorKind = "VALIDATION_ERROR"
	KindUnexpected        ErrorKind = "UNEXPECTED"
)

// KindOf returns the kind of err. Unknown errors are KindUnexpected.
func KindOf(err error) ErrorKind {
	var verr *ValidationError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return KindValidation
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrPaymentNotFound):
		return KindNotFound
	case errors.Is(err, ErrAccountInactive),
		errors.Is(err, ErrPaymentPayerMissing),
		errors.Is(err, ErrPayerAccountNotFound),
		errors.Is(err, ErrPaymentVoided),
		errors.Is(err, ErrCurrencyMismatch):
		return KindInvalidState
	case errors.Is(err, ErrPaymentAlreadyPaid), errors.Is(err, ErrAccountCodeTaken):
		return KindConflict
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidAccountName),
		errors.Is(err, ErrInvalidAccountCode),
		errors.Is(err, ErrInvalidCurrency),
		errors.Is(err, ErrAmountTooLarge),
		errors.Is(err, ErrAmountPrecision),
		errors.Is(err, ErrPaymentWithoutLineItem):
		return KindValidation
	default:
		return KindUnexpected
	}
}

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports malformed input with per-field detail.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field error.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns nil when no field errors were collected.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
