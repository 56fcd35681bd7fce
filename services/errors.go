package services

import (
	"errors"
	"fmt"
)

// Error kinds. Callers match them with errors.Is; the HTTP layer maps each to a status code.
var (
	// ErrValidation is returned for missing or malformed input, before anything is written.
	ErrValidation = errors.New("validation failed")

	// ErrPermission is returned when the tenant context is missing or its subscription
	// does not allow the operation.
	ErrPermission = errors.New("permission denied")

	// ErrNotFound is returned when the tenant or a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBusinessRule is returned when a write would break a ledger rule, e.g. negative stock.
	ErrBusinessRule = errors.New("business rule violated")
)

// Error carries a kind, the failing operation and a message safe to show to the caller.
type Error struct {
	Kind    error
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func validationError(op, message string, err error) *Error {
	return &Error{Kind: ErrValidation, Op: op, Message: message, Err: err}
}

func permissionError(op, message string) *Error {
	return &Error{Kind: ErrPermission, Op: op, Message: message}
}

func notFoundError(op, message string) *Error {
	return &Error{Kind: ErrNotFound, Op: op, Message: message}
}

// InsufficientStockError aborts a document transaction when a line would drive stock below zero.
type InsufficientStockError struct {
	ProductID uint
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for product ID %d", e.ProductID)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrBusinessRule
}
