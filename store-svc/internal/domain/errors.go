package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// ValidationError is reported to the caller as is and never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError means the order left the expected status before the write landed.
type ConflictError struct {
	OrderID  string
	Expected Status
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("order %s is no longer %s", e.OrderID, e.Expected)
}

// DuplicateOrderError is returned by Create when the order id is already stored.
type DuplicateOrderError struct {
	OrderID string
}

func (e *DuplicateOrderError) Error() string {
	return fmt.Sprintf("order %s already exists", e.OrderID)
}

type InsufficientFundsError struct {
	Balance  decimal.Decimal
	Required decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return "insufficient balance"
}

// DependencyError wraps a failed repository or ledger call.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

type TransitionError struct {
	From  Status
	Event Event
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition: cannot %s an order in status %s", e.Event, e.From)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsDuplicateOrder(err error) bool {
	var target *DuplicateOrderError
	return errors.As(err, &target)
}

func IsInsufficientFunds(err error) bool {
	var target *InsufficientFundsError
	return errors.As(err, &target)
}

func IsDependency(err error) bool {
	var target *DependencyError
	return errors.As(err, &target)
}

func IsTransition(err error) bool {
	var target *TransitionError
	return errors.As(err, &target)
}

// AsDependency wraps err unless it already carries a domain meaning.
func AsDependency(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsValidation(err) || IsConflict(err) || IsDuplicateOrder(err) || IsInsufficientFunds(err) ||
		IsTransition(err) || IsDependency(err) || errors.Is(err, ErrNotFound) {
		return err
	}
	return &DependencyError{Op: op, Err: err}
}
