package entities

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount        = errors.New("amount does not match any plan price")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrPaymentNotApproved   = errors.New("payment not approved")
	ErrProviderIDMismatch   = errors.New("payment already linked to another provider id")
)

// InvalidTransitionError reports an attempt to move a status outside the
// transition table.
type InvalidTransitionError struct {
	From PaymentStatus
	To   PaymentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

func NewInvalidTransitionError(from, to PaymentStatus) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var ite *InvalidTransitionError
	return errors.As(err, &ite)
}
