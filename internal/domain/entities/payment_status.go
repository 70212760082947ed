package entities

import (
	"errors"
	"fmt"
)

// PaymentStatus mirrors the Mercado Pago payment status vocabulary.
//
// Every status change in the system (Payment and MedicalProfile alike) must go
// through CanTransitionTo; there are no ad-hoc equality checks elsewhere.

type PaymentStatus string

const (
	PaymentStatusPending     PaymentStatus = "pending"
	PaymentStatusApproved    PaymentStatus = "approved"
	PaymentStatusAuthorized  PaymentStatus = "authorized"
	PaymentStatusInProcess   PaymentStatus = "in_process"
	PaymentStatusInMediation PaymentStatus = "in_mediation"
	PaymentStatusRejected    PaymentStatus = "rejected"
	PaymentStatusCancelled   PaymentStatus = "cancelled"
	PaymentStatusRefunded    PaymentStatus = "refunded"
	PaymentStatusChargedBack PaymentStatus = "charged_back"
)

var ErrInvalidPaymentStatus = errors.New("invalid payment status")

// paymentStatusTransitions is the directed transition table. Statuses absent
// from a row (or rows absent entirely, the terminal ones) have no outgoing
// edges.
var paymentStatusTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:     {PaymentStatusApproved, PaymentStatusAuthorized, PaymentStatusInProcess, PaymentStatusRejected, PaymentStatusCancelled},
	PaymentStatusAuthorized:  {PaymentStatusApproved, PaymentStatusRejected, PaymentStatusCancelled},
	PaymentStatusInProcess:   {PaymentStatusApproved, PaymentStatusInMediation, PaymentStatusRejected, PaymentStatusCancelled},
	PaymentStatusInMediation: {PaymentStatusApproved, PaymentStatusRejected, PaymentStatusChargedBack},
	PaymentStatusApproved:    {PaymentStatusRefunded, PaymentStatusChargedBack},
}

// NewPaymentStatus parses a raw status string.
func NewPaymentStatus(raw string) (PaymentStatus, error) {
	s := PaymentStatus(raw)
	switch s {
	case PaymentStatusPending, PaymentStatusApproved, PaymentStatusAuthorized,
		PaymentStatusInProcess, PaymentStatusInMediation, PaymentStatusRejected,
		PaymentStatusCancelled, PaymentStatusRefunded, PaymentStatusChargedBack:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, raw)
}

func (s PaymentStatus) String() string {
	return string(s)
}

// IsSuccessful reports whether the payment was collected.
func (s PaymentStatus) IsSuccessful() bool {
	return s == PaymentStatusApproved
}

func (s PaymentStatus) IsPending() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusAuthorized, PaymentStatusInProcess, PaymentStatusInMediation:
		return true
	}
	return false
}

func (s PaymentStatus) IsFailed() bool {
	return s == PaymentStatusRejected || s == PaymentStatusCancelled
}

func (s PaymentStatus) IsRefunded() bool {
	return s == PaymentStatusRefunded || s == PaymentStatusChargedBack
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s PaymentStatus) IsTerminal() bool {
	return len(paymentStatusTransitions[s]) == 0
}

// CanTransitionTo consults the transition table.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
