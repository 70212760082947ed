package interfaces

import (
	"context"
	"errors"
)

// ErrProviderPaymentNotFound signals the provider has no payment with the
// given id. Permanent; there is no retry benefit.
var ErrProviderPaymentNotFound = errors.New("payment not found at provider")

// CreateProviderPaymentRequest is the provider-agnostic checkout command.
type CreateProviderPaymentRequest struct {
	AmountCents       int64
	Description       string
	PaymentMethodID   string
	CardToken         string
	Installments      int
	PayerEmail        string
	ExternalReference string
	Metadata          map[string]any
}

// ProviderPayment is the provider's canonical view of one payment, already
// decoded into typed fields at the boundary.
type ProviderPayment struct {
	ID              string
	Status          string
	StatusDetail    string
	AmountCents     int64
	PaymentMethodID string
	Metadata        map[string]any

	PixQRCode       string
	PixQRCodeBase64 string
	PixTicketURL    string
}

// IPaymentGateway abstracts the external payment provider (Mercado Pago).
type IPaymentGateway interface {
	CreatePayment(ctx context.Context, req CreateProviderPaymentRequest) (ProviderPayment, error)
	GetPaymentByID(ctx context.Context, externalID string) (ProviderPayment, error)
}
