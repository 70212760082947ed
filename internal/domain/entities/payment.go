package entities

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is the checkout instrument chosen by the payer.

type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodDebitCard  PaymentMethod = "debit_card"
	PaymentMethodPix        PaymentMethod = "pix"
)

// PendingPaymentWindow is how long a pending payment stays payable before the
// expiration sweep cancels it.
const PendingPaymentWindow = 30 * time.Minute

// Metadata keys carried on the payment and forwarded to the provider.
const (
	MetadataKeyProfilePayload = "profile_payload"
	MetadataKeyProfileID      = "profile_id"
	MetadataKeyDeviceID       = "device_id"
)

// Payment is the local record of one checkout attempt.
//
// ExternalID stays empty until the provider responds. ProfileID may reference
// a profile that does not exist yet: in the deferred flow the full profile
// payload travels inside Metadata (MetadataKeyProfilePayload) so the webhook
// path can materialize it without shared memory.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (external_id-index): external_id
//   - GSI2 (status-index): status
type Payment struct {
	ID         string         `json:"id"`
	ExternalID string         `json:"external_id,omitempty"`
	ProfileID  string         `json:"profile_id"`
	Amount     int64          `json:"amount"` // centavos
	Method     PaymentMethod  `json:"method"`
	Status     PaymentStatus  `json:"status"`
	Reason     string         `json:"reason,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`

	PixQRCode       string `json:"pix_qr_code,omitempty"`
	PixQRCodeBase64 string `json:"pix_qr_code_base64,omitempty"`
	PixTicketURL    string `json:"pix_ticket_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPayment creates a pending payment after validating the amount against
// the plan price allow-list.
func NewPayment(profileID string, amount int64, method PaymentMethod, metadata map[string]any) (Payment, error) {
	if !IsPlanPrice(amount) {
		return Payment{}, ErrInvalidAmount
	}
	switch method {
	case PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodPix:
	default:
		return Payment{}, ErrInvalidPaymentMethod
	}

	now := time.Now().UTC()
	return Payment{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		Amount:    amount,
		Method:    method,
		Status:    PaymentStatusPending,
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdateStatus is the only mutator of Status. Illegal moves per the
// transition table fail and leave the payment untouched.
func (p *Payment) UpdateStatus(next PaymentStatus, reason string) error {
	if !p.Status.CanTransitionTo(next) {
		return NewInvalidTransitionError(p.Status, next)
	}
	p.Status = next
	if reason != "" {
		p.Reason = reason
	}
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// AttachProviderData links the provider's payment id and PIX artifacts.
// Calling it again with the same external id is a no-op; a different id is an
// error (a payment never changes provider identity).
func (p *Payment) AttachProviderData(externalID, pixQRCode, pixQRCodeBase64, pixTicketURL string) error {
	if p.ExternalID != "" {
		if p.ExternalID == externalID {
			return nil
		}
		return ErrProviderIDMismatch
	}
	p.ExternalID = externalID
	p.PixQRCode = pixQRCode
	p.PixQRCodeBase64 = pixQRCodeBase64
	p.PixTicketURL = pixTicketURL
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// IsExpired reports whether a still-pending payment outlived the payment
// window and is eligible for cancellation by the sweep.
func (p *Payment) IsExpired(now time.Time) bool {
	if p.Status != PaymentStatusPending {
		return false
	}
	return now.Sub(p.CreatedAt) > PendingPaymentWindow
}

func (p *Payment) TimeUntilExpiration(now time.Time) time.Duration {
	if p.Status != PaymentStatusPending {
		return 0
	}
	remaining := p.CreatedAt.Add(PendingPaymentWindow).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ProfilePayloadJSON returns the embedded serialized profile payload, if any.
func (p *Payment) ProfilePayloadJSON() (string, bool) {
	v, ok := p.Metadata[MetadataKeyProfilePayload]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}
