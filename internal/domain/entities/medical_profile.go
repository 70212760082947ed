package entities

import (
	"time"

	"github.com/google/uuid"
)

// MedicalProfile is the emergency profile exposed to first responders once
// its payment succeeds.
//
// QR eligibility is a guarded transition, not a convention: SetQRCodeURL
// refuses to run unless CanIssueQRCode() holds at call time, so it is safe to
// attempt issuance from both the webhook and the direct-validation paths in
// any order.
//
// Storage model (DynamoDB):
//   - PK: id
type MedicalProfile struct {
	ID                    string           `json:"id"`
	Name                  string           `json:"name"`
	TaxID                 string           `json:"tax_id"`
	Phone                 string           `json:"phone"`
	BloodType             string           `json:"blood_type"`
	EmergencyContactName  string           `json:"emergency_contact_name"`
	EmergencyContactPhone string           `json:"emergency_contact_phone"`
	MedicalNotes          string           `json:"medical_notes"`
	Plan                  SubscriptionPlan `json:"plan"`
	PaymentStatus         PaymentStatus    `json:"payment_status"`
	QRCodeURL             string           `json:"qr_code_url,omitempty"`
	Active                bool             `json:"active"`
	ExpiresAt             time.Time        `json:"expires_at"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

// NewMedicalProfile builds an inactive profile with a pending payment mirror.
// In the deferred checkout flow this object lives only in memory until a
// webhook confirms payment.
func NewMedicalProfile(name, taxID, phone, bloodType, contactName, contactPhone, notes string, plan SubscriptionPlan) MedicalProfile {
	now := time.Now().UTC()
	return MedicalProfile{
		ID:                    uuid.NewString(),
		Name:                  name,
		TaxID:                 taxID,
		Phone:                 phone,
		BloodType:             bloodType,
		EmergencyContactName:  contactName,
		EmergencyContactPhone: contactPhone,
		MedicalNotes:          notes,
		Plan:                  plan,
		PaymentStatus:         PaymentStatusPending,
		Active:                false,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// UpdatePaymentStatus mirrors the payment's status through the same
// transition table. The first successful transition activates the profile and
// stamps its expiry from the plan duration; a refund or chargeback
// deactivates it.
func (m *MedicalProfile) UpdatePaymentStatus(next PaymentStatus) error {
	if !m.PaymentStatus.CanTransitionTo(next) {
		return NewInvalidTransitionError(m.PaymentStatus, next)
	}
	m.PaymentStatus = next
	now := time.Now().UTC()
	if next.IsSuccessful() && !m.Active {
		m.Active = true
		m.ExpiresAt = now.Add(m.Plan.Duration())
	}
	if next.IsRefunded() {
		m.Active = false
	}
	m.UpdatedAt = now
	return nil
}

// CanIssueQRCode gates QR issuance on payment success and activation.
func (m *MedicalProfile) CanIssueQRCode() bool {
	return m.PaymentStatus.IsSuccessful() && m.Active
}

// SetQRCodeURL attaches the public QR URL; fails while the profile is not
// eligible.
func (m *MedicalProfile) SetQRCodeURL(url string) error {
	if !m.CanIssueQRCode() {
		return ErrPaymentNotApproved
	}
	m.QRCodeURL = url
	m.UpdatedAt = time.Now().UTC()
	return nil
}
