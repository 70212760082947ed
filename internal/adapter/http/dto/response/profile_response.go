package response

import (
	"time"

	"vidaqr/internal/domain/entities"
	"vidaqr/internal/usecase"
)

// ProfileResponse is the emergency view returned to whoever scans the QR
// code. It exposes only what a first responder needs.

type ProfileResponse struct {
	ID                    string     `json:"id"`
	Name                  string     `json:"name"`
	BloodType             string     `json:"blood_type,omitempty"`
	EmergencyContactName  string     `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string     `json:"emergency_contact_phone,omitempty"`
	MedicalNotes          string     `json:"medical_notes,omitempty"`
	Plan                  string     `json:"plan"`
	PaymentStatus         string     `json:"payment_status"`
	QRCodeURL             string     `json:"qr_code_url,omitempty"`
	Active                bool       `json:"active"`
	ExpiresAt             *time.Time `json:"expires_at,omitempty"`

	Subscriptions []SubscriptionResponse `json:"subscriptions,omitempty"`
}

type SubscriptionResponse struct {
	ID        string    `json:"id"`
	PaymentID string    `json:"payment_id"`
	Plan      string    `json:"plan"`
	StartsAt  time.Time `json:"starts_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Active    bool      `json:"active"`
}

func FromProfileView(view usecase.ProfileView) ProfileResponse {
	resp := ProfileResponse{
		ID:                    view.Profile.ID,
		Name:                  view.Profile.Name,
		BloodType:             view.Profile.BloodType,
		EmergencyContactName:  view.Profile.EmergencyContactName,
		EmergencyContactPhone: view.Profile.EmergencyContactPhone,
		MedicalNotes:          view.Profile.MedicalNotes,
		Plan:                  string(view.Profile.Plan),
		PaymentStatus:         view.Profile.PaymentStatus.String(),
		QRCodeURL:             view.Profile.QRCodeURL,
		Active:                view.Profile.Active,
	}
	if !view.Profile.ExpiresAt.IsZero() {
		expiresAt := view.Profile.ExpiresAt
		resp.ExpiresAt = &expiresAt
	}
	for _, sub := range view.Subscriptions {
		resp.Subscriptions = append(resp.Subscriptions, fromSubscription(sub))
	}
	return resp
}

func fromSubscription(s entities.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:        s.ID,
		PaymentID: s.PaymentID,
		Plan:      string(s.Plan),
		StartsAt:  s.StartsAt,
		ExpiresAt: s.ExpiresAt,
		Active:    s.Active,
	}
}
