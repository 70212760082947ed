package request

import "vidaqr/internal/usecase"

// CheckoutRequest is the payload for the checkout route. The profile fields
// travel with the payment and are only persisted after the provider confirms
// the charge.

type CheckoutRequest struct {
	Name                  string `json:"name"`
	TaxID                 string `json:"tax_id"`
	Phone                 string `json:"phone"`
	BloodType             string `json:"blood_type"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`
	MedicalNotes          string `json:"medical_notes"`

	Plan          string `json:"plan"`
	PaymentMethod string `json:"payment_method"`
	CardToken     string `json:"card_token,omitempty"`
	Installments  int    `json:"installments,omitempty"`
	PayerEmail    string `json:"payer_email"`
	DeviceID      string `json:"device_id,omitempty"`
}

func (r CheckoutRequest) ToCommand() usecase.CheckoutCommand {
	return usecase.CheckoutCommand{
		Name:                  r.Name,
		TaxID:                 r.TaxID,
		Phone:                 r.Phone,
		BloodType:             r.BloodType,
		EmergencyContactName:  r.EmergencyContactName,
		EmergencyContactPhone: r.EmergencyContactPhone,
		MedicalNotes:          r.MedicalNotes,
		Plan:                  r.Plan,
		PaymentMethod:         r.PaymentMethod,
		CardToken:             r.CardToken,
		Installments:          r.Installments,
		PayerEmail:            r.PayerEmail,
		DeviceID:              r.DeviceID,
	}
}
