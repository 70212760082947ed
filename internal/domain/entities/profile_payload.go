package entities

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ProfilePayloadVersion is the current embedded payload schema version.
// Bumping it forces old in-flight payments to fail loudly instead of being
// misparsed.
const ProfilePayloadVersion = 1

var (
	ErrUnsupportedPayloadVersion = errors.New("unsupported profile payload version")
	ErrInvalidProfilePayload     = errors.New("invalid profile payload")
)

// ProfilePayload is the serialized form of a not-yet-persisted profile,
// embedded in the payment metadata so the stateless webhook path can
// materialize it (deferred creation).
type ProfilePayload struct {
	Version               int    `json:"version"`
	Name                  string `json:"name"`
	TaxID                 string `json:"tax_id"`
	Phone                 string `json:"phone"`
	BloodType             string `json:"blood_type"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`
	MedicalNotes          string `json:"medical_notes"`
	Plan                  string `json:"plan"`
}

// NewProfilePayload snapshots an in-memory profile for embedding.
func NewProfilePayload(m MedicalProfile) ProfilePayload {
	return ProfilePayload{
		Version:               ProfilePayloadVersion,
		Name:                  m.Name,
		TaxID:                 m.TaxID,
		Phone:                 m.Phone,
		BloodType:             m.BloodType,
		EmergencyContactName:  m.EmergencyContactName,
		EmergencyContactPhone: m.EmergencyContactPhone,
		MedicalNotes:          m.MedicalNotes,
		Plan:                  string(m.Plan),
	}
}

func (p ProfilePayload) Encode() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseProfilePayload decodes and validates an embedded payload. Unknown
// versions and structurally invalid payloads are hard errors.
func ParseProfilePayload(raw string) (ProfilePayload, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ProfilePayload{}, ErrInvalidProfilePayload
	}

	var p ProfilePayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return ProfilePayload{}, fmt.Errorf("%w: %v", ErrInvalidProfilePayload, err)
	}
	if p.Version != ProfilePayloadVersion {
		return ProfilePayload{}, fmt.Errorf("%w: %d", ErrUnsupportedPayloadVersion, p.Version)
	}
	if strings.TrimSpace(p.Name) == "" {
		return ProfilePayload{}, ErrInvalidProfilePayload
	}
	if _, err := NewSubscriptionPlan(p.Plan); err != nil {
		return ProfilePayload{}, fmt.Errorf("%w: plan %q", ErrInvalidProfilePayload, p.Plan)
	}
	return p, nil
}

// Materialize rebuilds the MedicalProfile carried by the payload.
func (p ProfilePayload) Materialize() MedicalProfile {
	plan, _ := NewSubscriptionPlan(p.Plan)
	return NewMedicalProfile(
		p.Name, p.TaxID, p.Phone, p.BloodType,
		p.EmergencyContactName, p.EmergencyContactPhone,
		p.MedicalNotes, plan,
	)
}
