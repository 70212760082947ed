package response

import (
	"testing"

	"vidaqr/internal/domain/entities"
	"vidaqr/internal/usecase"
)

func TestFromProfileView(t *testing.T) {
	profile := entities.NewMedicalProfile("Ana Souza", "123", "+55", "O-", "Carlos", "+55 11", "alergia a penicilina", entities.PlanPremium)
	if err := profile.UpdatePaymentStatus(entities.PaymentStatusApproved); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sub := entities.NewSubscription(profile.ID, "pay-1", entities.PlanPremium)

	resp := FromProfileView(usecase.ProfileView{
		Profile:       profile,
		Subscriptions: []entities.Subscription{sub},
	})

	if resp.Name != "Ana Souza" || !resp.Active || resp.PaymentStatus != "approved" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.ExpiresAt == nil || !resp.ExpiresAt.Equal(profile.ExpiresAt) {
		t.Fatalf("expected expiry from profile, got %+v", resp.ExpiresAt)
	}
	if len(resp.Subscriptions) != 1 || resp.Subscriptions[0].PaymentID != "pay-1" {
		t.Fatalf("unexpected subscriptions: %+v", resp.Subscriptions)
	}
}

func TestFromProfileView_PendingProfileHasNoExpiry(t *testing.T) {
	profile := entities.NewMedicalProfile("Ana Souza", "123", "+55", "O-", "Carlos", "+55 11", "", entities.PlanBasic)

	resp := FromProfileView(usecase.ProfileView{Profile: profile})

	if resp.Active || resp.ExpiresAt != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
