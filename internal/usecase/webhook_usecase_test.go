package usecase

import (
	"context"
	"errors"
	"testing"

	"vidaqr/internal/domain/entities"
	"vidaqr/internal/usecase/interfaces"
	mock_interfaces "vidaqr/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

type webhookMocks struct {
	paymentRepo *mock_interfaces.MockIPaymentRepository
	profileRepo *mock_interfaces.MockIProfileRepository
	subRepo     *mock_interfaces.MockISubscriptionRepository
	gateway     *mock_interfaces.MockIPaymentGateway
	qrService   *mock_interfaces.MockIQRCodeService
}

func newWebhookUseCaseForTest(t *testing.T) (*WebhookUseCase, webhookMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := webhookMocks{
		paymentRepo: mock_interfaces.NewMockIPaymentRepository(ctrl),
		profileRepo: mock_interfaces.NewMockIProfileRepository(ctrl),
		subRepo:     mock_interfaces.NewMockISubscriptionRepository(ctrl),
		gateway:     mock_interfaces.NewMockIPaymentGateway(ctrl),
		qrService:   mock_interfaces.NewMockIQRCodeService(ctrl),
	}
	uc := NewWebhookUseCase(m.paymentRepo, m.profileRepo, m.subRepo, m.gateway, m.qrService)
	return uc, m
}

func testPayloadJSON(t *testing.T, plan entities.SubscriptionPlan) string {
	t.Helper()
	profile := entities.NewMedicalProfile("Ana Souza", "123.456.789-00", "+55 11 91234-5678", "O-", "Carlos Souza", "+55 11 99876-5432", "alergia a penicilina", plan)
	raw, err := entities.NewProfilePayload(profile).Encode()
	if err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	return raw
}

func pendingPayment(t *testing.T, externalID string) entities.Payment {
	t.Helper()
	payload := testPayloadJSON(t, entities.PlanPremium)
	p, err := entities.NewPayment("prof-1", entities.PlanPremiumPrice, entities.PaymentMethodPix, map[string]any{
		entities.MetadataKeyProfilePayload: payload,
		entities.MetadataKeyProfileID:      "prof-1",
	})
	if err != nil {
		t.Fatalf("new payment: %v", err)
	}
	if err := p.AttachProviderData(externalID, "qr", "qr64", "https://mp/ticket"); err != nil {
		t.Fatalf("attach provider data: %v", err)
	}
	return p
}

func TestWebhookUseCase_ProcessEvent_EventFiltering(t *testing.T) {
	t.Run("non-payment type is ignored without any reads", func(t *testing.T) {
		uc, _ := newWebhookUseCaseForTest(t)
		res, err := uc.ProcessEvent(context.Background(), WebhookEvent{Type: "merchant_order", DataID: "mp-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Ignored {
			t.Fatalf("expected ignored, got %+v", res)
		}
	})

	t.Run("missing data id", func(t *testing.T) {
		uc, _ := newWebhookUseCaseForTest(t)
		_, err := uc.ProcessEvent(context.Background(), WebhookEvent{Type: "payment", DataID: "  "})
		if !errors.Is(err, ErrInvalidWebhookEvent) {
			t.Fatalf("expected ErrInvalidWebhookEvent, got %v", err)
		}
	})

	t.Run("provider fetch failure propagates", func(t *testing.T) {
		uc, m := newWebhookUseCaseForTest(t)
		m.gateway.EXPECT().GetPaymentByID(gomock.Any(), "mp-1").Return(interfaces.ProviderPayment{}, interfaces.ErrProviderPaymentNotFound)

		_, err := uc.ProcessEvent(context.Background(), WebhookEvent{Type: "payment", DataID: "mp-1"})
		if !errors.Is(err, interfaces.ErrProviderPaymentNotFound) {
			t.Fatalf("expected ErrProviderPaymentNotFound, got %v", err)
		}
	})
}

func TestWebhookUseCase_ProcessEvent_UnknownExternalID(t *testing.T) {
	t.Run("pending status never creates anything", func(t *testing.T) {
		uc, m := newWebhookUseCaseForTest(t)
		m.gateway.EXPECT().GetPaymentByID(gomock.Any(), "mp-1").Return(interfaces.ProviderPayment{ID: "mp-1", Status: "pending"}, nil)
		m.paymentRepo.EXPECT().FindByExternalID(gomock.Any(), "mp-1").Return(entities.Payment{}, nil)

		res, err := uc.ProcessEvent(context.Background(), WebhookEvent{Type: "payment", DataID: "mp-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Ignored || res.Detail != "ignored - not yet approved" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("rejected status never creates anything", func(t *testing.T) {
		uc, m := newWebhookUseCaseForTest(t)
		m.gateway.EXPECT().GetPaymentByID(gomock.Any(), "mp-1").Return(interfaces.ProviderPayment{ID: "mp-1", Status: "rejected"}, nil)
		m.paymentRepo.EXPECT().FindByExternalID(gomock.Any(), "mp-1").Return(entities.Payment{}, nil)

		res, err := uc.ProcessEvent(context.Background(), WebhookEvent{Type: "payment", DataID: "mp-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Ignored {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("approved with embedded payload materializes exactly one profile and payment", func(t *testing.T) {
		uc, m := newWebhookUseCaseForTest(t)
		payload := testPayloadJSON(t, entities.PlanPremium)
		provider := interfaces.ProviderPayment{
			ID: "mp-1", Status: "approved", StatusDetail: "accredited",
			AmountCents: entities.PlanPremiumPrice, PaymentMethodID: "pix",
			Metadata: map[string]any{entities.MetadataKeyProfilePayload: payload},
		}
		m.gateway.EXPECT().GetPaymentByID(gomock.Any(), "mp-1").Return(provider, nil)
		m.paymentRepo.EXPECT().FindByExternalID(gomock.Any(), "mp-1").Return(entities.Payment{}, nil)

		var createdProfile entities.MedicalProfile
		m.profileRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.MedicalProfile) (entities.MedicalProfile, error) {
				createdProfile = p
				return p, nil
			})
		m.paymentRepo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) {
				if p.ExternalID != "mp-1" || p.Status != entities.PaymentStatusApproved {
					t.Fatalf("unexpected saved payment: %+v", p)
				}
				return p, nil
			})
		m.subRepo.EXPECT().GetByProfileID(gomock.Any(), gomock.Any()).Return(nil, nil)
		m.subRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, s entities.Subscription) (entities.Subscription, error) {
				if s.Plan != entities.PlanPremium {
					t.Fatalf("unexpected subscription plan %s", s.Plan)
				}
				return s, nil
			})
		m.qrService.EXPECT().GenerateQRCode(gomock.Any(), gomock.Any()).Return("https://vidaqr/e/p1", nil)
		m.profileRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.MedicalProfile) (entities.MedicalProfile, error) {
				if !p.Active || p.QRCodeURL != "https://vidaqr/e/p1" {
					t.Fatalf("profile not activated with QR: %+v", p)
				}
				return p, nil
			})

		res, err := uc.ProcessEvent(context.Background(), WebhookEvent{Type: "payment", DataID: "mp-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.ProfileCreated || !res.QRCodeIssued || res.Status != entities.PaymentStatusApproved {
			t.Fatalf("unexpected result: %+v", res)
		}
		if createdProfile.Name != "Ana Souza" || createdProfile.Plan != entities.PlanPremium {
			t.Fatalf("unexpected materialized profile: %+v", createdProfile)
		}
	})

	t.Run("retry after losing the profile write adopts the stored profile", func(t *testing.T) {
		uc, m := newWebhookUseCaseForTest(t)
		payload := testPayloadJSON(t, entities.PlanPremium)
		provider := interfaces.ProviderPayment{
			ID: "mp-1", Status: "approved", StatusDetail: "accredited",
			AmountCents: entities.PlanPremiumPrice, PaymentMethodID: "pix",
			Metadata: map[string]any{
				entities.MetadataKeyProfilePayload: payload,
				entities.MetadataKeyProfileID:      "prof-1",
			},
		}
		// A previous delivery persisted the profile and then died before the
		// payment row; the retry must not fail on the duplicate id.
		stored := entities.NewMedicalProfile("Ana Souza", "123.456.789-00", "+55 11 91234-5678", "O-", "Carlos Souza", "+55 11 99876-5432", "alergia a penicilina", entities.PlanPremium)
		stored.ID = "prof-1"

		m.gateway.EXPECT().GetPaymentByID(gomock.Any(), "mp-1").Return(provider, nil)
		m.paymentRepo.EXPECT().FindByExternalID(gomock.Any(), "mp-1").Return(entities.Payment{}, nil)
		m.profileRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.MedicalProfile{}, interfaces.ErrProfileAlreadyExists)
		m.profileRepo.EXPECT().GetByID(gomock.Any(), "prof-1").Return(stored, nil)
		m.paymentRepo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) {
				if p.ProfileID != "prof-1" || p.Status != entities.PaymentStatusApproved {
					t.Fatalf("unexpected saved payment: %+v", p)
				}
				return p, nil
			})
		m.subRepo.EXPECT().GetByProfileID(gomock.Any(), "prof-1").Return(nil, nil)
		m.subRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, s entities.Subscription) (entities.Subscription, error) { return s, nil })
		m.qrService.EXPECT().GenerateQRCode(gomock.Any(), "prof-1").Return("https://vidaqr/e/prof-1", nil)
		m.profileRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.MedicalProfile) (entities.MedicalProfile, error) { return p, nil })

		res, err := uc.ProcessEvent(context.Background(), WebhookEvent{Type: "payment", DataID: "mp-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.ProfileCreated {
			t.Fatalf("adopted profile must not count as created: %+v", res)
		}
		if !res.QRCodeIssued || res.Status != entities.PaymentStatusApproved {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("approved without payload or profile id is permanent failure", func(t *testing.T) {
		uc, m := newWebhookUseCaseForTest(t)
		provider := interfaces.ProviderPayment{ID: "mp-1", Status: "approved", AmountCents: entities.PlanBasicPrice, PaymentMethodID: "pix"}
		m.gateway.EXPECT().GetPaymentByID(gomock.Any(), "mp-1").Return(provider, nil)
		m.paymentRepo.EXPECT().FindByExternalID(gomock.Any(), "mp-1").Return(entities.Payment{}, nil)

		_, err := uc.ProcessEvent(context.Background(), WebhookEvent{Type: "payment", DataID: "mp-1"})
		if !errors.Is(err, ErrProfileInfoMissing) {
			t.Fatalf("expected ErrProfileInfoMissing, got %v", err)
		}
	})

	t.Run("approved with unsupported payload version is rejected", func(t *testing.T) {
		uc, m := newWebhookUseCaseForTest(t)
		provider := interfaces.ProviderPayment{
			ID: "mp-1", Status: "approved", AmountCents: entities.PlanBasicPrice, PaymentMethodID: "pix",
			Metadata: map[string]any{entities.MetadataKeyProfilePayload: `{"version":99,"name":"Ana","plan":"basic"}`},
		}
		m.gateway.EXPECT().GetPaymentByID(gomock.Any(), "mp-1").Return(provider, nil)
		m.paymentRepo.EXPECT().FindByExternalID(gomock.Any(), "mp-1").Return(entities.Payment{}, nil)

		_, err := uc.ProcessEvent(context.Background(), WebhookEvent{Type: "payment", DataID: "mp-1"})
		if !errors.Is(err, entities.ErrUnsupportedPayloadVersion) {
			t.Fatalf("expected ErrUnsupportedPayloadVersion, got %v", err)
		}
	})
}

func TestWebhookUseCase_ProcessEvent_KnownPayment(t *testing.T) {
	t.Run("redelivery with completed cascade reads but never writes", func(t *testing.T) {
		uc, m := newWebhookUseCaseForTest(t)
		local := pendingPayment(t, "mp-1")
		_ = local.UpdateStatus(entities.PaymentStatusApproved, "")

		active := entities.NewMedicalProfile("Ana Souza", "123", "+55", "O-", "Carlos", "+55", "", entities.PlanPremium)
		active.ID = "prof-1"
		_ = active.UpdatePaymentStatus(entities.PaymentStatusApproved)
		_ = active.SetQRCodeURL("https://vidaqr/e/prof-1")

		m.gateway.EXPECT().GetPaymentByID(gomock.Any(), "mp-1").Return(interfaces.ProviderPayment{ID: "mp-1", Status: "approved"}, nil)
		m.paymentRepo.EXPECT().FindByExternalID(gomock.Any(), "mp-1").Return(local, nil)
		m.profileRepo.EXPECT().GetByID(gomock.Any(), "prof-1").Return(active, nil)
		m.subRepo.EXPECT().GetByProfileID(gomock.Any(), "prof-1").Return([]entities.Subscription{{ProfileID: "prof-1", PaymentID: local.ID}}, nil)

		res, err := uc.ProcessEvent(context.Background(), WebhookEvent{Type: "payment", DataID: "mp-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Unchanged || res.Detail != "status unchanged" {
			t.Fatalf("unexpected result: %+v", res)
		}
		if res.ProfileCreated {
			t.Fatalf("redelivery must not re-create the profile: %+v", res)
		}
	})

	t.Run("redelivery finishes the cascade the first delivery left behind", func(t *testing.T) {
		uc, m := newWebhookUseCaseForTest(t)
		local := pendingPayment(t, "mp-1")
		_ = local.UpdateStatus(entities.PaymentStatusApproved, "")

		m.gateway.EXPECT().GetPaymentByID(gomock.Any(), "mp-1").Return(interfaces.ProviderPayment{ID: "mp-1", Status: "approved"}, nil)
		m.paymentRepo.EXPECT().FindByExternalID(gomock.Any(), "mp-1").Return(local, nil)
		// The payment row committed but the first delivery died before the
		// profile did.
		m.profileRepo.EXPECT().GetByID(gomock.Any(), "prof-1").Return(entities.MedicalProfile{}, nil)
		m.profileRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.MedicalProfile) (entities.MedicalProfile, error) {
				if p.ID != "prof-1" {
					t.Fatalf("materialized profile must keep the checkout id, got %s", p.ID)
				}
				return p, nil
			})
		m.subRepo.EXPECT().GetByProfileID(gomock.Any(), "prof-1").Return(nil, nil)
		m.subRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, s entities.Subscription) (entities.Subscription, error) {
				if s.PaymentID != local.ID {
					t.Fatalf("subscription must reference the payment, got %s", s.PaymentID)
				}
				return s, nil
			})
		m.qrService.EXPECT().GenerateQRCode(gomock.Any(), "prof-1").Return("https://vidaqr/e/prof-1", nil)
		m.profileRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.MedicalProfile) (entities.MedicalProfile, error) { return p, nil })

		res, err := uc.ProcessEvent(context.Background(), WebhookEvent{Type: "payment", DataID: "mp-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Unchanged || !res.ProfileCreated || !res.QRCodeIssued {
			t.Fatalf("redelivery must complete the cascade: %+v", res)
		}
	})

	t.Run("stale pending after approved surfaces invalid transition", func(t *testing.T) {
		uc, m := newWebhookUseCaseForTest(t)
		local := pendingPayment(t, "mp-1")
		_ = local.UpdateStatus(entities.PaymentStatusApproved, "")

		m.gateway.EXPECT().GetPaymentByID(gomock.Any(), "mp-1").Return(interfaces.ProviderPayment{ID: "mp-1", Status: "in_process"}, nil)
		m.paymentRepo.EXPECT().FindByExternalID(gomock.Any(), "mp-1").Return(local, nil)

		_, err := uc.ProcessEvent(context.Background(), WebhookEvent{Type: "payment", DataID: "mp-1"})
		if !entities.IsInvalidTransition(err) {
			t.Fatalf("expected InvalidTransitionError, got %v", err)
		}
	})

	t.Run("approval materializes deferred profile from payment metadata", func(t *testing.T) {
		uc, m := newWebhookUseCaseForTest(t)
		local := pendingPayment(t, "mp-1")

		m.gateway.EXPECT().GetPaymentByID(gomock.Any(), "mp-1").Return(interfaces.ProviderPayment{ID: "mp-1", Status: "approved", StatusDetail: "accredited"}, nil)
		m.paymentRepo.EXPECT().FindByExternalID(gomock.Any(), "mp-1").Return(local, nil)
		m.paymentRepo.EXPECT().Update(gomock.Any(), gomock.Any(), entities.PaymentStatusPending).DoAndReturn(
			func(_ context.Context, p entities.Payment, _ entities.PaymentStatus) (entities.Payment, error) {
				if p.Status != entities.PaymentStatusApproved {
					t.Fatalf("expected approved update, got %s", p.Status)
				}
				return p, nil
			})
		// Profile was never persisted in the deferred flow.
		m.profileRepo.EXPECT().GetByID(gomock.Any(), "prof-1").Return(entities.MedicalProfile{}, nil)
		m.profileRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.MedicalProfile) (entities.MedicalProfile, error) {
				if p.ID != "prof-1" {
					t.Fatalf("materialized profile must keep the checkout id, got %s", p.ID)
				}
				return p, nil
			})
		m.subRepo.EXPECT().GetByProfileID(gomock.Any(), "prof-1").Return(nil, nil)
		m.subRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, s entities.Subscription) (entities.Subscription, error) { return s, nil })
		m.qrService.EXPECT().GenerateQRCode(gomock.Any(), "prof-1").Return("https://vidaqr/e/prof-1", nil)
		m.profileRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.MedicalProfile) (entities.MedicalProfile, error) { return p, nil })

		res, err := uc.ProcessEvent(context.Background(), WebhookEvent{Type: "payment", DataID: "mp-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.ProfileCreated || !res.QRCodeIssued {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("qr failure is partial success, never a rollback", func(t *testing.T) {
		uc, m := newWebhookUseCaseForTest(t)
		local := pendingPayment(t, "mp-1")
		existing := entities.NewMedicalProfile("Ana Souza", "123", "+55", "O-", "Carlos", "+55", "", entities.PlanPremium)
		existing.ID = "prof-1"

		m.gateway.EXPECT().GetPaymentByID(gomock.Any(), "mp-1").Return(interfaces.ProviderPayment{ID: "mp-1", Status: "approved"}, nil)
		m.paymentRepo.EXPECT().FindByExternalID(gomock.Any(), "mp-1").Return(local, nil)
		m.paymentRepo.EXPECT().Update(gomock.Any(), gomock.Any(), entities.PaymentStatusPending).DoAndReturn(
			func(_ context.Context, p entities.Payment, _ entities.PaymentStatus) (entities.Payment, error) { return p, nil })
		m.profileRepo.EXPECT().GetByID(gomock.Any(), "prof-1").Return(existing, nil)
		m.subRepo.EXPECT().GetByProfileID(gomock.Any(), "prof-1").Return([]entities.Subscription{{ProfileID: "prof-1", PaymentID: local.ID}}, nil)
		m.qrService.EXPECT().GenerateQRCode(gomock.Any(), "prof-1").Return("", interfaces.ErrQRGenerationFailed)
		m.profileRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.MedicalProfile) (entities.MedicalProfile, error) {
				if !p.Active || p.QRCodeURL != "" {
					t.Fatalf("profile must be active without QR: %+v", p)
				}
				return p, nil
			})

		res, err := uc.ProcessEvent(context.Background(), WebhookEvent{Type: "payment", DataID: "mp-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.QRCodeIssued {
			t.Fatalf("expected QR issuance reported as failed: %+v", res)
		}
		if res.Status != entities.PaymentStatusApproved {
			t.Fatalf("payment transition must be committed: %+v", res)
		}
	})

	t.Run("optimistic conflict re-runs the idempotency check", func(t *testing.T) {
		uc, m := newWebhookUseCaseForTest(t)
		local := pendingPayment(t, "mp-1")

		m.gateway.EXPECT().GetPaymentByID(gomock.Any(), "mp-1").Return(interfaces.ProviderPayment{ID: "mp-1", Status: "approved"}, nil)
		m.paymentRepo.EXPECT().FindByExternalID(gomock.Any(), "mp-1").Return(local, nil)
		m.paymentRepo.EXPECT().Update(gomock.Any(), gomock.Any(), entities.PaymentStatusPending).Return(entities.Payment{}, interfaces.ErrPaymentConflict)

		winner := local
		_ = winner.UpdateStatus(entities.PaymentStatusApproved, "")
		m.paymentRepo.EXPECT().FindByID(gomock.Any(), local.ID).Return(winner, nil)

		res, err := uc.ProcessEvent(context.Background(), WebhookEvent{Type: "payment", DataID: "mp-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Unchanged {
			t.Fatalf("expected unchanged after losing the race: %+v", res)
		}
	})

	t.Run("conflict with diverged state surfaces for provider retry", func(t *testing.T) {
		uc, m := newWebhookUseCaseForTest(t)
		local := pendingPayment(t, "mp-1")

		m.gateway.EXPECT().GetPaymentByID(gomock.Any(), "mp-1").Return(interfaces.ProviderPayment{ID: "mp-1", Status: "approved"}, nil)
		m.paymentRepo.EXPECT().FindByExternalID(gomock.Any(), "mp-1").Return(local, nil)
		m.paymentRepo.EXPECT().Update(gomock.Any(), gomock.Any(), entities.PaymentStatusPending).Return(entities.Payment{}, interfaces.ErrPaymentConflict)

		winner := local
		_ = winner.UpdateStatus(entities.PaymentStatusRejected, "expired")
		m.paymentRepo.EXPECT().FindByID(gomock.Any(), local.ID).Return(winner, nil)

		_, err := uc.ProcessEvent(context.Background(), WebhookEvent{Type: "payment", DataID: "mp-1"})
		if !errors.Is(err, interfaces.ErrPaymentConflict) {
			t.Fatalf("expected ErrPaymentConflict, got %v", err)
		}
	})

	t.Run("refund deactivates the profile", func(t *testing.T) {
		uc, m := newWebhookUseCaseForTest(t)
		local := pendingPayment(t, "mp-1")
		_ = local.UpdateStatus(entities.PaymentStatusApproved, "")
		profile := entities.NewMedicalProfile("Ana Souza", "123", "+55", "O-", "Carlos", "+55", "", entities.PlanPremium)
		profile.ID = "prof-1"
		_ = profile.UpdatePaymentStatus(entities.PaymentStatusApproved)

		m.gateway.EXPECT().GetPaymentByID(gomock.Any(), "mp-1").Return(interfaces.ProviderPayment{ID: "mp-1", Status: "refunded"}, nil)
		m.paymentRepo.EXPECT().FindByExternalID(gomock.Any(), "mp-1").Return(local, nil)
		m.paymentRepo.EXPECT().Update(gomock.Any(), gomock.Any(), entities.PaymentStatusApproved).DoAndReturn(
			func(_ context.Context, p entities.Payment, _ entities.PaymentStatus) (entities.Payment, error) { return p, nil })
		m.profileRepo.EXPECT().GetByID(gomock.Any(), "prof-1").Return(profile, nil)
		m.profileRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.MedicalProfile) (entities.MedicalProfile, error) {
				if p.Active || p.PaymentStatus != entities.PaymentStatusRefunded {
					t.Fatalf("expected deactivated refunded profile: %+v", p)
				}
				return p, nil
			})

		res, err := uc.ProcessEvent(context.Background(), WebhookEvent{Type: "payment", DataID: "mp-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Status != entities.PaymentStatusRefunded {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("unrecognized provider status maps to pending without error", func(t *testing.T) {
		uc, m := newWebhookUseCaseForTest(t)
		local := pendingPayment(t, "mp-1")

		m.gateway.EXPECT().GetPaymentByID(gomock.Any(), "mp-1").Return(interfaces.ProviderPayment{ID: "mp-1", Status: "some_new_status"}, nil)
		m.paymentRepo.EXPECT().FindByExternalID(gomock.Any(), "mp-1").Return(local, nil)

		res, err := uc.ProcessEvent(context.Background(), WebhookEvent{Type: "payment", DataID: "mp-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Unchanged || res.Status != entities.PaymentStatusPending {
			t.Fatalf("unexpected result: %+v", res)
		}
	})
}
