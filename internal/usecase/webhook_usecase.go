package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"vidaqr/internal/domain/entities"
	"vidaqr/internal/usecase/interfaces"
)

var (
	ErrInvalidWebhookEvent = errors.New("invalid webhook event")
	ErrProfileInfoMissing  = errors.New("profile info missing from payment metadata")
)

// WebhookEvent is the already-authenticated provider notification. Signature
// verification happens at the HTTP boundary before this type is built.
type WebhookEvent struct {
	Type   string
	Action string
	DataID string
}

// WebhookResult describes what the reconciliation did, so the handler can
// answer the provider honestly (200 for applied/ignored/unchanged, errors
// otherwise).
type WebhookResult struct {
	PaymentID      string
	ExternalID     string
	Status         entities.PaymentStatus
	Ignored        bool
	Unchanged      bool
	ProfileCreated bool
	QRCodeIssued   bool
	Detail         string
}

// IWebhookUseCase is the reconciliation engine: it re-derives the
// authoritative local state from the provider's canonical view, exactly once
// in effect no matter how often or in which order deliveries arrive.

type IWebhookUseCase interface {
	ProcessEvent(ctx context.Context, event WebhookEvent) (WebhookResult, error)
}

type WebhookUseCase struct {
	paymentRepo      interfaces.IPaymentRepository
	profileRepo      interfaces.IProfileRepository
	subscriptionRepo interfaces.ISubscriptionRepository
	gateway          interfaces.IPaymentGateway
	activator        profileActivator
}

var _ IWebhookUseCase = (*WebhookUseCase)(nil)

func NewWebhookUseCase(
	paymentRepo interfaces.IPaymentRepository,
	profileRepo interfaces.IProfileRepository,
	subscriptionRepo interfaces.ISubscriptionRepository,
	gateway interfaces.IPaymentGateway,
	qrService interfaces.IQRCodeService,
) *WebhookUseCase {
	return &WebhookUseCase{
		paymentRepo:      paymentRepo,
		profileRepo:      profileRepo,
		subscriptionRepo: subscriptionRepo,
		gateway:          gateway,
		activator:        profileActivator{profileRepo: profileRepo, qrService: qrService},
	}
}

func (u *WebhookUseCase) ProcessEvent(ctx context.Context, event WebhookEvent) (WebhookResult, error) {
	if !strings.EqualFold(strings.TrimSpace(event.Type), "payment") {
		log.Printf("[webhook][usecase] ignoring event type=%q action=%q", event.Type, event.Action)
		return WebhookResult{Ignored: true, Detail: "unsupported event type"}, nil
	}
	externalID := strings.TrimSpace(event.DataID)
	if externalID == "" {
		return WebhookResult{}, ErrInvalidWebhookEvent
	}

	log.Printf("[webhook][usecase] reconcile start external_id=%s action=%s", externalID, event.Action)

	// The event body is only a pointer; the provider's API is the canonical
	// view of the payment.
	provider, err := u.gateway.GetPaymentByID(ctx, externalID)
	if err != nil {
		log.Printf("[webhook][usecase] provider fetch failed external_id=%s err=%v", externalID, err)
		return WebhookResult{ExternalID: externalID}, err
	}

	mapped, known := mapProviderStatus(provider.Status)
	if !known {
		log.Printf("[webhook][usecase] unrecognized provider status %q external_id=%s; defaulting to pending", provider.Status, externalID)
	}

	local, err := u.paymentRepo.FindByExternalID(ctx, externalID)
	if err != nil {
		return WebhookResult{ExternalID: externalID}, err
	}

	if local.ID == "" {
		return u.reconcileUnknownPayment(ctx, externalID, provider, mapped)
	}
	return u.reconcileKnownPayment(ctx, local, provider, mapped)
}

// reconcileUnknownPayment handles events for external ids with no local row.
// Only a successful provider status may create anything; everything else is
// acknowledged and dropped so failed card attempts never leave a profile
// behind.
func (u *WebhookUseCase) reconcileUnknownPayment(ctx context.Context, externalID string, provider interfaces.ProviderPayment, mapped entities.PaymentStatus) (WebhookResult, error) {
	if !mapped.IsSuccessful() {
		log.Printf("[webhook][usecase] no local payment external_id=%s provider_status=%s; ignored - not yet approved", externalID, provider.Status)
		return WebhookResult{ExternalID: externalID, Status: mapped, Ignored: true, Detail: "ignored - not yet approved"}, nil
	}

	profile, created, err := u.resolveProfileFromMetadata(ctx, provider.Metadata)
	if err != nil {
		return WebhookResult{ExternalID: externalID}, err
	}

	payment, err := entities.NewPayment(profile.ID, provider.AmountCents, methodFromProviderID(provider.PaymentMethodID), copyMetadata(provider.Metadata))
	if err != nil {
		return WebhookResult{ExternalID: externalID}, err
	}
	if err := payment.AttachProviderData(externalID, provider.PixQRCode, provider.PixQRCodeBase64, provider.PixTicketURL); err != nil {
		return WebhookResult{ExternalID: externalID}, err
	}
	if err := payment.UpdateStatus(mapped, provider.StatusDetail); err != nil {
		return WebhookResult{ExternalID: externalID}, err
	}
	if _, err := u.paymentRepo.Save(ctx, payment); err != nil {
		return WebhookResult{ExternalID: externalID}, err
	}

	if _, err := u.ensureSubscription(ctx, profile, payment.ID); err != nil {
		return WebhookResult{ExternalID: externalID}, err
	}

	_, qrIssued, err := u.activator.activate(ctx, profile)
	if err != nil {
		return WebhookResult{ExternalID: externalID}, err
	}

	log.Printf("[webhook][usecase] deferred materialization done external_id=%s payment_id=%s profile_id=%s qr_issued=%v", externalID, payment.ID, profile.ID, qrIssued)
	return WebhookResult{
		PaymentID:      payment.ID,
		ExternalID:     externalID,
		Status:         mapped,
		ProfileCreated: created,
		QRCodeIssued:   qrIssued,
		Detail:         "payment materialized",
	}, nil
}

func (u *WebhookUseCase) reconcileKnownPayment(ctx context.Context, local entities.Payment, provider interfaces.ProviderPayment, mapped entities.PaymentStatus) (WebhookResult, error) {
	// Redelivery safety: the target state was already applied. The payment row
	// commits before the profile cascade, so an earlier delivery may have died
	// between the two; re-run the cascade here (every step is idempotent) so
	// a retry completes it instead of acknowledging a half-applied success.
	if local.Status == mapped {
		result := WebhookResult{PaymentID: local.ID, ExternalID: local.ExternalID, Status: mapped, Unchanged: true, Detail: "status unchanged"}
		switch {
		case mapped.IsSuccessful():
			created, qrIssued, err := u.completeSuccessCascade(ctx, local)
			if err != nil {
				return result, err
			}
			result.ProfileCreated = created
			result.QRCodeIssued = qrIssued
		case mapped.IsRefunded():
			if err := u.mirrorRefund(ctx, local.ProfileID, mapped); err != nil {
				return result, err
			}
		}
		log.Printf("[webhook][usecase] status unchanged payment_id=%s status=%s profile_created=%v", local.ID, mapped, result.ProfileCreated)
		return result, nil
	}

	previous := local.Status
	if err := local.UpdateStatus(mapped, provider.StatusDetail); err != nil {
		// A provider anomaly (e.g. a terminal payment moving backward) must
		// surface, not be mistaken for valid history.
		log.Printf("[webhook][usecase] illegal transition payment_id=%s %s -> %s", local.ID, previous, mapped)
		return WebhookResult{PaymentID: local.ID, ExternalID: local.ExternalID, Status: previous}, err
	}

	if _, err := u.paymentRepo.Update(ctx, local, previous); err != nil {
		if errors.Is(err, interfaces.ErrPaymentConflict) {
			return u.resolveUpdateConflict(ctx, local.ID, mapped, err)
		}
		return WebhookResult{PaymentID: local.ID, ExternalID: local.ExternalID}, err
	}

	result := WebhookResult{PaymentID: local.ID, ExternalID: local.ExternalID, Status: mapped, Detail: "status updated"}

	if mapped.IsSuccessful() {
		created, qrIssued, err := u.completeSuccessCascade(ctx, local)
		if err != nil {
			return result, err
		}
		result.ProfileCreated = created
		result.QRCodeIssued = qrIssued
	}

	if mapped.IsRefunded() {
		if err := u.mirrorRefund(ctx, local.ProfileID, mapped); err != nil {
			return result, err
		}
	}

	log.Printf("[webhook][usecase] reconcile done payment_id=%s status=%s profile_created=%v qr_issued=%v", local.ID, mapped, result.ProfileCreated, result.QRCodeIssued)
	return result, nil
}

// resolveUpdateConflict re-runs the idempotency check after losing an
// optimistic write race. If the winner applied the same target status the
// delivery is a duplicate; otherwise the provider must retry.
func (u *WebhookUseCase) resolveUpdateConflict(ctx context.Context, paymentID string, mapped entities.PaymentStatus, conflictErr error) (WebhookResult, error) {
	refreshed, err := u.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return WebhookResult{PaymentID: paymentID}, err
	}
	if refreshed.ID != "" && refreshed.Status == mapped {
		log.Printf("[webhook][usecase] lost update race but target applied payment_id=%s status=%s", paymentID, mapped)
		return WebhookResult{PaymentID: paymentID, ExternalID: refreshed.ExternalID, Status: mapped, Unchanged: true, Detail: "status unchanged"}, nil
	}
	return WebhookResult{PaymentID: paymentID}, conflictErr
}

// completeSuccessCascade brings profile, subscription and QR code in line
// with an already-persisted successful payment. Every step tolerates having
// run before, so redeliveries can finish what a failed delivery started.
func (u *WebhookUseCase) completeSuccessCascade(ctx context.Context, payment entities.Payment) (profileCreated, qrIssued bool, err error) {
	profile, created, err := u.loadOrMaterializeProfile(ctx, payment)
	if err != nil {
		return false, false, err
	}
	if _, err := u.ensureSubscription(ctx, profile, payment.ID); err != nil {
		return created, false, err
	}
	_, qrIssued, err = u.activator.activate(ctx, profile)
	if err != nil {
		return created, false, err
	}
	return created, qrIssued, nil
}

// ensureSubscription creates the payment's subscription unless a previous
// delivery already did.
func (u *WebhookUseCase) ensureSubscription(ctx context.Context, profile entities.MedicalProfile, paymentID string) (bool, error) {
	subs, err := u.subscriptionRepo.GetByProfileID(ctx, profile.ID)
	if err != nil {
		return false, err
	}
	for _, s := range subs {
		if s.PaymentID == paymentID {
			return false, nil
		}
	}
	sub := entities.NewSubscription(profile.ID, paymentID, profile.Plan)
	if _, err := u.subscriptionRepo.Create(ctx, sub); err != nil {
		return false, err
	}
	return true, nil
}

// createOrAdoptProfile persists a materialized profile. Losing the
// attribute_not_exists condition means another delivery got there first with
// the same pinned id; adopt the stored row instead of failing the retry.
func (u *WebhookUseCase) createOrAdoptProfile(ctx context.Context, profile entities.MedicalProfile) (entities.MedicalProfile, bool, error) {
	created, err := u.profileRepo.Create(ctx, profile)
	if err == nil {
		log.Printf("[webhook][usecase] profile materialized profile_id=%s plan=%s", created.ID, created.Plan)
		return created, true, nil
	}
	if errors.Is(err, interfaces.ErrProfileAlreadyExists) {
		existing, getErr := u.profileRepo.GetByID(ctx, profile.ID)
		if getErr != nil {
			return entities.MedicalProfile{}, false, getErr
		}
		if existing.ID != "" {
			log.Printf("[webhook][usecase] profile already materialized profile_id=%s", existing.ID)
			return existing, false, nil
		}
	}
	return entities.MedicalProfile{}, false, err
}

// loadOrMaterializeProfile returns the payment's profile, creating it from
// the embedded payload if the deferred flow has not persisted it yet.
func (u *WebhookUseCase) loadOrMaterializeProfile(ctx context.Context, payment entities.Payment) (entities.MedicalProfile, bool, error) {
	if payment.ProfileID != "" {
		profile, err := u.profileRepo.GetByID(ctx, payment.ProfileID)
		if err != nil {
			return entities.MedicalProfile{}, false, err
		}
		if profile.ID != "" {
			return profile, false, nil
		}
	}

	raw, ok := payment.ProfilePayloadJSON()
	if !ok {
		log.Printf("[webhook][usecase] profile info missing payment_id=%s profile_id=%q", payment.ID, payment.ProfileID)
		return entities.MedicalProfile{}, false, ErrProfileInfoMissing
	}
	payload, err := entities.ParseProfilePayload(raw)
	if err != nil {
		return entities.MedicalProfile{}, false, err
	}

	profile := payload.Materialize()
	if payment.ProfileID != "" {
		// Keep the id minted at checkout so the payment reference holds.
		profile.ID = payment.ProfileID
	}
	return u.createOrAdoptProfile(ctx, profile)
}

// resolveProfileFromMetadata serves the unknown-payment branch: the profile
// comes either embedded in the provider metadata or referenced by id. Neither
// being present is permanent (the provider will not resend the data).
func (u *WebhookUseCase) resolveProfileFromMetadata(ctx context.Context, metadata map[string]any) (entities.MedicalProfile, bool, error) {
	if raw, ok := metadataString(metadata, entities.MetadataKeyProfilePayload); ok {
		payload, err := entities.ParseProfilePayload(raw)
		if err != nil {
			return entities.MedicalProfile{}, false, err
		}
		profile := payload.Materialize()
		if id, ok := metadataString(metadata, entities.MetadataKeyProfileID); ok {
			profile.ID = id
		}
		return u.createOrAdoptProfile(ctx, profile)
	}

	if id, ok := metadataString(metadata, entities.MetadataKeyProfileID); ok {
		profile, err := u.profileRepo.GetByID(ctx, id)
		if err != nil {
			return entities.MedicalProfile{}, false, err
		}
		if profile.ID != "" {
			return profile, false, nil
		}
		return entities.MedicalProfile{}, false, fmt.Errorf("%w: profile %s not found", ErrProfileInfoMissing, id)
	}

	return entities.MedicalProfile{}, false, ErrProfileInfoMissing
}

func (u *WebhookUseCase) mirrorRefund(ctx context.Context, profileID string, mapped entities.PaymentStatus) error {
	if profileID == "" {
		return nil
	}
	profile, err := u.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return err
	}
	if profile.ID == "" || profile.PaymentStatus == mapped {
		return nil
	}
	if err := profile.UpdatePaymentStatus(mapped); err != nil {
		return err
	}
	_, err = u.profileRepo.Update(ctx, profile)
	return err
}

func metadataString(metadata map[string]any, key string) (string, bool) {
	v, ok := metadata[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func copyMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return nil
	}
	out := make(map[string]any, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}
	return out
}
