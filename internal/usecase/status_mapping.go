package usecase

import (
	"context"
	"log"
	"strings"

	"vidaqr/internal/domain/entities"
	"vidaqr/internal/usecase/interfaces"
)

// providerStatusMap is the single canonical mapping from the provider's
// status vocabulary onto the local PaymentStatus. Both the webhook engine and
// the direct-validation path go through it so the two can never diverge.
var providerStatusMap = map[string]entities.PaymentStatus{
	"approved":     entities.PaymentStatusApproved,
	"pending":      entities.PaymentStatusPending,
	"in_process":   entities.PaymentStatusPending,
	"authorized":   entities.PaymentStatusAuthorized,
	"rejected":     entities.PaymentStatusRejected,
	"cancelled":    entities.PaymentStatusRejected,
	"refunded":     entities.PaymentStatusRefunded,
	"charged_back": entities.PaymentStatusRefunded,
}

// mapProviderStatus maps a provider status; unrecognized values fall back to
// pending (unknown-but-safe) and the caller logs a warning, never an error.
func mapProviderStatus(raw string) (entities.PaymentStatus, bool) {
	if mapped, ok := providerStatusMap[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return mapped, true
	}
	return entities.PaymentStatusPending, false
}

// methodFromProviderID classifies the provider's payment_method_id.
func methodFromProviderID(providerMethodID string) entities.PaymentMethod {
	id := strings.ToLower(strings.TrimSpace(providerMethodID))
	switch {
	case id == "pix":
		return entities.PaymentMethodPix
	case strings.HasPrefix(id, "deb"):
		return entities.PaymentMethodDebitCard
	default:
		return entities.PaymentMethodCreditCard
	}
}

// profileActivator applies the success cascade shared by the webhook engine
// and the direct-validation path: mirror the approved status onto the
// profile, attempt QR issuance best-effort and persist the profile.
type profileActivator struct {
	profileRepo interfaces.IProfileRepository
	qrService   interfaces.IQRCodeService
}

// activate returns the persisted profile and whether a QR code URL is set on
// it. A QR generation failure is logged and reported through the flag only;
// it never fails the cascade.
func (a profileActivator) activate(ctx context.Context, profile entities.MedicalProfile) (entities.MedicalProfile, bool, error) {
	if profile.CanIssueQRCode() && profile.QRCodeURL != "" {
		// Cascade already applied by an earlier delivery.
		return profile, true, nil
	}

	if !profile.PaymentStatus.IsSuccessful() {
		if err := profile.UpdatePaymentStatus(entities.PaymentStatusApproved); err != nil {
			return profile, false, err
		}
	}

	qrIssued := false
	url, err := a.qrService.GenerateQRCode(ctx, profile.ID)
	if err != nil {
		log.Printf("[reconcile][cascade] qr generation failed profile_id=%s err=%v", profile.ID, err)
	} else if err := profile.SetQRCodeURL(url); err != nil {
		log.Printf("[reconcile][cascade] qr attach refused profile_id=%s err=%v", profile.ID, err)
	} else {
		qrIssued = true
	}

	updated, err := a.profileRepo.Update(ctx, profile)
	if err != nil {
		return profile, qrIssued, err
	}
	return updated, qrIssued, nil
}
