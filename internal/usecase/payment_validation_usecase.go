package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"vidaqr/internal/domain/entities"
	"vidaqr/internal/usecase/interfaces"
)

var (
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrInvalidPaymentID    = errors.New("invalid payment id")
	ErrPaymentNotSubmitted = errors.New("payment was never submitted to the provider")
)

// ValidationResult is the synchronous confirmation returned to the checkout
// client right after it submits the payment form.
type ValidationResult struct {
	PaymentID    string
	ExternalID   string
	Status       entities.PaymentStatus
	Unchanged    bool
	QRCodeIssued bool
	Detail       string
}

// IPaymentValidationUseCase is the direct-validation path. It shares the
// canonical status mapping and the guarded mutators with the webhook engine,
// but never materializes deferred profiles: that stays on the webhook path so
// checkout latency and tab-abandonment cannot leak half-visible profiles.

type IPaymentValidationUseCase interface {
	ValidatePayment(ctx context.Context, paymentID string) (ValidationResult, error)
}

type PaymentValidationUseCase struct {
	paymentRepo interfaces.IPaymentRepository
	profileRepo interfaces.IProfileRepository
	gateway     interfaces.IPaymentGateway
	activator   profileActivator
}

var _ IPaymentValidationUseCase = (*PaymentValidationUseCase)(nil)

func NewPaymentValidationUseCase(
	paymentRepo interfaces.IPaymentRepository,
	profileRepo interfaces.IProfileRepository,
	gateway interfaces.IPaymentGateway,
	qrService interfaces.IQRCodeService,
) *PaymentValidationUseCase {
	return &PaymentValidationUseCase{
		paymentRepo: paymentRepo,
		profileRepo: profileRepo,
		gateway:     gateway,
		activator:   profileActivator{profileRepo: profileRepo, qrService: qrService},
	}
}

func (u *PaymentValidationUseCase) ValidatePayment(ctx context.Context, paymentID string) (ValidationResult, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return ValidationResult{}, ErrInvalidPaymentID
	}

	local, err := u.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return ValidationResult{}, err
	}
	if local.ID == "" {
		return ValidationResult{}, ErrPaymentNotFound
	}
	if local.ExternalID == "" {
		return ValidationResult{}, ErrPaymentNotSubmitted
	}

	provider, err := u.gateway.GetPaymentByID(ctx, local.ExternalID)
	if err != nil {
		log.Printf("[validation][usecase] provider fetch failed payment_id=%s external_id=%s err=%v", local.ID, local.ExternalID, err)
		return ValidationResult{PaymentID: local.ID}, err
	}

	mapped, known := mapProviderStatus(provider.Status)
	if !known {
		log.Printf("[validation][usecase] unrecognized provider status %q payment_id=%s; defaulting to pending", provider.Status, local.ID)
	}

	if local.Status == mapped {
		log.Printf("[validation][usecase] status unchanged payment_id=%s status=%s", local.ID, mapped)
		return ValidationResult{PaymentID: local.ID, ExternalID: local.ExternalID, Status: mapped, Unchanged: true, Detail: "status unchanged"}, nil
	}

	previous := local.Status
	if err := local.UpdateStatus(mapped, provider.StatusDetail); err != nil {
		return ValidationResult{PaymentID: local.ID, ExternalID: local.ExternalID, Status: previous}, err
	}

	if _, err := u.paymentRepo.Update(ctx, local, previous); err != nil {
		if errors.Is(err, interfaces.ErrPaymentConflict) {
			// The webhook path won the race; re-derive instead of failing.
			refreshed, ferr := u.paymentRepo.FindByID(ctx, local.ID)
			if ferr == nil && refreshed.ID != "" && refreshed.Status == mapped {
				return ValidationResult{PaymentID: local.ID, ExternalID: local.ExternalID, Status: mapped, Unchanged: true, Detail: "status unchanged"}, nil
			}
		}
		return ValidationResult{PaymentID: local.ID, ExternalID: local.ExternalID}, err
	}

	result := ValidationResult{PaymentID: local.ID, ExternalID: local.ExternalID, Status: mapped, Detail: "status updated"}

	if mapped.IsSuccessful() {
		profile, err := u.profileRepo.GetByID(ctx, local.ProfileID)
		if err != nil {
			return result, err
		}
		if profile.ID == "" {
			// Deferred flow: materialization belongs to the webhook path.
			result.Detail = "approved; profile pending materialization"
			log.Printf("[validation][usecase] approved but profile not materialized yet payment_id=%s profile_id=%s", local.ID, local.ProfileID)
			return result, nil
		}
		_, qrIssued, err := u.activator.activate(ctx, profile)
		if err != nil {
			return result, err
		}
		result.QRCodeIssued = qrIssued
	}

	log.Printf("[validation][usecase] done payment_id=%s status=%s qr_issued=%v", local.ID, mapped, result.QRCodeIssued)
	return result, nil
}
