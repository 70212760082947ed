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
	ErrInvalidProfileInput = errors.New("invalid profile input")
	ErrMissingCardToken    = errors.New("card token is required for card payments")
)

// CheckoutCommand carries everything the checkout form collected. The
// profile fields are validated and priced here but persisted only when a
// webhook later confirms payment.
type CheckoutCommand struct {
	Name                  string
	TaxID                 string
	Phone                 string
	BloodType             string
	EmergencyContactName  string
	EmergencyContactPhone string
	MedicalNotes          string
	Plan                  string

	PaymentMethod string
	CardToken     string
	Installments  int
	PayerEmail    string
	DeviceID      string
}

// CheckoutResult returns the local payment plus the PIX artifacts the client
// needs to finish paying.
type CheckoutResult struct {
	Payment   entities.Payment
	ProfileID string
}

// ICheckoutUseCase submits a new deferred-profile checkout.

type ICheckoutUseCase interface {
	CreateCheckout(ctx context.Context, cmd CheckoutCommand) (CheckoutResult, error)
}

type CheckoutUseCase struct {
	paymentRepo interfaces.IPaymentRepository
	gateway     interfaces.IPaymentGateway
}

var _ ICheckoutUseCase = (*CheckoutUseCase)(nil)

func NewCheckoutUseCase(paymentRepo interfaces.IPaymentRepository, gateway interfaces.IPaymentGateway) *CheckoutUseCase {
	return &CheckoutUseCase{paymentRepo: paymentRepo, gateway: gateway}
}

func (u *CheckoutUseCase) CreateCheckout(ctx context.Context, cmd CheckoutCommand) (CheckoutResult, error) {
	log.Printf("[checkout][usecase] start plan=%s method=%s", cmd.Plan, cmd.PaymentMethod)

	if strings.TrimSpace(cmd.Name) == "" || strings.TrimSpace(cmd.TaxID) == "" || strings.TrimSpace(cmd.Phone) == "" {
		return CheckoutResult{}, ErrInvalidProfileInput
	}
	plan, err := entities.NewSubscriptionPlan(cmd.Plan)
	if err != nil {
		return CheckoutResult{}, err
	}
	method := entities.PaymentMethod(cmd.PaymentMethod)
	switch method {
	case entities.PaymentMethodCreditCard, entities.PaymentMethodDebitCard:
		if strings.TrimSpace(cmd.CardToken) == "" {
			return CheckoutResult{}, ErrMissingCardToken
		}
	case entities.PaymentMethodPix:
	default:
		return CheckoutResult{}, entities.ErrInvalidPaymentMethod
	}

	// Built in memory only: validates input and fixes the ids/amount. The
	// profile is not persisted until the payment succeeds.
	profile := entities.NewMedicalProfile(
		strings.TrimSpace(cmd.Name), strings.TrimSpace(cmd.TaxID), strings.TrimSpace(cmd.Phone),
		strings.TrimSpace(cmd.BloodType), strings.TrimSpace(cmd.EmergencyContactName),
		strings.TrimSpace(cmd.EmergencyContactPhone), strings.TrimSpace(cmd.MedicalNotes), plan,
	)

	payloadJSON, err := entities.NewProfilePayload(profile).Encode()
	if err != nil {
		return CheckoutResult{}, err
	}
	metadata := map[string]any{
		entities.MetadataKeyProfilePayload: payloadJSON,
		entities.MetadataKeyProfileID:      profile.ID,
	}
	if deviceID := strings.TrimSpace(cmd.DeviceID); deviceID != "" {
		metadata[entities.MetadataKeyDeviceID] = deviceID
	}

	payment, err := entities.NewPayment(profile.ID, plan.Price(), method, metadata)
	if err != nil {
		return CheckoutResult{}, err
	}

	providerReq := interfaces.CreateProviderPaymentRequest{
		AmountCents:       payment.Amount,
		Description:       fmt.Sprintf("VidaQR %s plan", plan),
		PaymentMethodID:   string(method),
		CardToken:         cmd.CardToken,
		Installments:      cmd.Installments,
		PayerEmail:        strings.TrimSpace(cmd.PayerEmail),
		ExternalReference: payment.ID,
		Metadata:          metadata,
	}

	provider, err := u.gateway.CreatePayment(ctx, providerReq)
	if err != nil {
		log.Printf("[checkout][usecase] provider create failed payment_id=%s err=%v", payment.ID, err)
		return CheckoutResult{}, err
	}

	if err := payment.AttachProviderData(provider.ID, provider.PixQRCode, provider.PixQRCodeBase64, provider.PixTicketURL); err != nil {
		return CheckoutResult{}, err
	}

	// Card payments usually resolve synchronously; record the provider's
	// answer without forking the mapping logic.
	mapped, known := mapProviderStatus(provider.Status)
	if !known {
		log.Printf("[checkout][usecase] unrecognized provider status %q payment_id=%s; keeping pending", provider.Status, payment.ID)
	}
	if mapped != payment.Status {
		if err := payment.UpdateStatus(mapped, provider.StatusDetail); err != nil {
			return CheckoutResult{}, err
		}
	}

	saved, err := u.paymentRepo.Save(ctx, payment)
	if err != nil {
		log.Printf("[checkout][usecase] payment save failed payment_id=%s err=%v", payment.ID, err)
		return CheckoutResult{}, err
	}

	log.Printf("[checkout][usecase] done payment_id=%s external_id=%s status=%s", saved.ID, saved.ExternalID, saved.Status)
	return CheckoutResult{Payment: saved, ProfileID: profile.ID}, nil
}
