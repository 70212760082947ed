package payments

import (
	"context"
	"errors"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"

	"vidaqr/internal/usecase/interfaces"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
var ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")

type MercadoPagoGateway struct {
	client   payment.Client
	mockMode bool
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(accessToken string) (*MercadoPagoGateway, error) {
	if isPaymentGatewayMockEnabled() {
		log.Printf("[payment][gateway] mock mode enabled")
		return &MercadoPagoGateway{mockMode: true}, nil
	}

	if accessToken == "" {
		log.Printf("[payment][gateway] missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		log.Printf("[payment][gateway] failed creating sdk config err=%v", err)
		return nil, err
	}
	log.Printf("[payment][gateway] Mercado Pago client initialized")

	return &MercadoPagoGateway{client: payment.NewClient(cfg)}, nil
}

func (g *MercadoPagoGateway) CreatePayment(ctx context.Context, req interfaces.CreateProviderPaymentRequest) (interfaces.ProviderPayment, error) {
	if g != nil && g.mockMode {
		id := strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
		log.Printf("[payment][gateway] mock create success provider_payment_id=%s provider_status=approved", id)
		return interfaces.ProviderPayment{
			ID:              id,
			Status:          "approved",
			StatusDetail:    "accredited",
			AmountCents:     req.AmountCents,
			PaymentMethodID: req.PaymentMethodID,
			Metadata:        req.Metadata,
		}, nil
	}

	if g == nil || g.client == nil {
		log.Printf("[payment][gateway] gateway not configured")
		return interfaces.ProviderPayment{}, ErrMercadoPagoGatewayNotConfigured
	}
	log.Printf("[payment][gateway] create start method=%s amount_cents=%d external_reference=%s",
		req.PaymentMethodID, req.AmountCents, req.ExternalReference)

	installments := req.Installments
	if installments <= 0 {
		installments = 1
	}

	sdkReq := payment.Request{
		TransactionAmount: float64(req.AmountCents) / 100,
		Description:       req.Description,
		PaymentMethodID:   req.PaymentMethodID,
		Token:             req.CardToken,
		Installments:      installments,
		ExternalReference: req.ExternalReference,
		Metadata:          req.Metadata,
	}
	if req.PayerEmail != "" {
		sdkReq.Payer = &payment.PayerRequest{Email: req.PayerEmail}
	}

	resp, err := g.client.Create(ctx, sdkReq)
	if err != nil {
		log.Printf("[payment][gateway] sdk create failed err=%v", err)
		return interfaces.ProviderPayment{}, err
	}
	log.Printf("[payment][gateway] create success provider_payment_id=%d provider_status=%s", resp.ID, resp.Status)

	return fromSDKResponse(resp), nil
}

func (g *MercadoPagoGateway) GetPaymentByID(ctx context.Context, providerPaymentID string) (interfaces.ProviderPayment, error) {
	if g != nil && g.mockMode {
		log.Printf("[payment][gateway] mock get provider_payment_id=%s provider_status=approved", providerPaymentID)
		return interfaces.ProviderPayment{ID: providerPaymentID, Status: "approved", StatusDetail: "accredited"}, nil
	}

	if g == nil || g.client == nil {
		log.Printf("[payment][gateway] gateway not configured")
		return interfaces.ProviderPayment{}, ErrMercadoPagoGatewayNotConfigured
	}

	id, err := strconv.Atoi(strings.TrimSpace(providerPaymentID))
	if err != nil {
		log.Printf("[payment][gateway] invalid provider payment id id=%s", providerPaymentID)
		return interfaces.ProviderPayment{}, interfaces.ErrProviderPaymentNotFound
	}

	resp, err := g.client.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			log.Printf("[payment][gateway] payment not found provider_payment_id=%s", providerPaymentID)
			return interfaces.ProviderPayment{}, interfaces.ErrProviderPaymentNotFound
		}
		log.Printf("[payment][gateway] sdk get failed provider_payment_id=%s err=%v", providerPaymentID, err)
		return interfaces.ProviderPayment{}, err
	}
	log.Printf("[payment][gateway] get success provider_payment_id=%d provider_status=%s", resp.ID, resp.Status)

	return fromSDKResponse(resp), nil
}

func fromSDKResponse(resp *payment.Response) interfaces.ProviderPayment {
	if resp == nil {
		return interfaces.ProviderPayment{}
	}
	tx := resp.PointOfInteraction.TransactionData
	return interfaces.ProviderPayment{
		ID:              strconv.Itoa(resp.ID),
		Status:          resp.Status,
		StatusDetail:    resp.StatusDetail,
		AmountCents:     int64(math.Round(resp.TransactionAmount * 100)),
		PaymentMethodID: resp.PaymentMethodID,
		Metadata:        resp.Metadata,
		PixQRCode:       tx.QRCode,
		PixQRCodeBase64: tx.QRCodeBase64,
		PixTicketURL:    tx.TicketURL,
	}
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "404") || strings.Contains(msg, "not found") || strings.Contains(msg, "not_found")
}

func isPaymentGatewayMockEnabled() bool {
	for _, key := range []string{"PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK"} {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		switch v {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}
