package response

import (
	"time"

	"vidaqr/internal/usecase"
)

type CheckoutResponse struct {
	PaymentID   string    `json:"payment_id"`
	ProfileID   string    `json:"profile_id"`
	Status      string    `json:"status"`
	AmountCents int64     `json:"amount_cents"`
	Method      string    `json:"method"`
	CreatedAt   time.Time `json:"created_at"`

	PixQRCode       string `json:"pix_qr_code,omitempty"`
	PixQRCodeBase64 string `json:"pix_qr_code_base64,omitempty"`
	PixTicketURL    string `json:"pix_ticket_url,omitempty"`
}

func FromCheckoutResult(res usecase.CheckoutResult) CheckoutResponse {
	return CheckoutResponse{
		PaymentID:       res.Payment.ID,
		ProfileID:       res.ProfileID,
		Status:          res.Payment.Status.String(),
		AmountCents:     res.Payment.Amount,
		Method:          string(res.Payment.Method),
		CreatedAt:       res.Payment.CreatedAt,
		PixQRCode:       res.Payment.PixQRCode,
		PixQRCodeBase64: res.Payment.PixQRCodeBase64,
		PixTicketURL:    res.Payment.PixTicketURL,
	}
}
