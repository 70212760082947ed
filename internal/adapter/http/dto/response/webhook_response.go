package response

import "vidaqr/internal/usecase"

type WebhookResponse struct {
	Result         string `json:"result"`
	PaymentID      string `json:"payment_id,omitempty"`
	Status         string `json:"status,omitempty"`
	ProfileCreated bool   `json:"profile_created,omitempty"`
	QRCodeIssued   bool   `json:"qr_code_issued,omitempty"`
	Detail         string `json:"detail,omitempty"`
}

func FromWebhookResult(res usecase.WebhookResult) WebhookResponse {
	result := "applied"
	switch {
	case res.Ignored:
		result = "ignored"
	case res.Unchanged:
		result = "unchanged"
	}
	return WebhookResponse{
		Result:         result,
		PaymentID:      res.PaymentID,
		Status:         res.Status.String(),
		ProfileCreated: res.ProfileCreated,
		QRCodeIssued:   res.QRCodeIssued,
		Detail:         res.Detail,
	}
}
