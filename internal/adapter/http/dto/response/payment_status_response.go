package response

import "vidaqr/internal/usecase"

type PaymentStatusResponse struct {
	PaymentID    string `json:"payment_id"`
	ExternalID   string `json:"external_id,omitempty"`
	Status       string `json:"status"`
	Unchanged    bool   `json:"unchanged,omitempty"`
	QRCodeIssued bool   `json:"qr_code_issued,omitempty"`
	Detail       string `json:"detail,omitempty"`
}

func FromValidationResult(res usecase.ValidationResult) PaymentStatusResponse {
	return PaymentStatusResponse{
		PaymentID:    res.PaymentID,
		ExternalID:   res.ExternalID,
		Status:       res.Status.String(),
		Unchanged:    res.Unchanged,
		QRCodeIssued: res.QRCodeIssued,
		Detail:       res.Detail,
	}
}
