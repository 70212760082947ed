package request

import (
	"encoding/json"
	"strconv"
	"strings"

	"vidaqr/internal/usecase"
)

// WebhookRequest mirrors the Mercado Pago event envelope. `data.id` arrives
// as a string or a number depending on the notification channel, so it is
// decoded loosely and normalized by DataID.

type WebhookRequest struct {
	Type   string             `json:"type"`
	Action string             `json:"action"`
	Data   webhookRequestData `json:"data"`
}

type webhookRequestData struct {
	ID any `json:"id"`
}

func (r WebhookRequest) DataID() string {
	switch v := r.Data.ID.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func (r WebhookRequest) ToEvent() usecase.WebhookEvent {
	return usecase.WebhookEvent{
		Type:   r.Type,
		Action: r.Action,
		DataID: r.DataID(),
	}
}
