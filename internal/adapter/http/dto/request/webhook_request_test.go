package request

import (
	"encoding/json"
	"testing"
)

func TestWebhookRequest_DataID(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"string id", `{"type":"payment","data":{"id":"12345"}}`, "12345"},
		{"numeric id", `{"type":"payment","data":{"id":12345}}`, "12345"},
		{"padded string id", `{"type":"payment","data":{"id":" 12345 "}}`, "12345"},
		{"missing data", `{"type":"payment"}`, ""},
		{"null id", `{"type":"payment","data":{"id":null}}`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req WebhookRequest
			if err := json.Unmarshal([]byte(tc.raw), &req); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if got := req.DataID(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestWebhookRequest_ToEvent(t *testing.T) {
	var req WebhookRequest
	raw := `{"type":"payment","action":"payment.updated","data":{"id":"mp-1"}}`
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	event := req.ToEvent()
	if event.Type != "payment" || event.Action != "payment.updated" || event.DataID != "mp-1" {
		t.Fatalf("unexpected event: %+v", event)
	}
}
