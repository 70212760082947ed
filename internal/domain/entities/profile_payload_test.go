package entities

import (
	"errors"
	"strings"
	"testing"
)

func TestProfilePayload_EncodeParseRoundTrip(t *testing.T) {
	m := newTestProfile(PlanPremium)
	raw, err := NewProfilePayload(m).Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := ParseProfilePayload(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Version != ProfilePayloadVersion {
		t.Fatalf("unexpected version %d", p.Version)
	}

	rebuilt := p.Materialize()
	if rebuilt.Name != m.Name || rebuilt.Plan != PlanPremium || rebuilt.BloodType != m.BloodType {
		t.Fatalf("materialized profile mismatch: %+v", rebuilt)
	}
	if rebuilt.Active || rebuilt.PaymentStatus != PaymentStatusPending {
		t.Fatalf("materialized profile must start inactive/pending: %+v", rebuilt)
	}
}

func TestParseProfilePayload_Failures(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if _, err := ParseProfilePayload("  "); !errors.Is(err, ErrInvalidProfilePayload) {
			t.Fatalf("expected ErrInvalidProfilePayload, got %v", err)
		}
	})

	t.Run("not json", func(t *testing.T) {
		if _, err := ParseProfilePayload("{"); !errors.Is(err, ErrInvalidProfilePayload) {
			t.Fatalf("expected ErrInvalidProfilePayload, got %v", err)
		}
	})

	t.Run("unknown version", func(t *testing.T) {
		raw := `{"version":2,"name":"Ana","plan":"basic"}`
		if _, err := ParseProfilePayload(raw); !errors.Is(err, ErrUnsupportedPayloadVersion) {
			t.Fatalf("expected ErrUnsupportedPayloadVersion, got %v", err)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		raw := `{"version":1,"name":" ","plan":"basic"}`
		if _, err := ParseProfilePayload(raw); !errors.Is(err, ErrInvalidProfilePayload) {
			t.Fatalf("expected ErrInvalidProfilePayload, got %v", err)
		}
	})

	t.Run("invalid plan", func(t *testing.T) {
		raw := `{"version":1,"name":"Ana","plan":"gold"}`
		_, err := ParseProfilePayload(raw)
		if !errors.Is(err, ErrInvalidProfilePayload) || !strings.Contains(err.Error(), "gold") {
			t.Fatalf("expected invalid plan error, got %v", err)
		}
	})
}
