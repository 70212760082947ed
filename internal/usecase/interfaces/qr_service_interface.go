package interfaces

import (
	"context"
	"errors"
)

// ErrQRGenerationFailed is the single failure mode the engine sees from QR
// issuance; it is always non-fatal to the payment transition.
var ErrQRGenerationFailed = errors.New("qr code generation failed")

// IQRCodeService issues the public QR code URL for an eligible profile.
type IQRCodeService interface {
	GenerateQRCode(ctx context.Context, profileID string) (string, error)
}
