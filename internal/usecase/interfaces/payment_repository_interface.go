package interfaces

import (
	"context"
	"errors"

	"vidaqr/internal/domain/entities"
)

// ErrPaymentConflict signals that a conditional update lost a race: the
// stored status no longer matches what the caller read. The caller must
// re-read and re-run its idempotency check instead of blindly retrying.
var ErrPaymentConflict = errors.New("payment update conflict")

// IPaymentRepository abstracts DynamoDB persistence for Payment.
//
// Lookups return the zero value (ID == "") when nothing matches. Update is a
// conditional write keyed on the status the caller previously read.
type IPaymentRepository interface {
	Save(ctx context.Context, p entities.Payment) (entities.Payment, error)
	Update(ctx context.Context, p entities.Payment, expectedStatus entities.PaymentStatus) (entities.Payment, error)
	FindByID(ctx context.Context, id string) (entities.Payment, error)
	FindByExternalID(ctx context.Context, externalID string) (entities.Payment, error)
	ListPending(ctx context.Context) ([]entities.Payment, error)
}
