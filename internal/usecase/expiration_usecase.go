package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"vidaqr/internal/domain/entities"
	"vidaqr/internal/usecase/interfaces"
)

// IExpirationUseCase cancels pending payments that outlived the payment
// window, so abandoned checkouts do not accumulate.

type IExpirationUseCase interface {
	CancelExpiredPayments(ctx context.Context) (int, error)
}

type ExpirationUseCase struct {
	paymentRepo interfaces.IPaymentRepository
	now         func() time.Time
}

var _ IExpirationUseCase = (*ExpirationUseCase)(nil)

func NewExpirationUseCase(paymentRepo interfaces.IPaymentRepository) *ExpirationUseCase {
	return &ExpirationUseCase{paymentRepo: paymentRepo, now: time.Now}
}

func (u *ExpirationUseCase) CancelExpiredPayments(ctx context.Context) (int, error) {
	pending, err := u.paymentRepo.ListPending(ctx)
	if err != nil {
		return 0, err
	}

	now := u.now().UTC()
	cancelled := 0
	for _, p := range pending {
		if !p.IsExpired(now) {
			continue
		}
		previous := p.Status
		if err := p.UpdateStatus(entities.PaymentStatusCancelled, "payment window expired"); err != nil {
			log.Printf("[expiration][usecase] cannot cancel payment_id=%s err=%v", p.ID, err)
			continue
		}
		if _, err := u.paymentRepo.Update(ctx, p, previous); err != nil {
			if errors.Is(err, interfaces.ErrPaymentConflict) {
				// A webhook or validation won the race; leave it alone.
				log.Printf("[expiration][usecase] skipped contended payment_id=%s", p.ID)
				continue
			}
			return cancelled, err
		}
		cancelled++
	}

	if cancelled > 0 {
		log.Printf("[expiration][usecase] cancelled %d expired payments", cancelled)
	}
	return cancelled, nil
}
