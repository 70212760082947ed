package entities

import (
	"time"

	"github.com/google/uuid"
)

// Subscription records the plan window bought by an approved payment. It is
// created at profile materialization time, never before.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (profile_id-index): profile_id
type Subscription struct {
	ID        string           `json:"id"`
	ProfileID string           `json:"profile_id"`
	PaymentID string           `json:"payment_id"`
	Plan      SubscriptionPlan `json:"plan"`
	StartsAt  time.Time        `json:"starts_at"`
	ExpiresAt time.Time        `json:"expires_at"`
	Active    bool             `json:"active"`
	CreatedAt time.Time        `json:"created_at"`
}

func NewSubscription(profileID, paymentID string, plan SubscriptionPlan) Subscription {
	now := time.Now().UTC()
	return Subscription{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		PaymentID: paymentID,
		Plan:      plan,
		StartsAt:  now,
		ExpiresAt: now.Add(plan.Duration()),
		Active:    true,
		CreatedAt: now,
	}
}

func (s *Subscription) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
