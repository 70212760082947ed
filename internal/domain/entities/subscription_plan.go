package entities

import (
	"errors"
	"time"
)

// SubscriptionPlan selects the emergency profile tier. Exactly two tiers
// exist and their prices are the full amount allow-list for payments.

type SubscriptionPlan string

const (
	PlanBasic   SubscriptionPlan = "basic"
	PlanPremium SubscriptionPlan = "premium"
)

const (
	PlanBasicPrice   int64 = 500  // R$ 5,00 in centavos
	PlanPremiumPrice int64 = 1000 // R$ 10,00 in centavos

	PlanBasicDuration   = 30 * 24 * time.Hour
	PlanPremiumDuration = 365 * 24 * time.Hour
)

var ErrInvalidPlan = errors.New("invalid subscription plan")

func NewSubscriptionPlan(raw string) (SubscriptionPlan, error) {
	switch SubscriptionPlan(raw) {
	case PlanBasic:
		return PlanBasic, nil
	case PlanPremium:
		return PlanPremium, nil
	}
	return "", ErrInvalidPlan
}

func (p SubscriptionPlan) Price() int64 {
	if p == PlanPremium {
		return PlanPremiumPrice
	}
	return PlanBasicPrice
}

func (p SubscriptionPlan) Duration() time.Duration {
	if p == PlanPremium {
		return PlanPremiumDuration
	}
	return PlanBasicDuration
}

// IsPlanPrice reports whether amount matches one of the two tier prices.
func IsPlanPrice(amount int64) bool {
	return amount == PlanBasicPrice || amount == PlanPremiumPrice
}
