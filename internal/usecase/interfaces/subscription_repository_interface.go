package interfaces

import (
	"context"

	"vidaqr/internal/domain/entities"
)

// ISubscriptionRepository abstracts DynamoDB persistence for Subscription.
type ISubscriptionRepository interface {
	Create(ctx context.Context, s entities.Subscription) (entities.Subscription, error)
	GetByProfileID(ctx context.Context, profileID string) ([]entities.Subscription, error)
}
