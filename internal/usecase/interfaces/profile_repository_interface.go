package interfaces

import (
	"context"
	"errors"

	"vidaqr/internal/domain/entities"
)

// ErrProfileAlreadyExists signals that Create lost to a profile persisted
// under the same id by an earlier delivery.
var ErrProfileAlreadyExists = errors.New("profile already exists")

// IProfileRepository abstracts DynamoDB persistence for MedicalProfile.
//
// GetByID returns the zero value (ID == "") when the profile does not exist.
// Create fails with ErrProfileAlreadyExists when the id is already taken.
type IProfileRepository interface {
	Create(ctx context.Context, m entities.MedicalProfile) (entities.MedicalProfile, error)
	GetByID(ctx context.Context, id string) (entities.MedicalProfile, error)
	Update(ctx context.Context, m entities.MedicalProfile) (entities.MedicalProfile, error)
}
