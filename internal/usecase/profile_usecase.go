package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"vidaqr/internal/domain/entities"
	"vidaqr/internal/usecase/interfaces"
)

var ErrProfileNotFound = errors.New("profile not found")
var ErrInvalidProfileID = errors.New("invalid profile id")

// ProfileView is the emergency read model: the profile itself plus its
// subscription history so callers can tell how long coverage lasts.
type ProfileView struct {
	Profile       entities.MedicalProfile
	Subscriptions []entities.Subscription
}

type IProfileUseCase interface {
	GetProfile(ctx context.Context, profileID string) (ProfileView, error)
}

type ProfileUseCase struct {
	profileRepo      interfaces.IProfileRepository
	subscriptionRepo interfaces.ISubscriptionRepository
}

var _ IProfileUseCase = (*ProfileUseCase)(nil)

func NewProfileUseCase(profileRepo interfaces.IProfileRepository, subscriptionRepo interfaces.ISubscriptionRepository) *ProfileUseCase {
	return &ProfileUseCase{profileRepo: profileRepo, subscriptionRepo: subscriptionRepo}
}

func (uc *ProfileUseCase) GetProfile(ctx context.Context, profileID string) (ProfileView, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return ProfileView{}, ErrInvalidProfileID
	}

	profile, err := uc.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		log.Printf("[profile][usecase] lookup failed profile_id=%s err=%v", profileID, err)
		return ProfileView{}, err
	}
	if profile.ID == "" {
		return ProfileView{}, ErrProfileNotFound
	}

	subs, err := uc.subscriptionRepo.GetByProfileID(ctx, profileID)
	if err != nil {
		log.Printf("[profile][usecase] subscription lookup failed profile_id=%s err=%v", profileID, err)
		return ProfileView{}, err
	}

	return ProfileView{Profile: profile, Subscriptions: subs}, nil
}
