package repository

import (
	"context"
	"errors"

	"github.com/jlin/promptfinder/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository handles user profile rows mirroring the auth provider.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByID retrieves a profile by user ID.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	var profile domain.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// TierOf returns the subscription tier for the user. A missing profile row is
// not an error: new users are free tier until billing says otherwise.
func (r *ProfileRepository) TierOf(ctx context.Context, userID string) (domain.SubscriptionTier, error) {
	profile, err := r.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.TierFree, nil
		}
		return "", err
	}
	if !profile.SubscriptionTier.Valid() {
		return domain.TierFree, nil
	}
	return profile.SubscriptionTier, nil
}

// EnsureExists creates the profile row on first sight of a verified identity.
func (r *ProfileRepository) EnsureExists(ctx context.Context, id, email string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&domain.Profile{
		ID:               id,
		Email:            email,
		SubscriptionTier: domain.TierFree,
	}).Error
}

// SetTier updates the subscription tier. Only the billing webhook path calls
// this.
func (r *ProfileRepository) SetTier(ctx context.Context, userID string, tier domain.SubscriptionTier) error {
	return r.db.WithContext(ctx).Model(&domain.Profile{}).
		Where("id = ?", userID).
		Update("subscription_tier", tier).Error
}
