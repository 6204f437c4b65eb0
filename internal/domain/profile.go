package domain

import "time"

// SubscriptionTier is a subscription level controlling rate-limit thresholds.
type SubscriptionTier string

const (
	TierFree    SubscriptionTier = "free"
	TierPremium SubscriptionTier = "premium"
)

// Valid reports whether the tier is a known value.
func (t SubscriptionTier) Valid() bool {
	return t == TierFree || t == TierPremium
}

// Profile mirrors the auth provider's user record plus billing state. The ID
// matches the auth user ID. SubscriptionTier is written only by the billing
// webhook handler; everything else reads it.
type Profile struct {
	ID               string           `gorm:"type:text;primaryKey" json:"id"`
	Email            string           `gorm:"type:text" json:"email"`
	SubscriptionTier SubscriptionTier `gorm:"type:text;default:free" json:"subscription_tier"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// TableName returns the database table name for Profile.
func (Profile) TableName() string {
	return "profiles"
}
