package domain

// Identity is the verified caller identity supplied by the external auth
// service. The core trusts it once the token is verified; the tier is read
// from the caller's profile at request time.
type Identity struct {
	UserID string
	Email  string
	Tier   SubscriptionTier
}
