package domain

import "time"

// PromptRating is a single user's score for a prompt. At most one row exists
// per (user, prompt) pair; a later submission replaces the earlier score.
type PromptRating struct {
	UserID    string    `gorm:"type:text;primaryKey" json:"user_id"`
	PromptID  string    `gorm:"type:text;primaryKey;index:idx_prompt_ratings_prompt" json:"prompt_id"`
	Score     int       `gorm:"not null" json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for PromptRating.
func (PromptRating) TableName() string {
	return "prompt_ratings"
}

// RatingSummary holds the derived rating statistics for a prompt.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
