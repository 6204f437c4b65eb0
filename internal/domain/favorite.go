package domain

import "time"

// PromptFavorite is a presence-only relation: a row exists iff the user has
// favorited the prompt. The composite primary key enforces at most one row
// per (user, prompt) pair.
type PromptFavorite struct {
	UserID    string    `gorm:"type:text;primaryKey" json:"user_id"`
	PromptID  string    `gorm:"type:text;primaryKey;index:idx_prompt_favorites_prompt" json:"prompt_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for PromptFavorite.
func (PromptFavorite) TableName() string {
	return "prompt_favorites"
}
