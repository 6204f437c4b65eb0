package domain

import "time"

// PromptPack is a user-curated collection of prompts. Public packs are
// browsable by everyone; private packs only by their creator.
type PromptPack struct {
	ID          string    `gorm:"type:text;primaryKey" json:"id"`
	Name        string    `gorm:"type:text;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedBy   string    `gorm:"type:text;not null;index:idx_prompt_packs_creator" json:"created_by"`
	IsPublic    bool      `gorm:"default:false" json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for PromptPack.
func (PromptPack) TableName() string {
	return "prompt_packs"
}

// PromptPackItem links a prompt into a pack. The composite primary key keeps
// membership unique.
type PromptPackItem struct {
	PackID    string    `gorm:"type:text;primaryKey" json:"pack_id"`
	PromptID  string    `gorm:"type:text;primaryKey" json:"prompt_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for PromptPackItem.
func (PromptPackItem) TableName() string {
	return "prompt_pack_items"
}

// PackView is a pack plus its member prompts for API responses.
type PackView struct {
	PromptPack
	Prompts []PromptView `json:"prompts,omitempty"`
}
