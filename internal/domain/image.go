package domain

import "time"

// ImageAsset represents an uploaded image blob stored in object storage,
// linked to the prompt generated from it.
type ImageAsset struct {
	ID               string    `gorm:"type:text;primaryKey" json:"id"`
	UserID           string    `gorm:"type:text;not null;index:idx_images_user" json:"user_id"`
	PromptID         string    `gorm:"type:text;not null;index:idx_images_prompt" json:"prompt_id"`
	StorageKey       string    `gorm:"type:text;not null" json:"storage_key"`
	OriginalFilename string    `gorm:"type:text" json:"original_filename"`
	Format           string    `gorm:"type:text" json:"format"`
	FileSize         int64     `json:"file_size"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName returns the database table name for ImageAsset.
func (ImageAsset) TableName() string {
	return "images"
}
