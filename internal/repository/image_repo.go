package repository

import (
	"context"

	"github.com/jlin/promptfinder/internal/domain"
	"gorm.io/gorm"
)

// ImageRepository handles image asset metadata rows.
type ImageRepository struct {
	db *gorm.DB
}

// NewImageRepository creates a new ImageRepository.
func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

// Create inserts a new image asset record.
func (r *ImageRepository) Create(ctx context.Context, asset *domain.ImageAsset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

// ByPromptIDs returns the image assets for the given prompts, keyed by
// prompt ID. Prompts without an image are simply absent from the map.
func (r *ImageRepository) ByPromptIDs(ctx context.Context, promptIDs []string) (map[string]domain.ImageAsset, error) {
	assets := make(map[string]domain.ImageAsset, len(promptIDs))
	if len(promptIDs) == 0 {
		return assets, nil
	}

	var rows []domain.ImageAsset
	err := r.db.WithContext(ctx).
		Where("prompt_id IN ?", promptIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		assets[row.PromptID] = row
	}
	return assets, nil
}
