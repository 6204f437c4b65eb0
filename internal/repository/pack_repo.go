package repository

import (
	"context"

	"github.com/jlin/promptfinder/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PackRepository handles prompt packs and their membership rows.
type PackRepository struct {
	db *gorm.DB
}

// NewPackRepository creates a new PackRepository.
func NewPackRepository(db *gorm.DB) *PackRepository {
	return &PackRepository{db: db}
}

// Create inserts a new pack.
func (r *PackRepository) Create(ctx context.Context, pack *domain.PromptPack) error {
	return r.db.WithContext(ctx).Create(pack).Error
}

// Update saves changes to an existing pack.
func (r *PackRepository) Update(ctx context.Context, pack *domain.PromptPack) error {
	return r.db.WithContext(ctx).Save(pack).Error
}

// GetByID retrieves a pack by its ID.
func (r *PackRepository) GetByID(ctx context.Context, id string) (*domain.PromptPack, error) {
	var pack domain.PromptPack
	if err := r.db.WithContext(ctx).First(&pack, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pack, nil
}

// ListPublic returns all public packs, newest first.
func (r *PackRepository) ListPublic(ctx context.Context) ([]domain.PromptPack, error) {
	var packs []domain.PromptPack
	err := r.db.WithContext(ctx).
		Where("is_public = ?", true).
		Order("created_at DESC").
		Find(&packs).Error
	return packs, err
}

// ListByCreator returns packs created by the user, newest first.
func (r *PackRepository) ListByCreator(ctx context.Context, userID string) ([]domain.PromptPack, error) {
	var packs []domain.PromptPack
	err := r.db.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&packs).Error
	return packs, err
}

// AddItem links a prompt into a pack. Duplicate membership is swallowed by
// the conflict clause.
func (r *PackRepository) AddItem(ctx context.Context, item *domain.PromptPackItem) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pack_id"}, {Name: "prompt_id"}},
		DoNothing: true,
	}).Create(item).Error
}

// RemoveItem unlinks a prompt from a pack; removed reports whether the
// membership existed.
func (r *PackRepository) RemoveItem(ctx context.Context, packID, promptID string) (removed bool, err error) {
	result := r.db.WithContext(ctx).
		Where("pack_id = ? AND prompt_id = ?", packID, promptID).
		Delete(&domain.PromptPackItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ItemIDs returns the prompt IDs belonging to a pack, oldest first.
func (r *PackRepository) ItemIDs(ctx context.Context, packID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&domain.PromptPackItem{}).
		Where("pack_id = ?", packID).
		Order("created_at ASC").
		Pluck("prompt_id", &ids).Error
	return ids, err
}
