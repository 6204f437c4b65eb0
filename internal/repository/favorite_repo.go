package repository

import (
	"context"

	"github.com/jlin/promptfinder/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository handles the presence-only favorite relation.
type FavoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new FavoriteRepository.
func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Insert adds the favorite row if absent. A concurrent insert of the same
// pair is swallowed by the conflict clause; inserted reports whether this
// call created the row.
func (r *FavoriteRepository) Insert(ctx context.Context, fav *domain.PromptFavorite) (inserted bool, err error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "prompt_id"}},
		DoNothing: true,
	}).Create(fav)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes the favorite row if present; deleted reports whether a row
// existed.
func (r *FavoriteRepository) Delete(ctx context.Context, userID, promptID string) (deleted bool, err error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND prompt_id = ?", userID, promptID).
		Delete(&domain.PromptFavorite{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists reports whether the (user, prompt) favorite row is present.
func (r *FavoriteRepository) Exists(ctx context.Context, userID, promptID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.PromptFavorite{}).
		Where("user_id = ? AND prompt_id = ?", userID, promptID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FavoritedSet returns, for one user, which of the given prompt IDs are
// favorited. Used to annotate listings in a single query.
func (r *FavoriteRepository) FavoritedSet(ctx context.Context, userID string, promptIDs []string) (map[string]bool, error) {
	set := make(map[string]bool, len(promptIDs))
	if userID == "" || len(promptIDs) == 0 {
		return set, nil
	}

	var rows []domain.PromptFavorite
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND prompt_id IN ?", userID, promptIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		set[row.PromptID] = true
	}
	return set, nil
}
