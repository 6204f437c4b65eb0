package repository

import (
	"context"

	"github.com/jlin/promptfinder/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingRepository handles rating rows and their aggregation.
type RatingRepository struct {
	db *gorm.DB
}

// NewRatingRepository creates a new RatingRepository.
func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Upsert writes the (user, prompt) rating row, replacing any prior score.
// Last write wins per the composite key.
func (r *RatingRepository) Upsert(ctx context.Context, rating *domain.PromptRating) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "prompt_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
	}).Create(rating).Error
}

// Aggregate recomputes the rating summary from all current rows for the
// prompt. A prompt with no ratings yields a zero summary, not an error.
func (r *RatingRepository) Aggregate(ctx context.Context, promptID string) (*domain.RatingSummary, error) {
	var result struct {
		Total int64
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&domain.PromptRating{}).
		Select("COALESCE(SUM(score), 0) AS total, COUNT(*) AS count").
		Where("prompt_id = ?", promptID).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	summary := &domain.RatingSummary{Count: int(result.Count)}
	if result.Count > 0 {
		summary.Average = float64(result.Total) / float64(result.Count)
	}
	return summary, nil
}
