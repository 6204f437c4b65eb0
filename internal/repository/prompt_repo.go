package repository

import (
	"context"
	"strings"

	"github.com/jlin/promptfinder/internal/domain"
	"gorm.io/gorm"
)

// DefaultPageSize is the number of prompts returned per listing page.
const DefaultPageSize = 20

// PromptRepository handles prompt data operations.
type PromptRepository struct {
	db *gorm.DB
}

// NewPromptRepository creates a new PromptRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *PromptRepository: repository instance bound to db.
func NewPromptRepository(db *gorm.DB) *PromptRepository {
	return &PromptRepository{db: db}
}

// Create inserts a new prompt record.
func (r *PromptRepository) Create(ctx context.Context, prompt *domain.Prompt) error {
	return r.db.WithContext(ctx).Create(prompt).Error
}

// GetByID retrieves a prompt by its ID.
func (r *PromptRepository) GetByID(ctx context.Context, id string) (*domain.Prompt, error) {
	var prompt domain.Prompt
	if err := r.db.WithContext(ctx).First(&prompt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &prompt, nil
}

// UpdateRatingStats persists the recomputed rating summary on the prompt row.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - promptID: prompt to update.
//   - avg: recomputed average, already rounded.
//   - count: current number of rating rows.
// Returns:
//   - error: non-nil if the update fails or the prompt does not exist.
func (r *PromptRepository) UpdateRatingStats(ctx context.Context, promptID string, avg float64, count int) error {
	result := r.db.WithContext(ctx).Model(&domain.Prompt{}).
		Where("id = ?", promptID).
		Updates(map[string]interface{}{
			"avg_rating":   avg,
			"rating_count": count,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListFilter narrows and orders a prompt listing.
type ListFilter struct {
	UserID string   // restrict to a single owner (history scope)
	Search string   // substring match on prompt text
	Tags   []string // every tag must be present in style_tags
	Sort   string   // "rating" or "newest" (default)
	Page   int      // 1-based page number
}

// List returns one page of prompts matching the filter.
// Tag containment relies on the JSON encoding of StringArray: each element is
// stored as a quoted string, so a LIKE against the quoted tag is an exact
// element match across sqlite and postgres.
func (r *PromptRepository) List(ctx context.Context, filter ListFilter) ([]domain.Prompt, error) {
	query := r.db.WithContext(ctx).Model(&domain.Prompt{})

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(prompt_text) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	for _, tag := range filter.Tags {
		query = query.Where("style_tags LIKE ?", `%"`+tag+`"%`)
	}

	if filter.Sort == "rating" {
		query = query.Order("avg_rating DESC")
	} else {
		query = query.Order("created_at DESC")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	query = query.Offset((page - 1) * DefaultPageSize).Limit(DefaultPageSize)

	var prompts []domain.Prompt
	if err := query.Find(&prompts).Error; err != nil {
		return nil, err
	}
	return prompts, nil
}

// ListByIDs returns the prompts with the given IDs, preserving no particular
// order.
func (r *PromptRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Prompt, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var prompts []domain.Prompt
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&prompts).Error; err != nil {
		return nil, err
	}
	return prompts, nil
}
