package service

import (
	"context"
	"errors"

	"github.com/jlin/promptfinder/internal/apperr"
	"github.com/jlin/promptfinder/internal/domain"
	"github.com/jlin/promptfinder/internal/logger"
	"github.com/jlin/promptfinder/internal/repository"
	"gorm.io/gorm"
)

// FavoriteService flips the presence-only favorite relation.
type FavoriteService struct {
	favoriteRepo *repository.FavoriteRepository
	promptRepo   *repository.PromptRepository
	logger       *logger.Logger
}

// NewFavoriteService creates a new favorite service.
func NewFavoriteService(
	favoriteRepo *repository.FavoriteRepository,
	promptRepo *repository.PromptRepository,
	log *logger.Logger,
) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		promptRepo:   promptRepo,
		logger:       log,
	}
}

// ToggleFavorite flips the favorite state for (user, prompt) and returns the
// new state. Races converge: if a concurrent toggle already inserted the
// row, the duplicate insert is swallowed and the pair is reported favorited.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - promptID: prompt being favorited.
//   - userID: verified caller identity.
// Returns:
//   - bool: true if the prompt is now favorited by the user.
//   - error: NotFound for a missing prompt, StorageFailure otherwise.
func (s *FavoriteService) ToggleFavorite(ctx context.Context, promptID, userID string) (bool, error) {
	if promptID == "" {
		return false, apperr.Validation("prompt_id is required")
	}

	if _, err := s.promptRepo.GetByID(ctx, promptID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperr.NotFound("prompt")
		}
		return false, apperr.Storage(err)
	}

	deleted, err := s.favoriteRepo.Delete(ctx, userID, promptID)
	if err != nil {
		return false, apperr.Storage(err)
	}
	if deleted {
		return false, nil
	}

	// Nothing to delete: favorite. The conflict-tolerant insert makes a
	// race between two toggles land on favorited=true for both.
	if _, err := s.favoriteRepo.Insert(ctx, &domain.PromptFavorite{
		UserID:   userID,
		PromptID: promptID,
	}); err != nil {
		return false, apperr.Storage(err)
	}

	s.logger.WithFields(logger.Fields{
		logger.FieldPromptID: promptID,
		logger.FieldUserID:   userID,
	}).Debug("favorite toggled on")

	return true, nil
}
