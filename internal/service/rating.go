package service

import (
	"context"
	"errors"
	"math"

	"github.com/jlin/promptfinder/internal/apperr"
	"github.com/jlin/promptfinder/internal/domain"
	"github.com/jlin/promptfinder/internal/keylock"
	"github.com/jlin/promptfinder/internal/logger"
	"github.com/jlin/promptfinder/internal/repository"
	"gorm.io/gorm"
)

// RatingService applies rating submissions: upsert the caller's score, then
// fully recompute the prompt's derived statistics. The upsert and recompute
// run as one serialized unit per prompt so concurrent submissions cannot
// read a ratings set missing their own write, and no submission is lost.
type RatingService struct {
	ratingRepo *repository.RatingRepository
	promptRepo *repository.PromptRepository
	locks      *keylock.KeyLock
	logger     *logger.Logger
}

// NewRatingService creates a new rating service.
func NewRatingService(
	ratingRepo *repository.RatingRepository,
	promptRepo *repository.PromptRepository,
	log *logger.Logger,
) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
		promptRepo: promptRepo,
		locks:      keylock.New(),
		logger:     log,
	}
}

// SubmitRating records the user's score for a prompt, replacing any prior
// score from the same user, and returns the recomputed summary.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - promptID: prompt being rated.
//   - userID: verified caller identity.
//   - score: integer in [1,5].
// Returns:
//   - *domain.RatingSummary: average (rounded to 2 decimal places) and count.
//   - error: ValidationError for an out-of-range score (no state change),
//     NotFound for a missing prompt, StorageFailure otherwise. A recompute
//     failure is surfaced rather than leaving a stale average behind.
func (s *RatingService) SubmitRating(ctx context.Context, promptID, userID string, score int) (*domain.RatingSummary, error) {
	if score < 1 || score > 5 {
		return nil, apperr.Validation("rating must be an integer between 1 and 5, got %d", score)
	}
	if promptID == "" {
		return nil, apperr.Validation("prompt_id is required")
	}

	if _, err := s.promptRepo.GetByID(ctx, promptID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("prompt")
		}
		return nil, apperr.Storage(err)
	}

	var summary *domain.RatingSummary
	var opErr error

	s.locks.Do(promptID, func() {
		if err := s.ratingRepo.Upsert(ctx, &domain.PromptRating{
			UserID:   userID,
			PromptID: promptID,
			Score:    score,
		}); err != nil {
			opErr = apperr.Storage(err)
			return
		}

		agg, err := s.ratingRepo.Aggregate(ctx, promptID)
		if err != nil {
			opErr = apperr.Storage(err)
			return
		}
		agg.Average = round2(agg.Average)

		if err := s.promptRepo.UpdateRatingStats(ctx, promptID, agg.Average, agg.Count); err != nil {
			opErr = apperr.Storage(err)
			return
		}
		summary = agg
	})

	if opErr != nil {
		return nil, opErr
	}

	s.logger.WithFields(logger.Fields{
		logger.FieldPromptID: promptID,
		logger.FieldUserID:   userID,
		logger.FieldCount:    summary.Count,
	}).Debug("rating recorded")

	return summary, nil
}

// round2 rounds to 2 decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
