package service

import (
	"context"
	"errors"

	"github.com/jlin/promptfinder/internal/apperr"
	"github.com/jlin/promptfinder/internal/domain"
	"github.com/jlin/promptfinder/internal/repository"
	"github.com/jlin/promptfinder/internal/storage"
	"gorm.io/gorm"
)

// BrowseService serves prompt listings and detail views, annotated with the
// viewer's favorite state and public image URLs.
type BrowseService struct {
	promptRepo   *repository.PromptRepository
	favoriteRepo *repository.FavoriteRepository
	imageRepo    *repository.ImageRepository
	storage      storage.ObjectStorage
}

// NewBrowseService creates a new browse service.
func NewBrowseService(
	promptRepo *repository.PromptRepository,
	favoriteRepo *repository.FavoriteRepository,
	imageRepo *repository.ImageRepository,
	objectStorage storage.ObjectStorage,
) *BrowseService {
	return &BrowseService{
		promptRepo:   promptRepo,
		favoriteRepo: favoriteRepo,
		imageRepo:    imageRepo,
		storage:      objectStorage,
	}
}

// ListRequest narrows a prompt listing.
type ListRequest struct {
	Page   int
	Scope  string // "all" (default) or "history"
	Search string
	Sort   string // "newest" (default) or "rating"
	Tags   []string
}

// ListPrompts returns one page of prompts. The history scope restricts to
// the viewer's own prompts and requires an authenticated viewer.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - viewer: authenticated caller, or nil for anonymous browsing.
//   - req: paging, filtering, and ordering options.
// Returns:
//   - []domain.PromptView: prompts with favorite flags and image URLs.
//   - error: Unauthorized for anonymous history, StorageFailure otherwise.
func (s *BrowseService) ListPrompts(ctx context.Context, viewer *domain.Identity, req ListRequest) ([]domain.PromptView, error) {
	filter := repository.ListFilter{
		Search: req.Search,
		Tags:   req.Tags,
		Sort:   req.Sort,
		Page:   req.Page,
	}

	if req.Scope == "history" {
		if viewer == nil {
			return nil, apperr.Unauthorized("sign in to view your history")
		}
		filter.UserID = viewer.UserID
	}

	prompts, err := s.promptRepo.List(ctx, filter)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	return s.buildViews(ctx, viewer, prompts)
}

// GetPrompt returns one prompt by ID with viewer annotations.
func (s *BrowseService) GetPrompt(ctx context.Context, viewer *domain.Identity, id string) (*domain.PromptView, error) {
	prompt, err := s.promptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("prompt")
		}
		return nil, apperr.Storage(err)
	}

	views, err := s.buildViews(ctx, viewer, []domain.Prompt{*prompt})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// buildViews annotates prompts with favorite flags (one query for the whole
// page) and image URLs.
func (s *BrowseService) buildViews(ctx context.Context, viewer *domain.Identity, prompts []domain.Prompt) ([]domain.PromptView, error) {
	ids := make([]string, len(prompts))
	for i, p := range prompts {
		ids[i] = p.ID
	}

	viewerID := ""
	if viewer != nil {
		viewerID = viewer.UserID
	}
	favorited, err := s.favoriteRepo.FavoritedSet(ctx, viewerID, ids)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	assets, err := s.imageRepo.ByPromptIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	views := make([]domain.PromptView, len(prompts))
	for i, p := range prompts {
		views[i] = domain.PromptView{
			Prompt:      p,
			IsFavorited: favorited[p.ID],
		}
		if asset, ok := assets[p.ID]; ok {
			views[i].ImageURL = s.storage.GetURL(asset.StorageKey)
		}
	}
	return views, nil
}
