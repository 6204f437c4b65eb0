package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jlin/promptfinder/internal/apperr"
	"github.com/jlin/promptfinder/internal/domain"
	"github.com/jlin/promptfinder/internal/repository"
	"gorm.io/gorm"
)

// PackService manages user-curated prompt packs. Only the creator may mutate
// a pack; private packs are visible to the creator alone.
type PackService struct {
	packRepo   *repository.PackRepository
	promptRepo *repository.PromptRepository
	browse     *BrowseService
}

// NewPackService creates a new pack service.
func NewPackService(
	packRepo *repository.PackRepository,
	promptRepo *repository.PromptRepository,
	browse *BrowseService,
) *PackService {
	return &PackService{
		packRepo:   packRepo,
		promptRepo: promptRepo,
		browse:     browse,
	}
}

// CreatePack creates a new pack owned by the caller.
func (s *PackService) CreatePack(ctx context.Context, identity domain.Identity, name, description string, isPublic bool) (*domain.PromptPack, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("pack name is required")
	}

	pack := &domain.PromptPack{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		CreatedBy:   identity.UserID,
		IsPublic:    isPublic,
	}
	if err := s.packRepo.Create(ctx, pack); err != nil {
		return nil, apperr.Storage(err)
	}
	return pack, nil
}

// UpdatePack updates name, description, and visibility. Creator only.
func (s *PackService) UpdatePack(ctx context.Context, identity domain.Identity, packID, name, description string, isPublic bool) (*domain.PromptPack, error) {
	pack, err := s.ownedPack(ctx, identity, packID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("pack name is required")
	}

	pack.Name = name
	pack.Description = description
	pack.IsPublic = isPublic
	if err := s.packRepo.Update(ctx, pack); err != nil {
		return nil, apperr.Storage(err)
	}
	return pack, nil
}

// ListPacks returns public packs plus, for an authenticated viewer, their
// own private packs.
func (s *PackService) ListPacks(ctx context.Context, viewer *domain.Identity) ([]domain.PromptPack, error) {
	packs, err := s.packRepo.ListPublic(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	if viewer != nil {
		mine, err := s.packRepo.ListByCreator(ctx, viewer.UserID)
		if err != nil {
			return nil, apperr.Storage(err)
		}
		seen := make(map[string]bool, len(packs))
		for _, p := range packs {
			seen[p.ID] = true
		}
		for _, p := range mine {
			if !seen[p.ID] {
				packs = append(packs, p)
			}
		}
	}
	return packs, nil
}

// GetPack returns a pack with its member prompts. Private packs are visible
// only to their creator.
func (s *PackService) GetPack(ctx context.Context, viewer *domain.Identity, packID string) (*domain.PackView, error) {
	pack, err := s.packRepo.GetByID(ctx, packID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("pack")
		}
		return nil, apperr.Storage(err)
	}

	if !pack.IsPublic && (viewer == nil || viewer.UserID != pack.CreatedBy) {
		return nil, apperr.NotFound("pack")
	}

	ids, err := s.packRepo.ItemIDs(ctx, packID)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	prompts, err := s.promptRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	views, err := s.browse.buildViews(ctx, viewer, prompts)
	if err != nil {
		return nil, err
	}

	return &domain.PackView{PromptPack: *pack, Prompts: views}, nil
}

// AddPrompt links a prompt into the caller's pack. Adding a prompt that is
// already a member is a no-op, not an error.
func (s *PackService) AddPrompt(ctx context.Context, identity domain.Identity, packID, promptID string) error {
	if _, err := s.ownedPack(ctx, identity, packID); err != nil {
		return err
	}

	if _, err := s.promptRepo.GetByID(ctx, promptID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("prompt")
		}
		return apperr.Storage(err)
	}

	if err := s.packRepo.AddItem(ctx, &domain.PromptPackItem{
		PackID:   packID,
		PromptID: promptID,
	}); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// RemovePrompt unlinks a prompt from the caller's pack.
func (s *PackService) RemovePrompt(ctx context.Context, identity domain.Identity, packID, promptID string) error {
	if _, err := s.ownedPack(ctx, identity, packID); err != nil {
		return err
	}

	removed, err := s.packRepo.RemoveItem(ctx, packID, promptID)
	if err != nil {
		return apperr.Storage(err)
	}
	if !removed {
		return apperr.NotFound("pack item")
	}
	return nil
}

// ownedPack loads the pack and verifies the caller created it.
func (s *PackService) ownedPack(ctx context.Context, identity domain.Identity, packID string) (*domain.PromptPack, error) {
	pack, err := s.packRepo.GetByID(ctx, packID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("pack")
		}
		return nil, apperr.Storage(err)
	}
	if pack.CreatedBy != identity.UserID {
		return nil, apperr.Forbidden("only the pack creator can modify it")
	}
	return pack, nil
}
