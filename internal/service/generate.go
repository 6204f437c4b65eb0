package service

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jlin/promptfinder/internal/apperr"
	"github.com/jlin/promptfinder/internal/domain"
	"github.com/jlin/promptfinder/internal/logger"
	"github.com/jlin/promptfinder/internal/repository"
	"github.com/jlin/promptfinder/internal/storage"
)

// GenerateService runs the image-to-prompt pipeline: obtain a caption,
// derive style tags, store the image blob, and persist the prompt record.
// Rate-limit admission happens before this service is invoked; the quota
// event stands even if the pipeline fails.
type GenerateService struct {
	promptRepo *repository.PromptRepository
	imageRepo  *repository.ImageRepository
	storage    storage.ObjectStorage
	caption    *CaptionService
	logger     *logger.Logger
}

// NewGenerateService creates a new generate service.
func NewGenerateService(
	promptRepo *repository.PromptRepository,
	imageRepo *repository.ImageRepository,
	objectStorage storage.ObjectStorage,
	caption *CaptionService,
	log *logger.Logger,
) *GenerateService {
	return &GenerateService{
		promptRepo: promptRepo,
		imageRepo:  imageRepo,
		storage:    objectStorage,
		caption:    caption,
		logger:     log,
	}
}

// Upload is one multipart image submission.
type Upload struct {
	Filename string
	Data     []byte
}

// Generate produces and persists a prompt for the uploaded image.
// Parameters:
//   - ctx: context for cancellation; aborting cancels outstanding provider calls.
//   - identity: verified caller.
//   - upload: image bytes and original filename.
// Returns:
//   - *domain.PromptView: persisted prompt with derived tags and image URL.
//   - error: ValidationError for a bad image, StorageFailure for persistence
//     errors. Caption provider failures never surface (heuristic fallback).
func (s *GenerateService) Generate(ctx context.Context, identity domain.Identity, upload Upload) (*domain.PromptView, error) {
	start := time.Now()

	text, format, err := s.caption.Caption(ctx, upload.Data)
	if err != nil {
		return nil, err
	}

	tags := ExtractStyleTags(text)

	storageKey := fmt.Sprintf("%s/%d-%s", identity.UserID, time.Now().UnixMilli(), sanitizeFilename(upload.Filename))
	size := int64(len(upload.Data))
	if err := s.storage.Upload(ctx, storageKey, bytes.NewReader(upload.Data), size, mimeTypeFor(format)); err != nil {
		return nil, apperr.Storage(err)
	}

	prompt := &domain.Prompt{
		ID:         uuid.New().String(),
		UserID:     identity.UserID,
		PromptText: text,
		StyleTags:  domain.StringArray(tags),
		Source:     domain.PromptSourceUpload,
	}
	if err := s.promptRepo.Create(ctx, prompt); err != nil {
		return nil, apperr.Storage(err)
	}

	asset := &domain.ImageAsset{
		ID:               uuid.New().String(),
		UserID:           identity.UserID,
		PromptID:         prompt.ID,
		StorageKey:       storageKey,
		OriginalFilename: upload.Filename,
		Format:           format,
		FileSize:         size,
	}
	if err := s.imageRepo.Create(ctx, asset); err != nil {
		return nil, apperr.Storage(err)
	}

	s.logger.WithFields(logger.Fields{
		logger.FieldUserID:     identity.UserID,
		logger.FieldPromptID:   prompt.ID,
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
		logger.FieldSize:       size,
	}).Info("prompt generated")

	return &domain.PromptView{
		Prompt:   *prompt,
		ImageURL: s.storage.GetURL(storageKey),
	}, nil
}

// sanitizeFilename strips path components and characters unsafe for storage
// keys.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." {
		return "upload"
	}
	return name
}
