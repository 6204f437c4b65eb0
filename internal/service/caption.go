package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jlin/promptfinder/internal/apperr"
	"github.com/jlin/promptfinder/internal/logger"
	_ "golang.org/x/image/webp"
)

// CaptionService obtains a descriptive caption for an image by trying an
// ordered list of hosted captioning models, falling back to a deterministic
// local heuristic when every candidate fails. For a well-formed image it
// always returns some text.
type CaptionService struct {
	client  *resty.Client
	baseURL string
	models  []string
	timeout time.Duration
}

// CaptionConfig holds configuration for the caption service.
type CaptionConfig struct {
	APIKey  string
	BaseURL string
	Models  []string
	Timeout time.Duration
}

// NewCaptionService creates a new caption service.
// Parameters:
//   - cfg: provider configuration including API key and candidate model list.
// Returns:
//   - *CaptionService: initialized client wrapper.
func NewCaptionService(cfg *CaptionConfig) *CaptionService {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	// Per-candidate timeout; the overall deadline is the caller's context
	client.SetTimeout(timeout)

	return &CaptionService{
		client:  client,
		baseURL: cfg.BaseURL,
		models:  cfg.Models,
		timeout: timeout,
	}
}

// inference API response shapes vary by model; each known field is checked
type inferenceResult struct {
	GeneratedText string `json:"generated_text"`
	Text          string `json:"text"`
}

func (r inferenceResult) caption() (string, bool) {
	if r.GeneratedText != "" {
		return r.GeneratedText, true
	}
	if r.Text != "" {
		return r.Text, true
	}
	return "", false
}

// Caption generates a description for an image.
// Parameters:
//   - ctx: context for cancellation; aborting it stops outstanding calls.
//   - imageData: raw image bytes.
// Returns:
//   - string: caption text, from a provider or the local heuristic.
//   - string: detected image format (jpeg, png, gif, webp).
//   - error: ValidationError for empty or undecodable input, or the context's
//     error if the caller aborted. Provider failures are never surfaced.
func (s *CaptionService) Caption(ctx context.Context, imageData []byte) (string, string, error) {
	if len(imageData) == 0 {
		return "", "", apperr.Validation("image data is empty")
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return "", "", apperr.Validation("unsupported or corrupt image format")
	}

	for i, model := range s.models {
		if ctx.Err() != nil {
			return "", "", ctx.Err()
		}

		text, err := s.tryModel(ctx, model, imageData, format)
		if err != nil {
			// Swallowed while candidates remain; the fallback covers the rest
			logger.FromContext(ctx).WithFields(logger.Fields{
				logger.FieldProvider: model,
				"candidate":          i + 1,
			}).WithError(err).Debug("caption candidate failed")
			continue
		}

		logger.FromContext(ctx).WithField(logger.FieldProvider, model).
			Debug("caption candidate succeeded")
		return text, format, nil
	}

	if ctx.Err() != nil {
		return "", "", ctx.Err()
	}

	logger.CtxInfo(ctx, "all caption candidates failed, using heuristic caption")
	return heuristicCaption(format, int64(len(imageData))), format, nil
}

// tryModel performs one provider attempt with a per-candidate timeout.
func (s *CaptionService) tryModel(ctx context.Context, model string, imageData []byte, format string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/models/%s", s.baseURL, model)
	resp, err := s.client.R().
		SetContext(attemptCtx).
		SetHeader("Content-Type", mimeTypeFor(format)).
		SetBody(imageData).
		Post(endpoint)
	if err != nil {
		return "", fmt.Errorf("failed to call inference API: %w", err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return "", fmt.Errorf("inference API returned HTTP %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	text, ok := parseCaptionResponse(resp.Body())
	if !ok {
		return "", fmt.Errorf("no caption text in response: %s", string(resp.Body()))
	}
	return text, nil
}

// parseCaptionResponse normalizes the provider response shapes: an array of
// results or a single object, each carrying generated_text or text.
func parseCaptionResponse(body []byte) (string, bool) {
	var list []inferenceResult
	if err := json.Unmarshal(body, &list); err == nil {
		for _, item := range list {
			if text, ok := item.caption(); ok {
				return text, true
			}
		}
		return "", false
	}

	var single inferenceResult
	if err := json.Unmarshal(body, &single); err == nil {
		return single.caption()
	}
	return "", false
}

// Base heuristic phrases keyed by decoded format. Fixed per format so the
// fallback caption is reproducible for identical input.
var heuristicByFormat = map[string]string{
	"jpeg": "a high-quality photograph with excellent composition and natural lighting, professional photography",
	"png":  "a clean, high-contrast image with sharp edges and vibrant colors, digital artwork quality",
	"webp": "a modern web-optimized image with excellent compression and quality, contemporary style",
	"gif":  "an animated sequence, likely a short, looping clip, digital art or video snippet",
}

const heuristicDefault = "a high-quality digital image with excellent composition and professional quality"

// heuristicCaption derives a plausible generic caption from image metadata
// alone: format plus a file-size bucket.
func heuristicCaption(format string, size int64) string {
	base, ok := heuristicByFormat[format]
	if !ok {
		base = heuristicDefault
	}

	switch {
	case size > 5*1024*1024:
		return "a very large, high-resolution image: " + base
	case size > 1*1024*1024:
		return "a high-resolution image: " + base
	case size < 100*1024:
		return "a small, web-optimized image: " + base
	default:
		return base
	}
}

// mimeTypeFor maps a decoded image format to its MIME type.
func mimeTypeFor(format string) string {
	switch format {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
