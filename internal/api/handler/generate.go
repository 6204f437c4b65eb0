package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jlin/promptfinder/internal/api/middleware"
	"github.com/jlin/promptfinder/internal/apperr"
	"github.com/jlin/promptfinder/internal/service"
)

// maxUploadBytes caps multipart image uploads at 10 MB.
const maxUploadBytes = 10 << 20

// GenerateHandler handles the image-to-prompt endpoint.
type GenerateHandler struct {
	generateService *service.GenerateService
}

// NewGenerateHandler creates a new generate handler.
// Parameters:
//   - generateService: generation pipeline service.
// Returns:
//   - *GenerateHandler: initialized handler.
func NewGenerateHandler(generateService *service.GenerateService) *GenerateHandler {
	return &GenerateHandler{
		generateService: generateService,
	}
}

// Generate handles POST /api/v1/generate.
// Expects a multipart form with an "image" file. Rate-limit admission runs
// in middleware before this handler.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *GenerateHandler) Generate(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		respondError(c, apperr.Unauthorized(""))
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		respondError(c, apperr.Validation("no image file uploaded"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		respondError(c, apperr.Validation("could not read uploaded file"))
		return
	}
	if len(data) > maxUploadBytes {
		respondError(c, apperr.Validation("image exceeds the 10MB upload limit"))
		return
	}

	view, err := h.generateService.Generate(c.Request.Context(), *identity, service.Upload{
		Filename: header.Filename,
		Data:     data,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         view.ID,
		"prompt":     view.PromptText,
		"style_tags": view.StyleTags,
		"image_url":  view.ImageURL,
	})
}
