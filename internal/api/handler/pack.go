package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jlin/promptfinder/internal/api/middleware"
	"github.com/jlin/promptfinder/internal/apperr"
	"github.com/jlin/promptfinder/internal/service"
)

// PackHandler handles prompt pack endpoints.
type PackHandler struct {
	packService *service.PackService
}

// NewPackHandler creates a new pack handler.
func NewPackHandler(packService *service.PackService) *PackHandler {
	return &PackHandler{
		packService: packService,
	}
}

type packRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

type packItemRequest struct {
	PromptID string `json:"prompt_id"`
}

// CreatePack handles POST /api/v1/packs.
func (h *PackHandler) CreatePack(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		respondError(c, apperr.Unauthorized(""))
		return
	}

	var req packRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	pack, err := h.packService.CreatePack(c.Request.Context(), *identity, req.Name, req.Description, req.IsPublic)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, pack)
}

// UpdatePack handles PUT /api/v1/packs/:id.
func (h *PackHandler) UpdatePack(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		respondError(c, apperr.Unauthorized(""))
		return
	}

	var req packRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	pack, err := h.packService.UpdatePack(c.Request.Context(), *identity, c.Param("id"), req.Name, req.Description, req.IsPublic)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pack)
}

// ListPacks handles GET /api/v1/packs.
func (h *PackHandler) ListPacks(c *gin.Context) {
	packs, err := h.packService.ListPacks(c.Request.Context(), middleware.GetIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"packs": packs,
		"total": len(packs),
	})
}

// GetPack handles GET /api/v1/packs/:id.
func (h *PackHandler) GetPack(c *gin.Context) {
	view, err := h.packService.GetPack(c.Request.Context(), middleware.GetIdentity(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// AddPrompt handles POST /api/v1/packs/:id/prompts.
func (h *PackHandler) AddPrompt(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		respondError(c, apperr.Unauthorized(""))
		return
	}

	var req packItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PromptID == "" {
		respondError(c, apperr.Validation("prompt_id is required"))
		return
	}

	if err := h.packService.AddPrompt(c.Request.Context(), *identity, c.Param("id"), req.PromptID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"added": true})
}

// RemovePrompt handles DELETE /api/v1/packs/:id/prompts/:promptId.
func (h *PackHandler) RemovePrompt(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		respondError(c, apperr.Unauthorized(""))
		return
	}

	if err := h.packService.RemovePrompt(c.Request.Context(), *identity, c.Param("id"), c.Param("promptId")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": true})
}
