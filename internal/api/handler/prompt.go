package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jlin/promptfinder/internal/api/middleware"
	"github.com/jlin/promptfinder/internal/apperr"
	"github.com/jlin/promptfinder/internal/service"
)

// PromptHandler handles prompt browsing endpoints.
type PromptHandler struct {
	browseService *service.BrowseService
}

// NewPromptHandler creates a new prompt handler.
// Parameters:
//   - browseService: browse service instance.
// Returns:
//   - *PromptHandler: initialized handler.
func NewPromptHandler(browseService *service.BrowseService) *PromptHandler {
	return &PromptHandler{
		browseService: browseService,
	}
}

// ListPrompts handles GET /api/v1/prompts.
// Query parameters: page, scope (all|history), search, sort (newest|rating),
// tags (comma-separated).
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *PromptHandler) ListPrompts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	req := service.ListRequest{
		Page:   page,
		Scope:  c.DefaultQuery("scope", "all"),
		Search: c.Query("search"),
		Sort:   c.DefaultQuery("sort", "newest"),
	}
	if tags := c.Query("tags"); tags != "" {
		req.Tags = strings.Split(tags, ",")
	}

	prompts, err := h.browseService.ListPrompts(c.Request.Context(), middleware.GetIdentity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"prompts": prompts,
		"page":    page,
	})
}

// GetPrompt handles GET /api/v1/prompts/:id.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *PromptHandler) GetPrompt(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondError(c, apperr.Validation("prompt ID is required"))
		return
	}

	view, err := h.browseService.GetPrompt(c.Request.Context(), middleware.GetIdentity(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
