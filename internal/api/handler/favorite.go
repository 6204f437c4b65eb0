package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jlin/promptfinder/internal/api/middleware"
	"github.com/jlin/promptfinder/internal/apperr"
	"github.com/jlin/promptfinder/internal/service"
)

// FavoriteHandler handles the favorite toggle endpoint.
type FavoriteHandler struct {
	favoriteService *service.FavoriteService
}

// NewFavoriteHandler creates a new favorite handler.
func NewFavoriteHandler(favoriteService *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
	}
}

type favoriteRequest struct {
	PromptID string `json:"prompt_id"`
}

// Toggle handles POST /api/v1/favorite.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		respondError(c, apperr.Unauthorized(""))
		return
	}

	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("invalid request body: %v", err))
		return
	}

	favorited, err := h.favoriteService.ToggleFavorite(c.Request.Context(), req.PromptID, identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favorited": favorited,
	})
}
