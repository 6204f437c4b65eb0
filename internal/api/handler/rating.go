package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jlin/promptfinder/internal/api/middleware"
	"github.com/jlin/promptfinder/internal/apperr"
	"github.com/jlin/promptfinder/internal/service"
)

// RatingHandler handles rating submission.
type RatingHandler struct {
	ratingService *service.RatingService
}

// NewRatingHandler creates a new rating handler.
func NewRatingHandler(ratingService *service.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
	}
}

type rateRequest struct {
	PromptID string `json:"prompt_id"`
	Rating   int    `json:"rating"`
}

// Rate handles POST /api/v1/rate.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *RatingHandler) Rate(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		respondError(c, apperr.Unauthorized(""))
		return
	}

	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("invalid request body: %v", err))
		return
	}
	if req.PromptID == "" {
		respondError(c, apperr.Validation("prompt_id and rating are required"))
		return
	}

	summary, err := h.ratingService.SubmitRating(c.Request.Context(), req.PromptID, identity.UserID, req.Rating)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"average": summary.Average,
		"count":   summary.Count,
	})
}
