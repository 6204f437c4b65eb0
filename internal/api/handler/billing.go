package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jlin/promptfinder/internal/apperr"
	"github.com/jlin/promptfinder/internal/config"
	"github.com/jlin/promptfinder/internal/domain"
	"github.com/jlin/promptfinder/internal/logger"
	"github.com/jlin/promptfinder/internal/repository"
)

const maxWebhookBytes = 64 << 10

// BillingHandler processes payment provider webhooks. The only event acted on
// is a completed checkout, which upgrades the purchasing user to premium.
type BillingHandler struct {
	cfg         config.BillingConfig
	profileRepo *repository.ProfileRepository
}

// NewBillingHandler creates a new billing webhook handler.
func NewBillingHandler(cfg config.BillingConfig, profileRepo *repository.ProfileRepository) *BillingHandler {
	return &BillingHandler{
		cfg:         cfg,
		profileRepo: profileRepo,
	}
}

type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ClientReferenceID string `json:"client_reference_id"`
		} `json:"object"`
	} `json:"data"`
}

// Webhook handles POST /api/v1/billing/webhook.
//
// The request body is authenticated with an HMAC-SHA256 signature carried in
// the X-Webhook-Signature header (hex-encoded over the raw body). Unknown
// event types are acknowledged without action so the provider stops retrying.
func (h *BillingHandler) Webhook(c *gin.Context) {
	log := logger.FromContext(c.Request.Context())

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		respondError(c, apperr.Validation("failed to read webhook body"))
		return
	}

	if !h.verifySignature(body, c.GetHeader("X-Webhook-Signature")) {
		log.Warn("rejected webhook with invalid signature")
		respondError(c, apperr.Unauthorized("invalid webhook signature"))
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		respondError(c, apperr.Validation("invalid webhook payload: %v", err))
		return
	}

	if event.Type != "checkout.session.completed" {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	userID := event.Data.Object.ClientReferenceID
	if userID == "" {
		respondError(c, apperr.Validation("checkout event missing client_reference_id"))
		return
	}

	if err := h.profileRepo.SetTier(c.Request.Context(), userID, domain.TierPremium); err != nil {
		respondError(c, apperr.Storage(err))
		return
	}

	log.WithField(logger.FieldUserID, userID).Info("upgraded user to premium tier")
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *BillingHandler) verifySignature(body []byte, signature string) bool {
	if h.cfg.WebhookSecret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.cfg.WebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
