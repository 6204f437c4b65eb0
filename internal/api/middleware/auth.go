package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jlin/promptfinder/internal/apperr"
	"github.com/jlin/promptfinder/internal/domain"
	"github.com/jlin/promptfinder/internal/logger"
	"github.com/jlin/promptfinder/internal/repository"
)

const identityKey = "identity"

// Authenticator verifies bearer tokens issued by the external auth service
// and resolves the caller's subscription tier from their profile.
type Authenticator struct {
	secret      []byte
	profileRepo *repository.ProfileRepository
}

// NewAuthenticator creates an Authenticator with the shared JWT secret.
func NewAuthenticator(secret string, profileRepo *repository.ProfileRepository) *Authenticator {
	return &Authenticator{
		secret:      []byte(secret),
		profileRepo: profileRepo,
	}
}

// identityFromRequest verifies the Authorization header and builds the
// caller identity. Returns nil without error when no token is present.
func (a *Authenticator) identityFromRequest(c *gin.Context) (*domain.Identity, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, nil
	}

	raw := strings.TrimPrefix(header, "Bearer ")
	if raw == header {
		return nil, jwt.ErrTokenMalformed
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		if err == nil {
			err = jwt.ErrTokenUnverifiable
		}
		return nil, err
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, jwt.ErrTokenInvalidSubject
	}
	email, _ := claims["email"].(string)

	// Profile lookups failing is a backend problem, not a bad token
	ctx := c.Request.Context()
	if err := a.profileRepo.EnsureExists(ctx, sub, email); err != nil {
		return nil, apperr.Storage(err)
	}
	tier, err := a.profileRepo.TierOf(ctx, sub)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	return &domain.Identity{UserID: sub, Email: email, Tier: tier}, nil
}

// RequireAuth rejects unauthenticated requests with 401 and stores the
// verified identity for handlers.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := a.identityFromRequest(c)
		if err != nil || identity == nil {
			if abortOnStorageFailure(c, err) {
				return
			}
			if err != nil {
				logger.CtxDebug(c.Request.Context(), "token verification failed: %v", err)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "unauthorized", "message": "authentication required"},
			})
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// abortOnStorageFailure answers 500 when identity resolution failed on the
// persistence layer. The token itself may be perfectly valid; answering 401
// would send clients into pointless re-authentication.
func abortOnStorageFailure(c *gin.Context, err error) bool {
	if !apperr.IsCode(err, apperr.CodeStorageFailure) {
		return false
	}
	logger.FromContext(c.Request.Context()).WithError(err).Error("identity resolution failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{"code": string(apperr.CodeStorageFailure), "message": "could not resolve caller identity"},
	})
	return true
}

// OptionalAuth stores the identity when a valid token is present but lets
// anonymous requests through. An invalid token is treated as anonymous.
func (a *Authenticator) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := a.identityFromRequest(c)
		if abortOnStorageFailure(c, err) {
			return
		}
		if err == nil && identity != nil {
			setIdentity(c, identity)
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, identity *domain.Identity) {
	c.Set(identityKey, identity)

	ctx := logger.WithField(c.Request.Context(), logger.FieldUserID, identity.UserID)
	c.Request = c.Request.WithContext(ctx)
}

// GetIdentity extracts the verified identity from the Gin context, or nil
// for anonymous requests.
func GetIdentity(c *gin.Context) *domain.Identity {
	if v, exists := c.Get(identityKey); exists {
		if identity, ok := v.(*domain.Identity); ok {
			return identity
		}
	}
	return nil
}
