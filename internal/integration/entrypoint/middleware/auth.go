// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/procure-match/backend/internal/application/adapter"
	domainerror "github.com/procure-match/backend/internal/domain/error"
	"github.com/procure-match/backend/internal/integration/entrypoint/dto"
)

// ContextKey is a type for context keys.
type ContextKey string

const (
	// ReviewerIDKey is the context key for the authenticated reviewer's ID.
	ReviewerIDKey ContextKey = "reviewer_id"
	// ReviewerEmailKey is the context key for the authenticated reviewer's email.
	ReviewerEmailKey ContextKey = "reviewer_email"
)

// AuthMiddleware provides JWT authentication middleware.
type AuthMiddleware struct {
	tokenService adapter.TokenService
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(tokenService adapter.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// Authenticate returns a Gin middleware handler that enforces JWT authentication.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "Authorization header is required",
				Code:  string(domainerror.ErrCodeMissingToken),
			})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "Invalid authorization header format",
				Code:  string(domainerror.ErrCodeInvalidToken),
			})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "Token is required",
				Code:  string(domainerror.ErrCodeMissingToken),
			})
			c.Abort()
			return
		}

		claims, err := m.tokenService.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "Invalid or expired token",
				Code:  string(domainerror.ErrCodeInvalidToken),
			})
			c.Abort()
			return
		}

		// Store reviewer info in context
		c.Set(string(ReviewerIDKey), claims.ReviewerID)
		c.Set(string(ReviewerEmailKey), claims.Email)

		c.Next()
	}
}

// GetReviewerIDFromContext extracts the reviewer ID from the Gin context.
func GetReviewerIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	reviewerID, exists := c.Get(string(ReviewerIDKey))
	if !exists {
		return uuid.Nil, false
	}
	id, ok := reviewerID.(uuid.UUID)
	return id, ok
}

// GetReviewerEmailFromContext extracts the reviewer email from the Gin context.
func GetReviewerEmailFromContext(c *gin.Context) (string, bool) {
	email, exists := c.Get(string(ReviewerEmailKey))
	if !exists {
		return "", false
	}
	emailStr, ok := email.(string)
	return emailStr, ok
}
