// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	domainerror "github.com/receipt-ledger/backend/internal/domain/error"
	"github.com/receipt-ledger/backend/internal/integration/entrypoint/dto"
)

// Gin context keys written by Authenticate.
const (
	ctxUserID    = "authUserID"
	ctxUserEmail = "authUserEmail"
)

// AuthMiddleware guards routes behind a valid access token.
type AuthMiddleware struct {
	tokenService adapter.TokenService
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(tokenService adapter.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// Authenticate validates the bearer token and stores the caller's identity
// on the request context for the handlers behind it.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")

		switch {
		case header == "":
			unauthorized(c, domainerror.ErrCodeMissingToken, "Authorization header is required")
		case !found || scheme != "Bearer":
			unauthorized(c, domainerror.ErrCodeInvalidToken, "Invalid authorization header format")
		case token == "":
			unauthorized(c, domainerror.ErrCodeMissingToken, "Token is required")
		default:
			claims, err := m.tokenService.ValidateAccessToken(c.Request.Context(), token)
			if err != nil {
				unauthorized(c, domainerror.ErrCodeInvalidToken, "Invalid or expired token")
				return
			}
			c.Set(ctxUserID, claims.UserID)
			c.Set(ctxUserEmail, claims.Email)
			c.Next()
		}
	}
}

func unauthorized(c *gin.Context, code domainerror.AuthErrorCode, message string) {
	c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: message,
		Code:  string(code),
	})
	c.Abort()
}

// GetUserIDFromContext extracts the authenticated user's ID from the Gin
// context.
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(ctxUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// GetUserEmailFromContext extracts the authenticated user's email from the
// Gin context.
func GetUserEmailFromContext(c *gin.Context) (string, bool) {
	value, exists := c.Get(ctxUserEmail)
	if !exists {
		return "", false
	}
	email, ok := value.(string)
	return email, ok
}
