package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"studio-booking/internal/handler/httperr"
	"studio-booking/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// TokenValidator resolves a bearer token to a user id.
type TokenValidator interface {
	ValidateToken(token string) (int64, error)
}

type jwtValidator struct {
	svc *jwt.Service
}

func NewJWTValidator(svc *jwt.Service) TokenValidator {
	return &jwtValidator{svc: svc}
}

func (v *jwtValidator) ValidateToken(token string) (int64, error) {
	claims, err := v.svc.ValidateToken(token)
	if err != nil {
		return 0, err
	}
	return claims.UserID()
}

type AuthMiddleware struct {
	tokenValidator TokenValidator
}

const ctxUserIDKey = "user_id"

func NewAuthMiddleware(tokenValidator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	resp := httperr.Response{Status: http.StatusUnauthorized}
	resp.Error.Message = msg
	resp.Error.Code = httperr.CodeUnauthorized
	c.AbortWithStatusJSON(http.StatusUnauthorized, resp)
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthorized(c, "Access token required")
			return
		}

		userID, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ctxUserIDKey, userID)
		c.Next()
	}
}

// OptionalAuth authenticates the request if a token is present. A present
// but invalid token is rejected so a guest booking is never created by mistake.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		userID, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ctxUserIDKey, userID)
		c.Next()
	}
}

func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get(ctxUserIDKey)
	if !exists {
		return 0, false
	}

	id, ok := userID.(int64)
	return id, ok
}

// UserIDPtr returns the authenticated user id or nil for anonymous requests.
func UserIDPtr(c *gin.Context) *int64 {
	if id, ok := GetUserID(c); ok {
		return &id
	}
	return nil
}
