package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/buxiq/internal/domain/model"
	pkgAuth "github.com/polkiloo/buxiq/internal/pkg/auth"
	"github.com/polkiloo/buxiq/internal/server/http/dto"
)

const (
	// AccountContextKey is a gin context key for the authenticated account number.
	AccountContextKey = "account"
	authCookieName    = "buxiq_token"
)

// SessionVerifier resolves tokens against the live session.
type SessionVerifier interface {
	ParseToken(token string) (string, error)
	CurrentUser() (model.UserRecord, bool)
}

// AuthRequired ensures the token belongs to the account that is currently logged in.
func AuthRequired(verifier SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abort(c, http.StatusUnauthorized, "not_authenticated", "Please log in.")
			return
		}

		account, err := verifier.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				abort(c, http.StatusUnauthorized, "not_authenticated", "Please log in.")
				return
			}
			abort(c, http.StatusInternalServerError, "internal", "Something went wrong.")
			return
		}

		user, ok := verifier.CurrentUser()
		if !ok || user.Account != account {
			abort(c, http.StatusUnauthorized, "session_expired", "Your session has ended. Please log in again.")
			return
		}

		c.Set(AccountContextKey, account)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}

// ClearAuthCookie expires the auth cookie.
func ClearAuthCookie(c *gin.Context) {
	c.SetCookie(authCookieName, "", -1, "/", "", false, true)
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: code, Message: message})
}
