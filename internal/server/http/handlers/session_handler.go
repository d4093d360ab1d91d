package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/buxiq/internal/server/http/dto"
	"github.com/polkiloo/buxiq/internal/server/http/middleware"
)

// SessionHandler processes captcha, login and session lifecycle requests.
type SessionHandler struct {
	facade SessionFacade
}

// NewSessionHandler creates SessionHandler instance.
func NewSessionHandler(facade SessionFacade) *SessionHandler {
	return &SessionHandler{facade: facade}
}

// Captcha handles GET /api/session/captcha.
func (h *SessionHandler) Captcha(c *gin.Context) {
	c.JSON(http.StatusOK, dto.CaptchaResponse{Captcha: h.facade.Captcha()})
}

// RotateCaptcha handles POST /api/session/captcha.
func (h *SessionHandler) RotateCaptcha(c *gin.Context) {
	c.JSON(http.StatusOK, dto.CaptchaResponse{Captcha: h.facade.RotateCaptcha()})
}

// Login handles POST /api/session/login.
func (h *SessionHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	token, user, err := h.facade.Login(c.Request.Context(), req.AccountNumber, req.ClientID, req.Captcha)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, User: toUserResponse(user)})
}

// Logout handles POST /api/session/logout.
func (h *SessionHandler) Logout(c *gin.Context) {
	h.facade.Logout(c.Request.Context())
	middleware.ClearAuthCookie(c)
	c.Status(http.StatusNoContent)
}

// Current handles GET /api/session.
func (h *SessionHandler) Current(c *gin.Context) {
	user, ok := h.facade.CurrentUser()
	if !ok || user.Account != CurrentAccount(c) {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "session_expired", Message: "Your session has ended. Please log in again."})
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// Refresh handles POST /api/session/refresh.
func (h *SessionHandler) Refresh(c *gin.Context) {
	user, err := h.facade.Refresh(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}
