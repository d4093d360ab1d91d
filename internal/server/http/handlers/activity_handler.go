package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/buxiq/internal/server/http/dto"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

// ActivityHandler serves the public payout feed.
type ActivityHandler struct {
	facade ActivityFacade
}

// NewActivityHandler creates ActivityHandler.
func NewActivityHandler(facade ActivityFacade) *ActivityHandler {
	return &ActivityHandler{facade: facade}
}

// List handles GET /api/activity.
func (h *ActivityHandler) List(c *gin.Context) {
	limit := defaultActivityLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(c)
			return
		}
		limit = min(n, maxActivityLimit)
	}

	entries := h.facade.Activity(c.Request.Context(), limit)
	resp := make([]dto.ActivityEntry, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.ActivityEntry{Username: e.Username, Amount: e.Amount.StringFixed(2)})
	}
	c.JSON(http.StatusOK, resp)
}
