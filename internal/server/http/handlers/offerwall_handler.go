package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/buxiq/internal/server/http/dto"
)

// OfferwallHandler lists and opens offerwalls.
type OfferwallHandler struct {
	facade OfferwallFacade
}

// NewOfferwallHandler creates OfferwallHandler.
func NewOfferwallHandler(facade OfferwallFacade) *OfferwallHandler {
	return &OfferwallHandler{facade: facade}
}

// List handles GET /api/offerwalls.
func (h *OfferwallHandler) List(c *gin.Context) {
	walls := h.facade.Offerwalls()
	resp := make([]dto.OfferwallResponse, 0, len(walls))
	for _, w := range walls {
		resp = append(resp, dto.OfferwallResponse{
			ID:          w.ID,
			Name:        w.Name,
			Category:    w.Category,
			Description: w.Description,
			Logo:        w.Logo,
			Badge:       w.Badge,
			Kind:        string(w.Kind),
			Tracked:     w.Tracked,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Open handles POST /api/offerwalls/:id/open.
func (h *OfferwallHandler) Open(c *gin.Context) {
	launch, err := h.facade.OpenOfferwall(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.LaunchResponse{Kind: string(launch.Kind), URL: launch.URL})
}
