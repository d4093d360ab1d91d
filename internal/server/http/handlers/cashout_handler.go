package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/buxiq/internal/domain/errors"
	"github.com/polkiloo/buxiq/internal/domain/model"
	"github.com/polkiloo/buxiq/internal/server/http/dto"
)

// CashoutHandler exposes redemption endpoints.
type CashoutHandler struct {
	facade CashoutFacade
}

// NewCashoutHandler creates CashoutHandler.
func NewCashoutHandler(facade CashoutFacade) *CashoutHandler {
	return &CashoutHandler{facade: facade}
}

// Request handles POST /api/cashout.
func (h *CashoutHandler) Request(c *gin.Context) {
	var req dto.CashoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	receipt, err := h.facade.Cashout(c.Request.Context(), model.CashoutRequest{
		Amount:        string(req.Amount),
		RewardType:    req.RewardType,
		Email:         req.Email,
		WalletAddress: req.WalletAddress,
	})
	if errors.Is(err, domainErrors.ErrBelowMinimum) {
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:   "below_minimum",
			Message: belowMinimumMessage(h.facade.MinCashoutPoints()),
		})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CashoutResponse{
		ID:         receipt.ID,
		Points:     receipt.Points,
		USD:        json.Number(receipt.USD.StringFixed(2)),
		NewBalance: number(receipt.NewBalance),
		RewardType: string(receipt.RewardType),
		Confirmed:  receipt.Confirmed,
	})
}

// History handles GET /api/cashouts.
func (h *CashoutHandler) History(c *gin.Context) {
	items, summary, err := h.facade.Cashouts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.CashoutHistoryResponse{
		Count:  summary.Count,
		Points: summary.Points,
		USD:    json.Number(summary.USD.StringFixed(2)),
		Items:  make([]dto.CashoutEntry, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.CashoutEntry{
			ID:            item.ID,
			Points:        item.Points,
			USD:           json.Number(item.USD.StringFixed(2)),
			RewardType:    string(item.RewardType),
			Email:         item.Email,
			WalletAddress: item.WalletAddress,
			RequestedAt:   item.RequestedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Rewards handles GET /api/rewards.
func (h *CashoutHandler) Rewards(c *gin.Context) {
	rewards := h.facade.Rewards()
	resp := dto.RewardsResponse{
		MinPoints:       h.facade.MinCashoutPoints(),
		PointsPerDollar: model.PointsPerDollar,
		FeePoints:       model.CashoutFeePoints,
		Rewards:         make([]dto.RewardEntry, 0, len(rewards)),
	}
	for _, r := range rewards {
		resp.Rewards = append(resp.Rewards, dto.RewardEntry{Type: string(r.Type), Name: r.Name, Requires: string(r.Delivery)})
	}
	c.JSON(http.StatusOK, resp)
}
