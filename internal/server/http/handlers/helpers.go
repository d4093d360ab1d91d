package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/buxiq/internal/domain/model"
	"github.com/polkiloo/buxiq/internal/server/http/dto"
	"github.com/polkiloo/buxiq/internal/server/http/middleware"
)

// CurrentAccount extracts the authenticated account number from context.
func CurrentAccount(c *gin.Context) string {
	val, ok := c.Get(middleware.AccountContextKey)
	if !ok {
		return ""
	}
	account, _ := val.(string)
	return account
}

func toUserResponse(u model.UserRecord) dto.UserResponse {
	resp := dto.UserResponse{
		AccountNumber:        u.Account,
		Username:             u.Username,
		Avatar:               u.Avatar,
		Status:               u.Status,
		Level:                u.Level,
		Promo:                u.Promo,
		Email:                u.Email,
		Balance:              number(u.Balance),
		USDEquivalent:        usdDisplay(u.Balance),
		OfferwallClicksToday: u.OfferwallClicksToday,
	}
	if !u.LastOfferwallClick.IsZero() {
		last := u.LastOfferwallClick
		resp.LastOfferwallClick = &last
	}
	return resp
}

// usdDisplay renders the dollar value of a balance, clamped at zero below the fee.
func usdDisplay(balance decimal.Decimal) string {
	usd := model.USDEquivalent(balance)
	if usd.IsNegative() {
		usd = decimal.Zero
	}
	return usd.StringFixed(2)
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
