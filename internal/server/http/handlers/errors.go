package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/buxiq/internal/domain/errors"
	"github.com/polkiloo/buxiq/internal/domain/model"
	"github.com/polkiloo/buxiq/internal/server/http/dto"
)

type apiError struct {
	status  int
	code    string
	message string
}

var knownErrors = []struct {
	target error
	apiError
}{
	{domainErrors.ErrInvalidCaptcha, apiError{http.StatusBadRequest, "invalid_captcha", "Please enter the correct CAPTCHA code."}},
	{domainErrors.ErrInvalidCredentials, apiError{http.StatusUnauthorized, "invalid_credentials", "Please check your account number and client ID."}},
	{domainErrors.ErrAccountBlocked, apiError{http.StatusForbidden, "account_blocked", "Your account is blocked."}},
	{domainErrors.ErrNetworkUnavailable, apiError{http.StatusServiceUnavailable, "network_unavailable", "Error loading data. Please try again."}},
	{domainErrors.ErrNotAuthenticated, apiError{http.StatusUnauthorized, "not_authenticated", "Please log in."}},
	{domainErrors.ErrInvalidAmount, apiError{http.StatusUnprocessableEntity, "invalid_amount", "Please enter a valid whole number of points."}},
	{domainErrors.ErrBelowMinimum, apiError{http.StatusUnprocessableEntity, "below_minimum", belowMinimumMessage(model.MinCashoutPoints)}},
	{domainErrors.ErrInsufficientBalance, apiError{http.StatusUnprocessableEntity, "insufficient_balance", "You don't have enough points."}},
	{domainErrors.ErrRewardRequired, apiError{http.StatusUnprocessableEntity, "reward_required", "Please select a reward."}},
	{domainErrors.ErrMissingWalletAddress, apiError{http.StatusUnprocessableEntity, "missing_wallet_address", "Please enter your wallet address."}},
	{domainErrors.ErrMissingEmail, apiError{http.StatusUnprocessableEntity, "missing_email", "Please enter your email."}},
	{domainErrors.ErrCashoutInProgress, apiError{http.StatusConflict, "cashout_in_progress", "A cashout is already being processed."}},
	{domainErrors.ErrPostbackFailed, apiError{http.StatusBadGateway, "postback_failed", "Your cashout could not be submitted. Your balance was not changed."}},
	{domainErrors.ErrUnknownOfferwall, apiError{http.StatusNotFound, "unknown_offerwall", "Offerwall not found."}},
}

var internalError = apiError{http.StatusInternalServerError, "internal", "Something went wrong."}

func classify(err error) apiError {
	for _, known := range knownErrors {
		if errors.Is(err, known.target) {
			return known.apiError
		}
	}
	return internalError
}

func respondError(c *gin.Context, err error) {
	e := classify(err)
	c.JSON(e.status, dto.ErrorResponse{Error: e.code, Message: e.message})
}

func belowMinimumMessage(points int64) string {
	return fmt.Sprintf("Minimum cashout is %d points.", points)
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "bad_request", Message: "Malformed request body."})
}
