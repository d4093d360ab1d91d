package dto

import (
	"encoding/json"
	"time"
)

// CaptchaResponse carries the code the user must type back.
type CaptchaResponse struct {
	Captcha string `json:"captcha"`
}

// LoginRequest describes the login form.
type LoginRequest struct {
	AccountNumber string `json:"accountNumber"`
	ClientID      string `json:"clientId"`
	Captcha       string `json:"captcha"`
}

// UserResponse is the dashboard view of the logged-in account.
type UserResponse struct {
	AccountNumber        string      `json:"accountNumber"`
	Username             string      `json:"username,omitempty"`
	Avatar               string      `json:"avatar,omitempty"`
	Status               string      `json:"status"`
	Level                int         `json:"level"`
	Promo                string      `json:"promo,omitempty"`
	Email                string      `json:"email,omitempty"`
	Balance              json.Number `json:"balance"`
	USDEquivalent        string      `json:"usdEquivalent"`
	OfferwallClicksToday int         `json:"offerwallClicksToday"`
	LastOfferwallClick   *time.Time  `json:"lastOfferwallClick,omitempty"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
