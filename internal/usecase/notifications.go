package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/buxiq/internal/domain/model"
)

func destructive(title, description string) model.Notification {
	return model.Notification{Kind: model.NotificationDestructive, Title: title, Description: description}
}

func info(title, description string) model.Notification {
	return model.Notification{Kind: model.NotificationInfo, Title: title, Description: description}
}

var (
	noticeInvalidCaptcha     = destructive("Invalid CAPTCHA", "Please enter the correct CAPTCHA code.")
	noticeAccountBlocked     = destructive("Account Blocked", "Your account is blocked.")
	noticeInvalidCredentials = destructive("Invalid credentials", "Please check your account number and client ID.")
	noticeLoginError         = destructive("Login Error", "Error loading data. Please try again.")
	noticeWelcome            = info("Welcome back!", "Successfully logged into your Bux iQ account.")
	noticeLoggedOut          = info("Logged out", "You have been successfully logged out.")
)

func noticePenalty(deducted decimal.Decimal, clicks int) model.Notification {
	return destructive("Daily Task Penalty",
		fmt.Sprintf("%s points were deducted for completing %d of %d offerwall tasks today.", deducted.String(), clicks, RequiredDailyClicks))
}

func noticeCashout(points int64, reward model.Reward) model.Notification {
	return info("Cashout Requested", fmt.Sprintf("Cashout of %d points to %s requested!", points, reward.Name))
}

func noticeCashoutFailed() model.Notification {
	return destructive("Cashout Failed", "Your cashout could not be submitted. Your balance was not changed.")
}
