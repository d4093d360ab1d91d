package sheet

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/buxiq/internal/domain/model"
)

const (
	colAccount      = "account"
	colClientID     = "clientid"
	colStatus       = "status"
	colBalance      = "balance"
	colUsername     = "username"
	colAvatar       = "avatar"
	colLevel        = "level"
	colPromo        = "promo"
	colEmail        = "email"
	colLastClick    = "lastofferwallclick"
	colClicksToday  = "offerwallclickstoday"
	colActivityUser = "username"
	colAmount       = "amount"
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"1/2/2006 15:04:05",
	"2006-01-02",
	"1/2/2006",
}

// UserTable reads accounts from the published user sheet.
type UserTable struct {
	client *Client
}

// NewUserTable wraps CSV client as user table.
func NewUserTable(client *Client) *UserTable {
	return &UserTable{client: client}
}

// FetchAll downloads and decodes every account row.
func (t *UserTable) FetchAll(ctx context.Context) ([]model.UserRecord, error) {
	rows, err := t.client.Rows(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]model.UserRecord, 0, len(rows))
	for _, row := range rows {
		if row[colAccount] == "" {
			continue
		}
		users = append(users, DecodeUser(row))
	}
	return users, nil
}

// DecodeUser maps a header-keyed row to a user record.
func DecodeUser(row Row) model.UserRecord {
	user := model.UserRecord{
		Account:  row[colAccount],
		ClientID: row[colClientID],
		Status:   row[colStatus],
		Balance:  parseDecimal(row[colBalance]),
		Username: row[colUsername],
		Avatar:   row[colAvatar],
		Level:    1,
		Promo:    row[colPromo],
		Email:    row[colEmail],
	}
	if level, err := strconv.Atoi(row[colLevel]); err == nil {
		user.Level = level
	}
	if clicks, err := strconv.Atoi(row[colClicksToday]); err == nil && clicks > 0 {
		user.OfferwallClicksToday = clicks
	}
	user.LastOfferwallClick = parseTimestamp(row[colLastClick])
	return user
}

func parseDecimal(value string) decimal.Decimal {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts
		}
	}
	return time.Time{}
}
