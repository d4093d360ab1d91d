package sheet

import (
	"context"

	"github.com/polkiloo/buxiq/internal/domain/model"
)

// ActivityFeed reads recent payouts from the activity sheet.
type ActivityFeed struct {
	client *Client
}

// NewActivityFeed wraps CSV client as activity feed. A nil client yields an empty feed.
func NewActivityFeed(client *Client) *ActivityFeed {
	return &ActivityFeed{client: client}
}

// FetchAll returns entries in sheet order, skipping incomplete rows.
func (f *ActivityFeed) FetchAll(ctx context.Context) ([]model.ActivityEntry, error) {
	if f.client == nil {
		return nil, nil
	}
	rows, err := f.client.Rows(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]model.ActivityEntry, 0, len(rows))
	for _, row := range rows {
		username, amount := row[colActivityUser], row[colAmount]
		if username == "" || amount == "" {
			continue
		}
		entries = append(entries, model.ActivityEntry{Username: username, Amount: parseDecimal(amount)})
	}
	return entries, nil
}
