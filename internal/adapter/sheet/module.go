package sheet

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/buxiq/internal/config"
	"github.com/polkiloo/buxiq/internal/domain/repository"
)

// Module exposes sheet-backed user table and activity feed.
var Module = fx.Provide(newUserTable, newActivityFeed)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newUserTable(p clientParams) (repository.UserTable, error) {
	client, err := NewClient(p.Config.UserTableURL, p.Config.RemoteTimeout, p.Logger)
	if err != nil {
		return nil, err
	}
	return NewUserTable(client), nil
}

func newActivityFeed(p clientParams) (repository.ActivityFeed, error) {
	if p.Config.ActivityLogURL == "" {
		return NewActivityFeed(nil), nil
	}
	client, err := NewClient(p.Config.ActivityLogURL, p.Config.RemoteTimeout, p.Logger)
	if err != nil {
		return nil, err
	}
	return NewActivityFeed(client), nil
}
