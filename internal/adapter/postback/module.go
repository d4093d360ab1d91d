package postback

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/buxiq/internal/config"
)

// Module exposes postback client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.PostbackURL, p.Config.PostbackMethod, p.Config.RemoteTimeout, p.Logger)
}
