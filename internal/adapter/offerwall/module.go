package offerwall

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/buxiq/internal/config"
)

// Module provides the offerwall catalog.
var Module = fx.Provide(newCatalog)

type catalogParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newCatalog(p catalogParams) (*Catalog, error) {
	if p.Config.OfferwallCatalog == "" {
		return Default()
	}
	catalog, err := Load(p.Config.OfferwallCatalog)
	if err != nil {
		return nil, err
	}
	p.Logger.Info("loaded offerwall catalog", slog.String("path", p.Config.OfferwallCatalog), slog.Int("offerwalls", len(catalog.walls)))
	return catalog, nil
}
