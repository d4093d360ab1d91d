package usecase

import (
	"context"
	"log/slog"

	"github.com/polkiloo/buxiq/internal/adapter/offerwall"
	domainErrors "github.com/polkiloo/buxiq/internal/domain/errors"
	"github.com/polkiloo/buxiq/internal/domain/model"
)

// OfferwallUseCase opens offerwalls for the logged-in user.
type OfferwallUseCase struct {
	catalog  *offerwall.Catalog
	sessions *SessionManager
	logger   *slog.Logger
}

// NewOfferwallUseCase constructs OfferwallUseCase.
func NewOfferwallUseCase(catalog *offerwall.Catalog, sessions *SessionManager, logger *slog.Logger) *OfferwallUseCase {
	return &OfferwallUseCase{catalog: catalog, sessions: sessions, logger: logger}
}

// List returns the offerwall catalog.
func (u *OfferwallUseCase) List() []model.Offerwall {
	return u.catalog.List()
}

// Open builds the launch target and counts the visit when the offerwall is tracked.
func (u *OfferwallUseCase) Open(ctx context.Context, id string) (model.OfferwallLaunch, error) {
	user, ok := u.sessions.CurrentUser()
	if !ok {
		return model.OfferwallLaunch{}, domainErrors.ErrNotAuthenticated
	}
	wall, ok := u.catalog.Lookup(id)
	if !ok {
		return model.OfferwallLaunch{}, domainErrors.ErrUnknownOfferwall
	}
	launch, err := u.catalog.Build(wall.ID, user.DisplayName())
	if err != nil {
		return model.OfferwallLaunch{}, err
	}
	if wall.Tracked {
		if _, err := u.sessions.RecordOfferwallClick(ctx); err != nil {
			u.logger.Warn("failed to record offerwall click", slog.String("offerwall", id), slog.Any("error", err))
		}
	}
	return launch, nil
}
