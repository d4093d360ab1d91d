package logger

import (
	"log/slog"

	"go.uber.org/fx"
)

// Module wires slog logger for dependency injection and installs it as the
// process default so fallbacks to slog.Default share the configuration.
var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(slog.SetDefault),
)
