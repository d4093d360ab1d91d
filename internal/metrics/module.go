package metrics

import (
	"go.uber.org/fx"

	"github.com/polkiloo/buxiq/internal/usecase"
)

// Module provides Metrics as the usecase outcome recorder.
var Module = fx.Provide(
	New,
	func(m *Metrics) usecase.Recorder { return m },
)
