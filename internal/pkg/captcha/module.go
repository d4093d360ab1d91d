package captcha

import "go.uber.org/fx"

// Module provides captcha generator.
var Module = fx.Provide(
	fx.Annotate(NewRandomGenerator, fx.As(new(Generator))),
)
