package preferences

import "go.uber.org/fx"

// Module exposes the preferences service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
