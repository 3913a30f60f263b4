package usecase

import "go.uber.org/fx"

// Module provides the driver view factory to the fx container.
var Module = fx.Provide(NewViewFactory)
