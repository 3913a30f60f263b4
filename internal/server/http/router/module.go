package router

import (
	"go.uber.org/fx"

	"github.com/polkiloo/driverdesk/internal/app"
	"github.com/polkiloo/driverdesk/internal/server/http/handlers"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Options(
	fx.Provide(func(f *app.DispatchFacade) handlers.DispatchFacade { return f }),
	fx.Provide(Setup),
)
