package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/driverdesk/internal/app"
	"github.com/polkiloo/driverdesk/internal/config"
	"github.com/polkiloo/driverdesk/internal/logger"
	"github.com/polkiloo/driverdesk/internal/server/http/router"
	"github.com/polkiloo/driverdesk/internal/storage/postgres"
	"github.com/polkiloo/driverdesk/internal/usecase"
)

// Module assembles the application graph. opts are appended last so tests can
// replace any provided value.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		usecase.Module,
		app.Module,
		router.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
