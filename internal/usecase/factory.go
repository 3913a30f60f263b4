package usecase

import (
	"log/slog"

	"github.com/polkiloo/driverdesk/internal/config"
	"github.com/polkiloo/driverdesk/internal/domain/repository"
	"github.com/polkiloo/driverdesk/internal/worker"
)

// ViewFactory builds driver views sharing one set of repositories.
type ViewFactory struct {
	drivers    repository.DriverRepository
	orders     repository.OrderRepository
	feed       repository.ChangeFeed
	newRotator func() Rotator
	logger     *slog.Logger
}

// NewViewFactory constructs ViewFactory. Each view gets its own code rotator
// writing through orders.
func NewViewFactory(
	drivers repository.DriverRepository,
	orders repository.OrderRepository,
	feed repository.ChangeFeed,
	cfg *config.Config,
	logger *slog.Logger,
) *ViewFactory {
	return &ViewFactory{
		drivers: drivers,
		orders:  orders,
		feed:    feed,
		newRotator: func() Rotator {
			return worker.NewCodeRotator(orders, cfg.CodeRotationInterval, logger)
		},
		logger: logger,
	}
}

// New returns an unopened view for driverID.
func (f *ViewFactory) New(driverID string) *DriverView {
	return NewDriverView(driverID, f.drivers, f.orders, f.feed, f.newRotator(), f.logger)
}
