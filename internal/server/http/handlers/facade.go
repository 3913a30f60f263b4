package handlers

import (
	"context"

	"github.com/polkiloo/driverdesk/internal/domain/model"
	"github.com/polkiloo/driverdesk/internal/usecase"
)

// DriverFacade exposes a driver's live view to handlers.
type DriverFacade interface {
	Snapshot(ctx context.Context, driverID string, tab *model.Tab) (usecase.Snapshot, error)
	Accept(ctx context.Context, driverID string, orderID int64) error
	Reject(ctx context.Context, driverID string, orderID int64) error
	Watch(ctx context.Context, driverID string) (<-chan usecase.Snapshot, error)
}

// HealthFacade reports backing store health.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// DispatchFacade aggregates the full set of operations used across handlers.
type DispatchFacade interface {
	DriverFacade
	HealthFacade
}
