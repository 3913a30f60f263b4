package repository

import (
	"context"

	"github.com/polkiloo/driverdesk/internal/domain/model"
)

// OrderRepository describes persistence operations on inventory requests.
type OrderRepository interface {
	// ListCalled returns every order flagged as having called a driver.
	ListCalled(ctx context.Context) ([]model.Order, error)
	// SetAcceptance updates driver_accepted and accepted_driver_id in one write.
	SetAcceptance(ctx context.Context, orderID int64, accepted bool, driverID *string) error
	SetCode(ctx context.Context, orderID int64, code string) error
}

// CodeWriter is the slice of OrderRepository used by the code rotator.
type CodeWriter interface {
	SetCode(ctx context.Context, orderID int64, code string) error
}
