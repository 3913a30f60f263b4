package repository

import (
	"context"

	"github.com/polkiloo/driverdesk/internal/domain/model"
)

// DriverRepository reads driver records.
type DriverRepository interface {
	GetByID(ctx context.Context, id string) (*model.Driver, error)
}
