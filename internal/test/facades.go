package test

import (
	"context"

	"github.com/polkiloo/driverdesk/internal/domain/model"
	"github.com/polkiloo/driverdesk/internal/usecase"
)

// DispatchFacadeStub provides controllable behaviour for HTTP handlers.
type DispatchFacadeStub struct {
	SnapshotFn func(context.Context, string, *model.Tab) (usecase.Snapshot, error)
	AcceptFn   func(context.Context, string, int64) error
	RejectFn   func(context.Context, string, int64) error
	WatchFn    func(context.Context, string) (<-chan usecase.Snapshot, error)
	HealthErr  error
}

// Snapshot delegates to SnapshotFn or returns an empty page for driverID.
func (s DispatchFacadeStub) Snapshot(ctx context.Context, driverID string, tab *model.Tab) (usecase.Snapshot, error) {
	if s.SnapshotFn != nil {
		return s.SnapshotFn(ctx, driverID, tab)
	}
	snap := usecase.Snapshot{
		DriverID:  driverID,
		Driver:    &model.Driver{ID: driverID, Name: "Dana"},
		ActiveTab: model.TabPending,
	}
	if tab != nil {
		snap.ActiveTab = *tab
	}
	return snap, nil
}

// Accept delegates to AcceptFn.
func (s DispatchFacadeStub) Accept(ctx context.Context, driverID string, orderID int64) error {
	if s.AcceptFn != nil {
		return s.AcceptFn(ctx, driverID, orderID)
	}
	return nil
}

// Reject delegates to RejectFn.
func (s DispatchFacadeStub) Reject(ctx context.Context, driverID string, orderID int64) error {
	if s.RejectFn != nil {
		return s.RejectFn(ctx, driverID, orderID)
	}
	return nil
}

// Watch delegates to WatchFn or streams a single snapshot.
func (s DispatchFacadeStub) Watch(ctx context.Context, driverID string) (<-chan usecase.Snapshot, error) {
	if s.WatchFn != nil {
		return s.WatchFn(ctx, driverID)
	}
	snap, err := s.Snapshot(ctx, driverID, nil)
	if err != nil {
		return nil, err
	}
	ch := make(chan usecase.Snapshot, 1)
	ch <- snap
	close(ch)
	return ch, nil
}

// HealthCheck returns HealthErr.
func (s DispatchFacadeStub) HealthCheck(context.Context) error {
	return s.HealthErr
}
