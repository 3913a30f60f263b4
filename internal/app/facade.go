package app

import (
	"context"

	"github.com/polkiloo/driverdesk/internal/domain/model"
	"github.com/polkiloo/driverdesk/internal/usecase"
)

// HealthChecker reports store reachability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// DispatchFacade exposes driver views to the transport layer.
type DispatchFacade struct {
	sessions *Sessions
	health   HealthChecker
}

func NewDispatchFacade(sessions *Sessions, health HealthChecker) *DispatchFacade {
	return &DispatchFacade{sessions: sessions, health: health}
}

// Snapshot returns the driver's current lists. A non-nil tab is applied first.
func (f *DispatchFacade) Snapshot(ctx context.Context, driverID string, tab *model.Tab) (usecase.Snapshot, error) {
	view, release, err := f.sessions.Acquire(ctx, driverID)
	if err != nil {
		return usecase.Snapshot{}, err
	}
	defer release()

	if tab != nil {
		view.SetTab(*tab)
	}
	return view.Snapshot(), nil
}

func (f *DispatchFacade) Accept(ctx context.Context, driverID string, orderID int64) error {
	view, release, err := f.sessions.Acquire(ctx, driverID)
	if err != nil {
		return err
	}
	defer release()
	return view.Accept(ctx, orderID)
}

func (f *DispatchFacade) Reject(ctx context.Context, driverID string, orderID int64) error {
	view, release, err := f.sessions.Acquire(ctx, driverID)
	if err != nil {
		return err
	}
	defer release()
	return view.Reject(ctx, orderID)
}

// Watch keeps the driver's view open until ctx is done and streams a snapshot
// after every change, starting with the current one. Only the latest snapshot
// is kept for slow readers.
func (f *DispatchFacade) Watch(ctx context.Context, driverID string) (<-chan usecase.Snapshot, error) {
	view, release, err := f.sessions.Acquire(ctx, driverID)
	if err != nil {
		return nil, err
	}
	signals, stop := view.Watch()

	out := make(chan usecase.Snapshot, 1)
	out <- view.Snapshot()

	go func() {
		defer close(out)
		defer release()
		defer stop()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-signals:
				if !ok {
					return
				}
				offerLatest(out, view.Snapshot())
			}
		}
	}()
	return out, nil
}

func offerLatest(out chan usecase.Snapshot, snap usecase.Snapshot) {
	select {
	case out <- snap:
		return
	default:
	}
	select {
	case <-out:
	default:
	}
	select {
	case out <- snap:
	default:
	}
}

func (f *DispatchFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
