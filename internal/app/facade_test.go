package app

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/driverdesk/internal/domain/errors"
	"github.com/polkiloo/driverdesk/internal/domain/model"
	testhelpers "github.com/polkiloo/driverdesk/internal/test"
	"github.com/polkiloo/driverdesk/internal/usecase"
)

func TestDispatchFacadeSnapshotAppliesTab(t *testing.T) {
	sessions, _ := newTestSessions(testhelpers.Order(1, false, nil))
	facade := NewDispatchFacade(sessions, healthStub{})

	tab := model.TabAccepted
	snap, err := facade.Snapshot(context.Background(), "d1", &tab)
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if snap.ActiveTab != model.TabAccepted {
		t.Fatalf("expected accepted tab, got %q", snap.ActiveTab)
	}
	if len(snap.Pending) != 1 || snap.Driver == nil || snap.Driver.Name != "Dana" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if sessions.Active() != 0 {
		t.Fatal("snapshot must release its session")
	}
}

func TestDispatchFacadeAcceptReject(t *testing.T) {
	sessions, store := newTestSessions(testhelpers.Order(7, false, nil))
	facade := NewDispatchFacade(sessions, healthStub{})
	ctx := context.Background()

	if err := facade.Accept(ctx, "d1", 7); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if o, _ := store.Get(7); !o.AcceptedBy("d1") {
		t.Fatalf("expected order accepted by d1, got %+v", o)
	}

	if err := facade.Reject(ctx, "d1", 7); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if o, _ := store.Get(7); !o.Unclaimed() {
		t.Fatalf("expected order unclaimed, got %+v", o)
	}

	if err := facade.Accept(ctx, "ghost", 7); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for unknown driver, got %v", err)
	}
}

func receiveSnapshot(t *testing.T, ch <-chan usecase.Snapshot) usecase.Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatal("stream closed")
		}
		return snap
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for snapshot")
	}
	return usecase.Snapshot{}
}

func TestDispatchFacadeWatchStreamsChanges(t *testing.T) {
	sessions, store := newTestSessions(testhelpers.Order(1, false, nil))
	facade := NewDispatchFacade(sessions, healthStub{})
	ctx, cancel := context.WithCancel(context.Background())

	stream, err := facade.Watch(ctx, "d1")
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	if first := receiveSnapshot(t, stream); len(first.Pending) != 1 {
		t.Fatalf("unexpected initial snapshot %+v", first)
	}
	if sessions.Active() != 1 {
		t.Fatal("expected watch to hold the session")
	}

	store.Put(testhelpers.Order(2, false, nil))
	store.Emit(model.OrderChange{Op: model.ChangeInsert, OrderID: 2})
	if next := receiveSnapshot(t, stream); len(next.Pending) != 2 {
		t.Fatalf("expected refreshed snapshot, got %+v", next)
	}

	cancel()
	for range stream {
	}
	if sessions.Active() != 0 || store.Subscribers() != 0 {
		t.Fatal("expected session released after watch ends")
	}
}

func TestDispatchFacadeWatchEndsOnShutdown(t *testing.T) {
	sessions, _ := newTestSessions()
	facade := NewDispatchFacade(sessions, healthStub{})

	stream, err := facade.Watch(context.Background(), "d1")
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	receiveSnapshot(t, stream)

	sessions.Close()

	select {
	case _, ok := <-stream:
		if ok {
			for range stream {
			}
		}
	case <-time.After(time.Second):
		t.Fatal("expected stream to end on shutdown")
	}
}

func TestDispatchFacadeWatchUnknownDriver(t *testing.T) {
	sessions, _ := newTestSessions()
	facade := NewDispatchFacade(sessions, healthStub{})

	if _, err := facade.Watch(context.Background(), "ghost"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOfferLatestKeepsNewest(t *testing.T) {
	out := make(chan usecase.Snapshot, 1)
	offerLatest(out, usecase.Snapshot{Version: 1})
	offerLatest(out, usecase.Snapshot{Version: 2})
	if got := <-out; got.Version != 2 {
		t.Fatalf("expected newest snapshot, got version %d", got.Version)
	}
}
