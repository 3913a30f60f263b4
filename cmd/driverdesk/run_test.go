package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/fx"

	domainErrors "github.com/polkiloo/driverdesk/internal/domain/errors"
)

type appStub struct {
	startErr error
	stopErr  error
	done     chan fx.ShutdownSignal
	stopped  bool
}

func (a *appStub) Start(context.Context) error { return a.startErr }

func (a *appStub) Stop(context.Context) error {
	a.stopped = true
	return a.stopErr
}

func (a *appStub) Wait() <-chan fx.ShutdownSignal { return a.done }

func TestRunStopsOnShutdownSignal(t *testing.T) {
	app := &appStub{done: make(chan fx.ShutdownSignal, 1)}
	app.done <- fx.ShutdownSignal{}

	if err := run(context.Background(), app); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !app.stopped {
		t.Fatal("expected app to be stopped")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	app := &appStub{done: make(chan fx.ShutdownSignal)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := run(ctx, app); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunReportsConfigurationErrors(t *testing.T) {
	app := &appStub{startErr: fmt.Errorf("STORE_URL is required: %w", domainErrors.ErrConfiguration)}

	err := run(context.Background(), app)
	if !errors.Is(err, domainErrors.ErrConfiguration) || !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if app.stopped {
		t.Fatal("app must not be stopped when start failed")
	}
}

func TestRunReportsStopErrors(t *testing.T) {
	app := &appStub{done: make(chan fx.ShutdownSignal, 1), stopErr: errors.New("hung")}
	app.done <- fx.ShutdownSignal{}

	if err := run(context.Background(), app); err == nil {
		t.Fatal("expected stop error")
	}
}
