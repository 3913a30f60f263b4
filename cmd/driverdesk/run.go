package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"

	domainErrors "github.com/polkiloo/driverdesk/internal/domain/errors"
)

type lifecycle interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Wait() <-chan fx.ShutdownSignal
}

func run(ctx context.Context, app lifecycle) error {
	if err := app.Start(ctx); err != nil {
		if errors.Is(err, domainErrors.ErrConfiguration) {
			return fmt.Errorf("driverdesk is not configured: %w", err)
		}
		return fmt.Errorf("failed to start application: %w", err)
	}

	select {
	case <-ctx.Done():
	case <-app.Wait():
	}

	if err := app.Stop(context.Background()); err != nil {
		return fmt.Errorf("failed to stop application: %w", err)
	}
	return nil
}
