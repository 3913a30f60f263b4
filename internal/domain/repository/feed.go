package repository

import (
	"context"

	"github.com/polkiloo/driverdesk/internal/domain/model"
)

// Subscription is a standing change notification channel.
// Unsubscribe closes it permanently and is safe to call more than once.
type Subscription interface {
	Unsubscribe()
}

// ChangeFeed opens subscriptions to called-driver order changes.
type ChangeFeed interface {
	Subscribe(ctx context.Context, onChange func(model.OrderChange)) (Subscription, error)
}
