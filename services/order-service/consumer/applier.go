// Package consumer applies UserUpdated events to the order store, keeping
// the denormalized email and deliveryAddress fields of every affected order
// in sync with the user services.
package consumer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yashrajoria/ecommerce-microservices/services/common/events"
)

// OrderSyncStore is the slice of the order repository the applier needs.
type OrderSyncStore interface {
	ApplyUserUpdate(ctx context.Context, userID, email, deliveryAddress string) (int64, error)
}

// EventApplier turns broker message bodies into order-store writes. It is
// plugged into the messaging consumer as its Handler.
type EventApplier struct {
	orders OrderSyncStore
	logger *zap.Logger
}

func NewEventApplier(orders OrderSyncStore, logger *zap.Logger) *EventApplier {
	return &EventApplier{
		orders: orders,
		logger: logger,
	}
}

// Handle decodes one event, normalizes its address to the canonical single
// string, and bulk-overwrites the cached user fields on every matching
// order. Applying the same event twice is safe: the update is an
// unconditional overwrite, not an increment or append.
func (a *EventApplier) Handle(ctx context.Context, body []byte) error {
	event, err := events.DecodeUserUpdated(body)
	if err != nil {
		return fmt.Errorf("malformed event payload: %w", err)
	}

	deliveryAddress := event.NormalizedAddress()

	modified, err := a.orders.ApplyUserUpdate(ctx, event.UserID, event.Email, deliveryAddress)
	if err != nil {
		return fmt.Errorf("apply user update for %s: %w", event.UserID, err)
	}

	a.logger.Info("Applied UserUpdated event to orders",
		zap.String("user_id", event.UserID),
		zap.String("email", event.Email),
		zap.Int64("orders_modified", modified),
	)
	return nil
}
