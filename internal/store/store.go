// Package store provides the delivery ledger behind the webhook gateway:
// which delivery ids have completed handling, so provider retries can be
// acknowledged without re-running side effects.
package store

import (
	"context"

	"hookgate/internal/model"
)

// Ledger is the idempotency store consulted once per inbound delivery.
// Implementations must be safe for concurrent use; the provider retries
// deliveries in parallel without waiting for prior acknowledgments.
type Ledger interface {
	// Seen reports whether deliveryID has already completed handling.
	Seen(ctx context.Context, deliveryID string) (bool, error)
	// Mark records deliveryID as processed. Marking the same id twice is
	// not an error; the first mark wins.
	Mark(ctx context.Context, deliveryID, eventType string) error
	// Recent returns up to limit entries, most recently processed first.
	Recent(ctx context.Context, limit int) ([]model.ProcessedDelivery, error)
	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}
