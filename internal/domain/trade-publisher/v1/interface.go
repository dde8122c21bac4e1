package tradepublisherv1

import (
	"context"
)

// TradePublisher defines the interface for publishing executed trades.
type TradePublisher interface {
	// PublishTradeEvent publishes a single trade event.
	PublishTradeEvent(ctx context.Context, event *TradeEvent) error
	// Close flushes and releases the underlying writer.
	Close() error
}
