package shared

import (
	"context"
	"time"
)

// EventHandler handles domain events
type EventHandler interface {
	// Handle processes a domain event
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes returns the event types this handler is interested in
	// An empty slice means the handler receives all events
	EventTypes() []string
}

// EventPublisher publishes domain events
type EventPublisher interface {
	// Publish publishes one or more domain events
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber subscribes to domain events
type EventSubscriber interface {
	// Subscribe registers a handler for specific event types
	// If no event types are provided, the handler's own EventTypes are used
	Subscribe(handler EventHandler, eventTypes ...string)
}

// EventBus combines publisher and subscriber capabilities
type EventBus interface {
	EventPublisher
	EventSubscriber
}

// IdempotencyStore remembers which events a handler already processed
type IdempotencyStore interface {
	// MarkProcessed records eventID and reports whether it was new
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, eventID string) (bool, error)
}

// IdempotencyConfig configures duplicate event detection
type IdempotencyConfig struct {
	Enabled bool
	TTL     time.Duration
}

// DefaultIdempotencyConfig keeps processed event IDs for a day
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{Enabled: true, TTL: 24 * time.Hour}
}
