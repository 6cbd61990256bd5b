package shared

import (
	"context"
	"time"
)

// IdempotencyStore records processed webhook event IDs so that gateway
// retries do not apply the same state transition twice.
type IdempotencyStore interface {
	// MarkProcessed records an event ID with a TTL. It returns true when the
	// ID was newly recorded and false when it had already been seen.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether an event ID has already been recorded.
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	// Close releases any underlying resources.
	Close() error
}

// IdempotencyConfig controls webhook deduplication behavior.
type IdempotencyConfig struct {
	// TTL is how long a processed event ID is remembered. After expiry the
	// same ID would be processed again.
	TTL time.Duration

	// Enabled toggles deduplication entirely.
	Enabled bool
}

// DefaultIdempotencyConfig returns the defaults used when the section is
// absent from configuration.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
