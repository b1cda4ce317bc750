package ports

import (
	"context"
	"time"
)

// RevocationStore remembers logged-out tokens until they would have expired.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
