package port

import (
	"context"
	"time"
)

type IdempotencyGuard interface {
	// Claim sets key if absent and reports whether this caller won it.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release drops a claim so the request can be retried.
	Release(ctx context.Context, key string) error
}
