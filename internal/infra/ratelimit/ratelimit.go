package ratelimit

import (
	"context"
)

// Limiter decides whether one more request under key fits in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
