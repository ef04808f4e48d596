// Package ratelimit provides fixed-window request limiters used to throttle
// credential endpoints. Two backends exist: an in-process map for single
// instances and a Redis-backed counter for deployments with several replicas.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter counts requests per key within a fixed window. A limit <= 0
// disables limiting and always allows.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
}
