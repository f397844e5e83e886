// Package context holds the timeout helpers shared by the API server and sitectl.
package context

import (
	"context"
	"time"
)

// DefaultPingTimeout bounds connection checks and health probes.
const DefaultPingTimeout = 5 * time.Second

// WithPingTimeout derives a DefaultPingTimeout context from the background context.
func WithPingTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), DefaultPingTimeout)
}

// Detached returns a context that keeps the values of parent, including its
// request logger, but is not cancelled with it. The result is bounded by
// timeout. Follow-up work of a request that must outlive the response, such
// as cache invalidation or a background reindex, runs under it.
func Detached(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}
