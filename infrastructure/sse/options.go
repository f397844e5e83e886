package sse

import (
	"slices"
	"time"
)

// Defaults.
const (
	DefaultEventBufferSize   = 256
	DefaultClientBufferSize  = 64
	DefaultHeartbeatInterval = 15 * time.Second
	DefaultShutdownTimeout   = 5 * time.Second
	DefaultMaxClients        = 200
)

// BrokerOption configures a broker.
type BrokerOption func(*broker)

// WithEventBufferSize sets the size of the publish queue.
func WithEventBufferSize(size int) BrokerOption {
	return func(b *broker) {
		if size > 0 {
			b.eventBufferSize = size
		}
	}
}

// WithClientBufferSize sets the default per-client buffer.
func WithClientBufferSize(size int) BrokerOption {
	return func(b *broker) {
		if size > 0 {
			b.clientBufferSize = size
		}
	}
}

// WithHeartbeatInterval sets how often handlers write keep-alive comments.
func WithHeartbeatInterval(interval time.Duration) BrokerOption {
	return func(b *broker) {
		if interval > 0 {
			b.heartbeatInterval = interval
		}
	}
}

// WithShutdownTimeout bounds Stop.
func WithShutdownTimeout(timeout time.Duration) BrokerOption {
	return func(b *broker) {
		if timeout > 0 {
			b.shutdownTimeout = timeout
		}
	}
}

// WithMaxClients caps concurrent clients. Zero means unlimited.
func WithMaxClients(maxClients int) BrokerOption {
	return func(b *broker) {
		if maxClients >= 0 {
			b.maxClients = maxClients
		}
	}
}

// ClientOption configures a subscription.
type ClientOption func(*ClientOptions)

// WithFilter sets the client's event filter.
func WithFilter(filter EventFilter) ClientOption {
	return func(opts *ClientOptions) {
		opts.Filter = filter
	}
}

// WithBufferSize overrides the client's buffer size.
func WithBufferSize(size int) ClientOption {
	return func(opts *ClientOptions) {
		if size > 0 {
			opts.BufferSize = size
		}
	}
}

// WithTypes only passes events whose type is listed. No types passes all.
func WithTypes(types ...string) ClientOption {
	if len(types) == 0 {
		return func(*ClientOptions) {}
	}
	return WithFilter(func(event Event) bool {
		return slices.Contains(types, event.Type)
	})
}
