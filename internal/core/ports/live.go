package ports

import (
	"context"
	"time"

	"github.com/booknook/storefront/internal/core/domain"
)

// LiveChannel is the websocket of one session.
type LiveChannel interface {
	// Connect is a no-op while the channel is open.
	Connect(ctx context.Context) error
	Disconnect() error
	Connected() bool
	// Subscribe registers a frame consumer. Consumers run sequentially per
	// frame, in arrival order.
	Subscribe(name string, fn func(frame []byte)) (unsubscribe func())
}

// EnvelopeDecoder turns a raw frame into a validated envelope. It returns
// domain.ErrUnknownMessage or domain.ErrMalformedMessage on rejection.
type EnvelopeDecoder func(frame []byte) (domain.Envelope, error)

// CollectionCache holds a session's cached collections.
type CollectionCache interface {
	Get(key string) ([]domain.Record, time.Time, bool)
	Set(key string, records []domain.Record)
	// Update rewrites a loaded collection and reports whether it was loaded.
	Update(key string, fn func([]domain.Record) []domain.Record) bool
	Invalidate(key string)
	Fresh(key string, window time.Duration) bool
}

// MutationQueue serializes cache writes per key.
type MutationQueue interface {
	Enqueue(key string, apply func())
	Apply(ctx context.Context, key string, apply func()) error
}
