package ports

import (
	"context"

	"github.com/booknook/storefront/internal/core/domain"
)

// LiveStatus reports the live channel state of a session.
type LiveStatus struct {
	SessionID string `json:"session_id"`
	Connected bool   `json:"connected"`
	Consumers int    `json:"consumers"`
}

// SessionService owns the per-session live channel, cache and notification list.
type SessionService interface {
	// Attach creates or reuses the session of token, takes a reference on it
	// and connects its live channel. Connecting an open channel is a no-op.
	Attach(ctx context.Context, token string) (*LiveStatus, error)
	// Detach drops a reference; the last one disconnects the channel.
	Detach(token string) (*LiveStatus, error)
	// Close disconnects and forgets the session regardless of references.
	Close(token string)
	Status(token string) (*LiveStatus, error)
	Notifications(token string) ([]domain.Notification, error)
}

// OrderService serves a session's cached collections.
type OrderService interface {
	List(ctx context.Context, token, collection string) ([]domain.Record, error)
}
