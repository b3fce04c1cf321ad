package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/booknook/storefront/internal/core/domain"
	"github.com/booknook/storefront/internal/core/ports"
)

const defaultOrdersTTL = time.Minute

type orderService struct {
	api      ports.BookAPI
	sessions *SessionManager
	queue    ports.MutationQueue
	ttl      time.Duration
	log      zerolog.Logger
}

// NewOrderService returns an OrderService. Collections of sessions holding a
// live channel are cached for ttl and kept current by live messages; other
// callers read straight from the backend.
func NewOrderService(api ports.BookAPI, sessions *SessionManager, queue ports.MutationQueue, ttl time.Duration, log zerolog.Logger) ports.OrderService {
	if ttl <= 0 {
		ttl = defaultOrdersTTL
	}
	return &orderService{
		api:      api,
		sessions: sessions,
		queue:    queue,
		ttl:      ttl,
		log:      log.With().Str("component", "orders").Logger(),
	}
}

// List returns a session collection.
func (s *orderService) List(ctx context.Context, token, collection string) ([]domain.Record, error) {
	switch collection {
	case domain.CollectionOrders, domain.CollectionReturnOrders:
	default:
		return nil, fmt.Errorf("collection %q: %w", collection, domain.ErrNotFound)
	}

	sess := s.sessions.lookup(token)
	if sess != nil && sess.cache.Fresh(collection, s.ttl) {
		if records, _, ok := sess.cache.Get(collection); ok {
			return records, nil
		}
	}

	// 1. Fetch from the backend.
	records, err := s.api.Collection(ctx, token, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	if sess == nil {
		return records, nil
	}

	// 2. Store through the queue so a live update for the same collection is
	//    applied either wholly before or wholly after this write.
	err = s.queue.Apply(ctx, mutationKey(sess.id, collection), func() {
		sess.cache.Set(collection, records)
	})
	if err != nil {
		s.log.Warn().Err(err).Str("session", sess.id).Str("collection", collection).Msg("collection not cached")
	}
	return records, nil
}
