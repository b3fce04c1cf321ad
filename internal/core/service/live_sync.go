package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/booknook/storefront/internal/api/metrics"
	"github.com/booknook/storefront/internal/core/domain"
	"github.com/booknook/storefront/internal/core/ports"
)

const (
	consumerCacheSync        = "cache_sync"
	consumerNotificationFeed = "notification_feed"
)

// frameConsumer adapts an envelope handler to a raw frame subscriber. Frames
// that do not decode are logged and dropped; the channel keeps reading.
func frameConsumer(name string, decode ports.EnvelopeDecoder, handle func(domain.Envelope), log zerolog.Logger) func([]byte) {
	return func(frame []byte) {
		env, err := decode(frame)
		if err != nil {
			reason := "malformed"
			if errors.Is(err, domain.ErrUnknownMessage) {
				reason = "unknown_type"
			}
			metrics.LiveMessagesDroppedTotal.WithLabelValues(name, reason).Inc()
			log.Warn().Err(err).Str("consumer", name).Int("bytes", len(frame)).Msg("live message dropped")
			return
		}
		handle(env)
		metrics.LiveMessagesTotal.WithLabelValues(name, string(env.Kind)).Inc()
	}
}

// cacheSync applies live envelopes to one session's cached collections.
// Every write goes through the mutation queue under the same key the REST
// path uses, so the two writers never interleave on a collection.
type cacheSync struct {
	ctx        context.Context
	sessionID  string
	token      string
	cache      ports.CollectionCache
	queue      ports.MutationQueue
	identities ports.IdentityResolver
	log        zerolog.Logger
}

func (s *cacheSync) Handle(env domain.Envelope) {
	switch env.Kind {
	case domain.KindOrderStatusChanged, domain.KindReturnOrderStatusChanged:
		s.mutate(env.Collection(), func(records []domain.Record) []domain.Record {
			return replaceStatus(records, env.SubjectID, env.Status, s.log)
		})

	case domain.KindOrderCreated, domain.KindReturnOrderCreated:
		s.mutate(env.Collection(), func(records []domain.Record) []domain.Record {
			return append([]domain.Record{env.Entity}, records...)
		})
		if env.Kind == domain.KindOrderCreated {
			// Purchases move the wallet balance.
			s.identities.Invalidate(s.ctx, s.token)
		}

	case domain.KindWalletUpdated:
		s.identities.Invalidate(s.ctx, s.token)
	}
}

func (s *cacheSync) mutate(collection string, fn func([]domain.Record) []domain.Record) {
	key := mutationKey(s.sessionID, collection)
	err := s.queue.Apply(s.ctx, key, func() {
		if !s.cache.Update(collection, fn) {
			s.log.Debug().Str("collection", collection).Msg("collection not loaded, live update skipped")
		}
	})
	if err != nil {
		s.log.Warn().Err(err).Str("collection", collection).Msg("live cache update not applied")
	}
}

// replaceStatus returns records with the status of the entry identified by id
// replaced. Other entries are returned as the same values.
func replaceStatus(records []domain.Record, id int64, status string, log zerolog.Logger) []domain.Record {
	out := make([]domain.Record, len(records))
	for i, r := range records {
		out[i] = r
		if rid, ok := r.ID(); !ok || rid != id {
			continue
		}
		updated, err := r.WithField("status", status)
		if err != nil {
			log.Warn().Err(err).Int64("id", id).Msg("status not applied")
			continue
		}
		out[i] = updated
	}
	return out
}

func mutationKey(sessionID, collection string) string {
	return sessionID + ":" + collection
}
