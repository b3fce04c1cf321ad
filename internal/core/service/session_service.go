package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/booknook/storefront/internal/api/metrics"
	"github.com/booknook/storefront/internal/core/domain"
	"github.com/booknook/storefront/internal/core/ports"
)

// session is one browser login: its live channel, the collections the channel
// keeps in sync and the rolling notification list.
type session struct {
	id      string
	channel ports.LiveChannel
	cache   ports.CollectionCache
	feed    *NotificationFeed
	refs    int

	cancel      context.CancelFunc
	unsubscribe []func()
}

// SessionDeps are the collaborators of a SessionManager.
type SessionDeps struct {
	// NewChannel builds the live channel of a session token.
	NewChannel func(token string) ports.LiveChannel
	// NewCache builds an empty collection cache.
	NewCache   func() ports.CollectionCache
	Decode     ports.EnvelopeDecoder
	Queue      ports.MutationQueue
	Identities ports.IdentityResolver
	// FeedLimit bounds each session's notification list.
	FeedLimit int
}

// SessionManager owns every live session, keyed by a hash of its token.
// A session exists while at least one browser view holds a reference on it.
type SessionManager struct {
	deps SessionDeps
	log  zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

// NewSessionManager returns an empty SessionManager.
func NewSessionManager(deps SessionDeps, log zerolog.Logger) *SessionManager {
	return &SessionManager{
		deps:     deps,
		log:      log.With().Str("component", "sessions").Logger(),
		sessions: make(map[string]*session),
	}
}

// Attach takes a reference on the session of token, creating it on first use,
// and connects its live channel. Connecting an open channel is a no-op.
func (m *SessionManager) Attach(ctx context.Context, token string) (*ports.LiveStatus, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	id := SessionID(token)

	m.mu.Lock()
	s, reused := m.sessions[id]
	if !reused {
		s = m.open(id, token)
		m.sessions[id] = s
		metrics.LiveSessions.Inc()
	}
	s.refs++
	m.mu.Unlock()

	wasConnected := s.channel.Connected()
	if err := s.channel.Connect(ctx); err != nil {
		m.release(s)
		return nil, fmt.Errorf("%w: live channel: %w", domain.ErrBackendUnavailable, err)
	}

	// A concurrent Close may have dropped the session while it was dialing.
	m.mu.Lock()
	current := m.sessions[id]
	m.mu.Unlock()
	if current != s {
		_ = s.channel.Disconnect()
		return nil, domain.ErrSessionNotFound
	}

	// Messages sent while the socket was down are lost; cached collections
	// are refetched on next read.
	if reused && !wasConnected {
		if err := m.invalidateCollections(ctx, s); err != nil {
			m.log.Warn().Err(err).Str("session", id).Msg("failed to drop collections after reconnect")
		}
	}

	m.log.Debug().Str("session", id).Int("refs", s.refs).Msg("session attached")
	return m.status(s), nil
}

// Detach drops a reference. The last reference disconnects the channel and
// forgets the session.
func (m *SessionManager) Detach(token string) (*ports.LiveStatus, error) {
	id := SessionID(token)

	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}
	s.refs--
	last := s.refs <= 0
	if last {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if last {
		m.shutdown(s)
		return &ports.LiveStatus{SessionID: id}, nil
	}
	return m.status(s), nil
}

// release drops the reference taken by a failed Attach.
func (m *SessionManager) release(s *session) {
	m.mu.Lock()
	if m.sessions[s.id] != s {
		m.mu.Unlock()
		return
	}
	s.refs--
	last := s.refs <= 0
	if last {
		delete(m.sessions, s.id)
	}
	m.mu.Unlock()

	if last {
		m.shutdown(s)
	}
}

// Close disconnects and forgets the session regardless of its references.
func (m *SessionManager) Close(token string) {
	id := SessionID(token)

	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		m.shutdown(s)
	}
}

// CloseAll disconnects every session. It is called on server shutdown.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	all := make([]*session, 0, len(m.sessions))
	for id, s := range m.sessions {
		all = append(all, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, s := range all {
		m.shutdown(s)
	}
}

// Notifications returns the session's notification list, newest first. A
// token without a session has no notifications.
func (m *SessionManager) Notifications(token string) ([]domain.Notification, error) {
	s := m.lookup(token)
	if s == nil {
		return []domain.Notification{}, nil
	}
	return s.feed.List(), nil
}

// Status reports the live channel state of token's session.
func (m *SessionManager) Status(token string) (*ports.LiveStatus, error) {
	s := m.lookup(token)
	if s == nil {
		return nil, domain.ErrSessionNotFound
	}
	return m.status(s), nil
}

func (m *SessionManager) lookup(token string) *session {
	if token == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[SessionID(token)]
}

// open builds a session and wires both live consumers to its channel.
// Called with m.mu held; it does not dial.
func (m *SessionManager) open(id, token string) *session {
	ctx, cancel := context.WithCancel(context.Background())
	log := m.log.With().Str("session", id).Logger()

	s := &session{
		id:      id,
		channel: m.deps.NewChannel(token),
		cache:   m.deps.NewCache(),
		feed:    NewNotificationFeed(m.deps.FeedLimit),
		cancel:  cancel,
	}
	syncer := &cacheSync{
		ctx:        ctx,
		sessionID:  id,
		token:      token,
		cache:      s.cache,
		queue:      m.deps.Queue,
		identities: m.deps.Identities,
		log:        log,
	}
	s.unsubscribe = []func(){
		s.channel.Subscribe(consumerCacheSync, frameConsumer(consumerCacheSync, m.deps.Decode, syncer.Handle, log)),
		s.channel.Subscribe(consumerNotificationFeed, frameConsumer(consumerNotificationFeed, m.deps.Decode, s.feed.Handle, log)),
	}
	log.Info().Msg("session opened")
	return s
}

func (m *SessionManager) shutdown(s *session) {
	for _, unsubscribe := range s.unsubscribe {
		unsubscribe()
	}
	s.cancel()
	if err := s.channel.Disconnect(); err != nil {
		m.log.Warn().Err(err).Str("session", s.id).Msg("live channel disconnect failed")
	}
	// Writes already queued for the session run first; its records go after.
	for _, col := range domain.Collections {
		m.deps.Queue.Enqueue(mutationKey(s.id, col), func() { s.cache.Invalidate(col) })
	}
	metrics.LiveSessions.Dec()
	m.log.Info().Str("session", s.id).Msg("session closed")
}

func (m *SessionManager) invalidateCollections(ctx context.Context, s *session) error {
	for _, col := range domain.Collections {
		if err := m.deps.Queue.Apply(ctx, mutationKey(s.id, col), func() { s.cache.Invalidate(col) }); err != nil {
			return err
		}
	}
	return nil
}

func (m *SessionManager) status(s *session) *ports.LiveStatus {
	m.mu.Lock()
	refs := s.refs
	m.mu.Unlock()
	return &ports.LiveStatus{
		SessionID: s.id,
		Connected: s.channel.Connected(),
		Consumers: refs,
	}
}

// SessionID derives the public session identifier from a token.
func SessionID(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}
