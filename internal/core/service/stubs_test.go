package service

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/booknook/storefront/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Backend stub
// ---------------------------------------------------------------------------

type stubBookAPI struct {
	mu         sync.Mutex
	identities map[string]*domain.Identity
	meErr      error
	meDelay    time.Duration
	// meGate, when set, holds Me after it has read the identity; meStarted
	// receives once per call at that point.
	meGate      chan struct{}
	meStarted   chan struct{}
	meCalls     atomic.Int32
	collections map[string][]domain.Record
	listCalls   atomic.Int32
	logoutCalls atomic.Int32
	saved       json.RawMessage
}

func newStubBookAPI() *stubBookAPI {
	return &stubBookAPI{
		identities:  make(map[string]*domain.Identity),
		collections: make(map[string][]domain.Record),
	}
}

func (s *stubBookAPI) Me(ctx context.Context, token string) (*domain.Identity, error) {
	s.meCalls.Add(1)
	if s.meGate != nil {
		return s.gatedMe(ctx, token)
	}
	if s.meDelay > 0 {
		select {
		case <-time.After(s.meDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.meErr != nil {
		return nil, s.meErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.identities[token]
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	clone := *id
	return &clone, nil
}

// gatedMe snapshots the identity, then waits for the gate: the answer reflects
// the backend state at the moment the request was served.
func (s *stubBookAPI) gatedMe(ctx context.Context, token string) (*domain.Identity, error) {
	s.mu.Lock()
	id, ok := s.identities[token]
	var clone domain.Identity
	if ok {
		clone = *id
	}
	s.mu.Unlock()

	if s.meStarted != nil {
		s.meStarted <- struct{}{}
	}
	select {
	case <-s.meGate:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return &clone, nil
}

func (s *stubBookAPI) setBalance(token string, balance float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities[token].WalletBalance = balance
}

func (s *stubBookAPI) Logout(context.Context, string) error {
	s.logoutCalls.Add(1)
	return nil
}

func (s *stubBookAPI) VerifyEmail(_ context.Context, body json.RawMessage) (json.RawMessage, error) {
	return body, nil
}

func (s *stubBookAPI) Bestsellers(context.Context, string) (json.RawMessage, error) {
	return json.RawMessage(`[{"id":1}]`), nil
}

func (s *stubBookAPI) BorrowBooks(context.Context, string) (json.RawMessage, error) {
	return json.RawMessage(`[]`), nil
}

func (s *stubBookAPI) BorrowBook(_ context.Context, _, id string) (json.RawMessage, error) {
	return json.RawMessage(`{"id":` + id + `}`), nil
}

func (s *stubBookAPI) PurchaseBooks(context.Context, string) (json.RawMessage, error) {
	return json.RawMessage(`[]`), nil
}

func (s *stubBookAPI) PurchaseBook(_ context.Context, _, id string) (json.RawMessage, error) {
	return json.RawMessage(`{"id":` + id + `}`), nil
}

func (s *stubBookAPI) BooksByInterests(context.Context, string) (json.RawMessage, error) {
	return json.RawMessage(`[]`), nil
}

func (s *stubBookAPI) Settings(context.Context, string) (json.RawMessage, error) {
	return json.RawMessage(`{}`), nil
}

func (s *stubBookAPI) UpdateSettings(_ context.Context, _ string, body json.RawMessage) (json.RawMessage, error) {
	return body, nil
}

func (s *stubBookAPI) Users(context.Context, string) (json.RawMessage, error) {
	return json.RawMessage(`[]`), nil
}

func (s *stubBookAPI) Interests(context.Context, string) (json.RawMessage, error) {
	return json.RawMessage(`[]`), nil
}

func (s *stubBookAPI) SaveInterests(_ context.Context, _ string, body json.RawMessage) (json.RawMessage, error) {
	s.saved = body
	return body, nil
}

func (s *stubBookAPI) Collection(_ context.Context, _ string, name string) ([]domain.Record, error) {
	s.listCalls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Record(nil), s.collections[name]...), nil
}

// ---------------------------------------------------------------------------
// Identity cache stub
// ---------------------------------------------------------------------------

type stubIdentityCache struct {
	mu      sync.Mutex
	items   map[string]*domain.Identity
	ttls    map[string]time.Duration
	getErr  error
	deleted []string
}

func newStubIdentityCache() *stubIdentityCache {
	return &stubIdentityCache{
		items: make(map[string]*domain.Identity),
		ttls:  make(map[string]time.Duration),
	}
}

func (c *stubIdentityCache) Get(_ context.Context, token string) (*domain.Identity, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items[token], nil
}

func (c *stubIdentityCache) Set(_ context.Context, token string, id *domain.Identity, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[token] = id
	c.ttls[token] = ttl
	return nil
}

func (c *stubIdentityCache) Delete(_ context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, token)
	c.deleted = append(c.deleted, token)
	return nil
}

// ---------------------------------------------------------------------------
// Identity resolver stub
// ---------------------------------------------------------------------------

type stubResolver struct {
	mu          sync.Mutex
	identity    *domain.Identity
	err         error
	invalidated []string
}

func (r *stubResolver) Resolve(context.Context, string) (*domain.Identity, error) {
	return r.identity, r.err
}

func (r *stubResolver) Invalidate(_ context.Context, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidated = append(r.invalidated, token)
}

func (r *stubResolver) invalidations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.invalidated)
}

func clientIdentity(interests bool) *domain.Identity {
	id := &domain.Identity{ID: 10, Email: "reader@booknook.test", Role: domain.RoleClient, WalletBalance: 20}
	if interests {
		picked := []domain.Interest{{ID: 1, Name: "Mystery"}}
		id.Interests = &picked
	}
	return id
}

// ---------------------------------------------------------------------------
// Live channel stub
// ---------------------------------------------------------------------------

type stubChannel struct {
	mu          sync.Mutex
	connected   bool
	connects    int
	disconnects int
	connectErr  error
	subs        map[string]func([]byte)
}

func newStubChannel() *stubChannel {
	return &stubChannel{subs: make(map[string]func([]byte))}
}

func (c *stubChannel) Connect(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connectErr != nil {
		return c.connectErr
	}
	if !c.connected {
		c.connected = true
		c.connects++
	}
	return nil
}

func (c *stubChannel) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected {
		c.connected = false
		c.disconnects++
	}
	return nil
}

// drop simulates the server hanging up without a Disconnect.
func (c *stubChannel) drop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
}

func (c *stubChannel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *stubChannel) Subscribe(name string, fn func([]byte)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs[name] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, name)
	}
}

// push delivers a frame to every subscriber the way the read loop does:
// sequentially, each to completion.
func (c *stubChannel) push(frame string) {
	c.mu.Lock()
	fns := make([]func([]byte), 0, len(c.subs))
	for _, name := range []string{consumerCacheSync, consumerNotificationFeed} {
		if fn, ok := c.subs[name]; ok {
			fns = append(fns, fn)
		}
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn([]byte(frame))
	}
}

func (c *stubChannel) subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// ---------------------------------------------------------------------------
// Mutation queue stub: runs mutations inline.
// ---------------------------------------------------------------------------

type inlineQueue struct {
	mu   sync.Mutex
	keys []string
}

func (q *inlineQueue) Enqueue(key string, apply func()) {
	_ = q.Apply(context.Background(), key, apply)
}

func (q *inlineQueue) Apply(_ context.Context, key string, apply func()) error {
	q.mu.Lock()
	q.keys = append(q.keys, key)
	q.mu.Unlock()
	apply()
	return nil
}
