package service

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/booknook/storefront/internal/core/domain"
)

// DefaultNotificationLimit bounds the rolling notification list.
const DefaultNotificationLimit = 5

// NotificationFeed is the rolling, newest-first list of notifications built
// from live envelopes. It never holds more than its limit.
type NotificationFeed struct {
	mu    sync.Mutex
	items []domain.Notification
	limit int
	now   func() time.Time
	newID func() string
}

// NewNotificationFeed returns an empty feed. A non-positive limit falls back
// to DefaultNotificationLimit.
func NewNotificationFeed(limit int) *NotificationFeed {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	return &NotificationFeed{
		limit: limit,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Handle prepends a notification describing env.
func (f *NotificationFeed) Handle(env domain.Envelope) {
	f.Push(domain.Notification{
		Kind:      env.Kind,
		Text:      notificationText(env),
		SubjectID: env.SubjectID,
		Status:    env.Status,
	})
}

// Push prepends n, filling its id and timestamp when unset, and evicts the
// oldest entries beyond the limit.
func (f *NotificationFeed) Push(n domain.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n.ID == "" {
		n.ID = f.newID()
	}
	if n.ReceivedAt.IsZero() {
		n.ReceivedAt = f.now()
	}
	f.items = slices.Insert(f.items, 0, n)
	if len(f.items) > f.limit {
		f.items = f.items[:f.limit]
	}
}

// List returns the notifications, newest first.
func (f *NotificationFeed) List() []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Notification, len(f.items))
	copy(out, f.items)
	return out
}

func notificationText(env domain.Envelope) string {
	switch env.Kind {
	case domain.KindOrderStatusChanged:
		return fmt.Sprintf("Order #%d is now %s", env.SubjectID, env.Status)
	case domain.KindReturnOrderStatusChanged:
		return fmt.Sprintf("Return order #%d is now %s", env.SubjectID, env.Status)
	case domain.KindOrderCreated:
		return fmt.Sprintf("Order #%d created", env.SubjectID)
	case domain.KindReturnOrderCreated:
		return fmt.Sprintf("Return order #%d created", env.SubjectID)
	case domain.KindWalletUpdated:
		if env.WalletBalance != nil {
			return fmt.Sprintf("Wallet balance is now %.2f", *env.WalletBalance)
		}
		return "Wallet balance updated"
	}
	return string(env.Kind)
}
