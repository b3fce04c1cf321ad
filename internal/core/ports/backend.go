package ports

import (
	"context"
	"encoding/json"

	"github.com/booknook/storefront/internal/core/domain"
)

// BookAPI is the backend REST API as consumed by the gateway. Every call acts
// on behalf of the session identified by token. Payloads the gateway does not
// interpret are passed through as raw JSON.
type BookAPI interface {
	Me(ctx context.Context, token string) (*domain.Identity, error)
	Logout(ctx context.Context, token string) error
	VerifyEmail(ctx context.Context, body json.RawMessage) (json.RawMessage, error)

	Bestsellers(ctx context.Context, token string) (json.RawMessage, error)
	BorrowBooks(ctx context.Context, token string) (json.RawMessage, error)
	BorrowBook(ctx context.Context, token, id string) (json.RawMessage, error)
	PurchaseBooks(ctx context.Context, token string) (json.RawMessage, error)
	PurchaseBook(ctx context.Context, token, id string) (json.RawMessage, error)
	BooksByInterests(ctx context.Context, token string) (json.RawMessage, error)

	Settings(ctx context.Context, token string) (json.RawMessage, error)
	UpdateSettings(ctx context.Context, token string, body json.RawMessage) (json.RawMessage, error)
	Users(ctx context.Context, token string) (json.RawMessage, error)

	Interests(ctx context.Context, token string) (json.RawMessage, error)
	SaveInterests(ctx context.Context, token string, body json.RawMessage) (json.RawMessage, error)

	// Collection lists a cached collection (domain.CollectionOrders or
	// domain.CollectionReturnOrders).
	Collection(ctx context.Context, token, name string) ([]domain.Record, error)
}
