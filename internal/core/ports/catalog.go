package ports

import (
	"context"
	"encoding/json"
)

// CatalogService covers the book, account and administration calls that are
// forwarded to the backend.
type CatalogService interface {
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
	VerifyEmail(ctx context.Context, body json.RawMessage) (json.RawMessage, error)
	Logout(ctx context.Context, token string) error
}
