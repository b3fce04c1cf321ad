package domain

import "time"

// MessageKind is the discriminator of a live channel envelope.
type MessageKind string

const (
	KindOrderStatusChanged       MessageKind = "order_status_changed"
	KindReturnOrderStatusChanged MessageKind = "return_order_status_changed"
	KindOrderCreated             MessageKind = "order_created"
	KindReturnOrderCreated       MessageKind = "return_order_created"
	KindWalletUpdated            MessageKind = "wallet_updated"
)

// Valid reports whether k belongs to the closed set of envelope kinds.
func (k MessageKind) Valid() bool {
	switch k {
	case KindOrderStatusChanged, KindReturnOrderStatusChanged,
		KindOrderCreated, KindReturnOrderCreated, KindWalletUpdated:
		return true
	}
	return false
}

// Notification is one entry of the rolling, in-memory notification list.
type Notification struct {
	ID         string      `json:"id"`
	Kind       MessageKind `json:"kind"`
	Text       string      `json:"text"`
	SubjectID  int64       `json:"subject_id,omitempty"`
	Status     string      `json:"status,omitempty"`
	ReceivedAt time.Time   `json:"received_at"`
}
