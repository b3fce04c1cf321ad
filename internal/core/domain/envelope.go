package domain

// Envelope is a decoded, validated live channel message.
type Envelope struct {
	Kind MessageKind
	// SubjectID is the order or return-order id the message is about.
	SubjectID int64
	// Status is set for the two status-change kinds.
	Status string
	// Entity is the created order or return order, as sent.
	Entity Record
	// WalletBalance is the new balance when a wallet update carries one.
	WalletBalance *float64
}

// Collection returns the cached collection the envelope mutates, or "" for
// kinds that do not touch one.
func (e Envelope) Collection() string {
	switch e.Kind {
	case KindOrderStatusChanged, KindOrderCreated:
		return CollectionOrders
	case KindReturnOrderStatusChanged, KindReturnOrderCreated:
		return CollectionReturnOrders
	}
	return ""
}
