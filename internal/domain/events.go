package domain

import "time"

// Event types
const (
	EventTypeAccountCreated     = "account.created"
	EventTypeAccountDeactivated = "account.deactivated"
	EventTypeFundsAdded         = "funds.added"
	EventTypePaymentCreated     = "payment.created"
	EventTypePaymentProcessed   = "payment.processed"
)

// Aggregate types
const (
	AggregateTypeAccount = "account"
	AggregateTypePayment = "payment"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}
