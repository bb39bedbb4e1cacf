package domain

import (
	"encoding/json"
	"time"
)

// AuditLog is a denormalized record of who did what to which entity.
type AuditLog struct {
	ID          string
	ActorID     string
	Actor       ActorSnapshot
	Action      AuditAction
	EntityType  string
	EntityID    string
	Description string
	BeforeData  JSON
	AfterData   JSON
	IPAddress   string
	UserAgent   string
	RequestID   string
	CreatedAt   time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionCreate           AuditAction = "CREATE"
	AuditActionUpdate           AuditAction = "UPDATE"
	AuditActionDeactivate       AuditAction = "DEACTIVATE"
	AuditActionPaymentProcessed AuditAction = "PAYMENT_PROCESSED"
)

// Audited entity types
const (
	EntityTypeAccount            = "account"
	EntityTypeAccountTransaction = "account_transaction"
	EntityTypePayment            = "payment"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}

// NewAuditLog builds an audit entry attributed to actor.
func NewAuditLog(actor Actor, action AuditAction, entityType, entityID, description string) *AuditLog {
	return &AuditLog{
		ActorID:     actor.ID,
		Actor:       actor.Snapshot(),
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		IPAddress:   actor.IPAddress,
		UserAgent:   actor.UserAgent,
		RequestID:   actor.RequestID,
		CreatedAt:   time.Now().UTC(),
	}
}
