package domain

import (
	"context"
	"errors"
)

// SystemActorID is used when no caller identity is supplied.
const SystemActorID = "system"

// Role represents a user's access level
type Role string

const (
	// RoleAdmin has full access to all operations
	RoleAdmin Role = "admin"

	// RoleFinance can settle payments and fund accounts
	RoleFinance Role = "finance"

	// RoleViewer can only view resources, no mutations
	RoleViewer Role = "viewer"
)

var validRoles = map[Role]bool{
	RoleAdmin:   true,
	RoleFinance: true,
	RoleViewer:  true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanSettle checks if the role can mutate balances
func (r Role) CanSettle() bool {
	return r == RoleAdmin || r == RoleFinance
}

// CanManageAccounts checks if the role can create or deactivate accounts
func (r Role) CanManageAccounts() bool {
	return r == RoleAdmin
}

// Actor is the caller performing an operation, as supplied by the identity
// provider in front of this service.
type Actor struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	IPAddress string
	UserAgent string
	RequestID string
}

// ActorSnapshot is the denormalized actor stored with audit entries.
type ActorSnapshot struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Snapshot returns the denormalized view of the actor.
func (a Actor) Snapshot() ActorSnapshot {
	return ActorSnapshot{Name: a.Name, Email: a.Email, Role: string(a.Role)}
}

// IsSystem reports whether the actor is the anonymous system actor.
func (a Actor) IsSystem() bool {
	return a.ID == SystemActorID
}

// CreatedBy returns the actor id for ledger rows, nil for the system actor.
func (a Actor) CreatedBy() *string {
	if a.IsSystem() || a.ID == "" {
		return nil
	}
	id := a.ID
	return &id
}

type actorContextKey struct{}

// ContextWithActor stores the actor in ctx.
func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext returns the actor stored in ctx, or the system actor.
func ActorFromContext(ctx context.Context) Actor {
	if actor, ok := ctx.Value(actorContextKey{}).(Actor); ok && actor.ID != "" {
		return actor
	}
	return Actor{ID: SystemActorID}
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)
