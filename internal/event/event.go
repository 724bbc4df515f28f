// Package event carries domain events from the services to in-process
// subscribers such as the audit trail.
package event

import (
	"time"

	"github.com/google/uuid"

	"go-shop-api/internal/model"
)

type Type string

const (
	TypeUserRegistered      Type = "user.registered"
	TypeUserLoggedIn        Type = "user.logged_in"
	TypeUserSuspended       Type = "user.suspended"
	TypeUserUnsuspended     Type = "user.unsuspended"
	TypePasswordChanged     Type = "user.password_changed"
	TypePasswordResetIssued Type = "user.password_reset_requested"
	TypePasswordReset       Type = "user.password_reset"
	TypeTokenRevoked        Type = "token.revoked"
	TypeProductCreated      Type = "product.created"
	TypeProductUpdated      Type = "product.updated"
	TypeProductDeleted      Type = "product.deleted"
)

type Event struct {
	ID         string         `json:"id"`
	Type       Type           `json:"type"`
	OccurredAt time.Time      `json:"occurredAt"`
	ActorID    string         `json:"actorId,omitempty"`
	ActorRole  string         `json:"actorRole,omitempty"`
	IP         string         `json:"ip,omitempty"`
	Resource   string         `json:"resource,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// New stamps an event with a fresh id and the current time.
func New(typ Type, actor model.Actor, resource string, payload map[string]any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		OccurredAt: time.Now().UTC(),
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		IP:         actor.IP,
		Resource:   resource,
		Payload:    payload,
	}
}

type Publisher interface {
	Publish(e Event)
}

type Bus interface {
	Publisher
	Subscribe() (<-chan Event, func())
}
