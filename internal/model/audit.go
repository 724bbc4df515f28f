package model

import "time"

type AuditStatus string

const (
	AuditSuccess AuditStatus = "success"
	AuditFailure AuditStatus = "failure"
)

type AuditEntry struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	OccurredAt time.Time      `json:"occurredAt"`
	ActorID    string         `json:"actorId,omitempty"`
	ActorRole  string         `json:"actorRole,omitempty"`
	IP         string         `json:"ip,omitempty"`
	Status     AuditStatus    `json:"status"`
	Resource   string         `json:"resource,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
}

type AuditFilter struct {
	Action  string
	ActorID string
	Limit   int
	Offset  int
}

// Actor identifies who triggered a change, for the audit trail.
type Actor struct {
	UserID string
	Role   string
	IP     string
}
