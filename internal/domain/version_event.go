package domain

import "time"

// EventType represents the type of version event.
type EventType string

const (
	EventTypePublished     EventType = "published"
	EventTypeRolledBack    EventType = "rolled_back"
	EventTypeStatusChanged EventType = "status_changed"
	EventTypeDeleted       EventType = "deleted"
)

// VersionEvent is an audit log entry for a versioning action.
type VersionEvent struct {
	ID        int64
	AgentID   int64
	VersionNo int
	ActorID   string
	Type      EventType
	OldStatus *VersionStatus
	NewStatus *VersionStatus
	// FromVersionNo is the current version before a publish or rollback.
	FromVersionNo int
	CreatedAt     time.Time
}

// VersionChange is broadcast after a committed versioning mutation.
type VersionChange struct {
	TenantID         string    `json:"tenant_id"`
	AgentID          int64     `json:"agent_id"`
	VersionNo        int       `json:"version_no"`
	Type             EventType `json:"type"`
	CurrentVersionNo int       `json:"current_version_no"`
}
