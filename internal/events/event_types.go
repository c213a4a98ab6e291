package events

import (
	"time"

	"github.com/spec-kit/compliance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRecordCreated       EventType = "record_created"
	EventRecordUpdated       EventType = "record_updated"
	EventRecordDeleted       EventType = "record_deleted"
	EventUserCreated         EventType = "user_created"
	EventUserUpdated         EventType = "user_updated"
	EventAccessStatusChanged EventType = "access_status_changed"
	EventOrganizationCreated EventType = "organization_created"
	EventOrganizationUpdated EventType = "organization_updated"
	EventReminderBatchDone   EventType = "reminder_batch_done"
)

// Event represents a domain event emitted by services after a successful
// mutation. OrgID is nil for platform-scoped events.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	OrgID      *string     `json:"org_id,omitempty"`
	ActorID    string      `json:"actor_id"`
	EntityType string      `json:"entity_type"`
	EntityID   string      `json:"entity_id"`
	EntityName string      `json:"entity_name"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload,omitempty"`
}

// RecordPayload carries record mutation details.
type RecordPayload struct {
	Kind       domain.RecordKind `json:"kind"`
	TypeTag    string            `json:"type_tag"`
	Email      string            `json:"email"`
	ExpiryDate *time.Time        `json:"expiry_date,omitempty"`
}

// AccessStatusPayload carries access status transitions.
type AccessStatusPayload struct {
	OldStatus domain.AccessStatus `json:"old_status"`
	NewStatus domain.AccessStatus `json:"new_status"`
}

// ReminderBatchPayload summarizes a completed reminder run.
type ReminderBatchPayload struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}
