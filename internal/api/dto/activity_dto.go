package dto

import (
	"time"

	"github.com/spec-kit/compliance-service/internal/domain"
)

// ActivityResponse is one audit trail entry.
type ActivityResponse struct {
	ID             string    `json:"id"`
	OrganizationID *string   `json:"organization_id"`
	ActorID        string    `json:"actor_id"`
	Action         string    `json:"action"`
	EntityType     string    `json:"entity_type"`
	EntityID       string    `json:"entity_id"`
	EntityName     string    `json:"entity_name,omitempty"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewActivityResponse maps a log entry.
func NewActivityResponse(entry *domain.ActivityLogEntry) ActivityResponse {
	return ActivityResponse{
		ID:             entry.ID,
		OrganizationID: entry.OrgID,
		ActorID:        entry.ActorID,
		Action:         entry.Action,
		EntityType:     entry.EntityType,
		EntityID:       entry.EntityID,
		EntityName:     entry.EntityName,
		Description:    entry.Description,
		CreatedAt:      entry.CreatedAt,
	}
}
