package domain

import "time"

// ActivityLogEntry is an append-only audit row recorded after every
// successful mutation. Entries are never updated or deleted in-flow.
type ActivityLogEntry struct {
	ID          string
	OrgID       *string
	ActorID     string
	Action      string
	EntityType  string
	EntityID    string
	EntityName  string
	Description string
	CreatedAt   time.Time
}
