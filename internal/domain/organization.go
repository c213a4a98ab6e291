package domain

import "time"

// Organization is the tenancy boundary. Every user and compliance record
// belongs to exactly one organization; platform admins belong to none.
type Organization struct {
	ID        string
	Name      string
	Slug      string
	Domains   []string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
