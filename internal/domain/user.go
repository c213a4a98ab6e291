package domain

import "time"

// Role enumerates the fixed privilege hierarchy, highest to lowest:
// platform_admin (cross-tenant) > org_super_admin > admin > candidate.
type Role string

const (
	RolePlatformAdmin Role = "platform_admin"
	RoleOrgSuperAdmin Role = "org_super_admin"
	RoleAdmin         Role = "admin"
	RoleCandidate     Role = "candidate"
)

// Valid reports whether the role is a known member of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RolePlatformAdmin, RoleOrgSuperAdmin, RoleAdmin, RoleCandidate:
		return true
	}
	return false
}

// TenantAdmin reports whether the role administers records tenant-wide.
func (r Role) TenantAdmin() bool {
	return r == RoleOrgSuperAdmin || r == RoleAdmin
}

// AccessStatus represents lifecycle states for a user account.
type AccessStatus string

const (
	AccessStatusActive     AccessStatus = "active"
	AccessStatusSuspended  AccessStatus = "suspended"
	AccessStatusTerminated AccessStatus = "terminated"
)

// Valid reports whether the access status is a known member of the closed set.
func (s AccessStatus) Valid() bool {
	switch s {
	case AccessStatusActive, AccessStatusSuspended, AccessStatusTerminated:
		return true
	}
	return false
}

// User is the domain model for any authenticated caller. OrgID is nil only
// for platform_admin accounts, which are scoped dynamically per request.
type User struct {
	ID           string
	OrgID        *string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	AccessStatus AccessStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BelongsTo reports whether the user is a member of the given organization.
func (u *User) BelongsTo(orgID string) bool {
	return u.OrgID != nil && *u.OrgID == orgID
}
