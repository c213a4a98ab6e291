package auth

import (
	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/repository"
)

// Action enumerates operations subject to authorization.
type Action string

const (
	ActionView            Action = "view"
	ActionCreate          Action = "create"
	ActionUpdate          Action = "update"
	ActionDelete          Action = "delete"
	ActionManageUser      Action = "manage_user"
	ActionSetAccessStatus Action = "set_access_status"
)

// Target describes the resource an action is aimed at. OrgID is the owning
// organization (nil for platform-scoped resources); Record and User carry
// the concrete resource when one exists.
type Target struct {
	OrgID  *string
	Record *domain.ComplianceRecord
	User   *domain.User
}

// ResolveOrg returns the effective organization for a request. Only
// platform_admin may pass an explicit selector (nil meaning platform-wide,
// unscoped); every other role is pinned to its own membership so a forged
// selector cannot escape the tenant.
func ResolveOrg(caller *domain.User, explicit *string) *string {
	if caller.Role == domain.RolePlatformAdmin {
		return explicit
	}
	return caller.OrgID
}

// Can decides whether the caller may perform the action on the target.
// Rules apply in order: tenant isolation (platform_admin exempt), account
// self-protection, candidate ownership by record email, then tenant-wide
// admin scope. It returns false on any violation and never errors.
func Can(caller *domain.User, action Action, target Target) bool {
	if caller == nil || !caller.Role.Valid() {
		return false
	}

	if target.OrgID != nil && caller.Role != domain.RolePlatformAdmin && !caller.BelongsTo(*target.OrgID) {
		return false
	}

	if target.User != nil {
		if action == ActionSetAccessStatus && target.User.ID == caller.ID {
			return false
		}
		if target.User.Role == domain.RolePlatformAdmin && caller.Role != domain.RolePlatformAdmin {
			return false
		}
		if caller.Role == domain.RoleAdmin && target.User.Role == domain.RoleOrgSuperAdmin {
			return false
		}
	}

	if caller.Role == domain.RoleCandidate {
		if target.Record != nil {
			return target.Record.Email == caller.Email
		}
		if target.User != nil {
			return target.User.ID == caller.ID
		}
		return false
	}

	return true
}

// IsSelfLockout reports whether the action would change the caller's own
// access_status, which is rejected unconditionally for every role.
func IsSelfLockout(caller *domain.User, action Action, target Target) bool {
	return action == ActionSetAccessStatus && target.User != nil && target.User.ID == caller.ID
}

// ScopeFilter builds the record-listing predicate for the caller within the
// effective organization. Candidates are narrowed to records bearing their
// own email; tenant admins see their whole organization, optionally narrowed
// to one owning user; platform_admin may list unscoped. The second return is
// false when the caller may not list at all.
func ScopeFilter(caller *domain.User, effectiveOrg *string, requestedUserID *string) (repository.RecordFilter, bool) {
	switch caller.Role {
	case domain.RoleCandidate:
		email := caller.Email
		return repository.RecordFilter{OrgID: effectiveOrg, Email: &email}, true
	case domain.RoleAdmin, domain.RoleOrgSuperAdmin:
		if effectiveOrg == nil {
			return repository.RecordFilter{}, false
		}
		return repository.RecordFilter{OrgID: effectiveOrg, UserID: requestedUserID}, true
	case domain.RolePlatformAdmin:
		return repository.RecordFilter{OrgID: effectiveOrg, UserID: requestedUserID}, true
	default:
		return repository.RecordFilter{}, false
	}
}
