package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/compliance-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func orgUser(id, orgID string, role domain.Role, email string) *domain.User {
	return &domain.User{
		ID:           id,
		OrgID:        &orgID,
		Email:        email,
		Role:         role,
		AccessStatus: domain.AccessStatusActive,
	}
}

func TestResolveOrgPinsNonPlatformRoles(t *testing.T) {
	admin := orgUser("u1", "org-a", domain.RoleAdmin, "a@x.com")

	// A forged selector must not escape the caller's own tenant.
	require.Equal(t, strPtr("org-a"), ResolveOrg(admin, strPtr("org-b")))
	require.Equal(t, strPtr("org-a"), ResolveOrg(admin, nil))

	candidate := orgUser("u2", "org-a", domain.RoleCandidate, "c@x.com")
	require.Equal(t, strPtr("org-a"), ResolveOrg(candidate, strPtr("org-b")))
}

func TestResolveOrgPlatformAdminSelector(t *testing.T) {
	platform := &domain.User{ID: "p1", Role: domain.RolePlatformAdmin, Email: "p@x.com"}

	require.Equal(t, strPtr("org-b"), ResolveOrg(platform, strPtr("org-b")))
	require.Nil(t, ResolveOrg(platform, nil))
}

func TestTenantIsolation(t *testing.T) {
	record := &domain.ComplianceRecord{ID: "r1", OrgID: "org-b", Email: "owner@b.com"}
	target := Target{OrgID: strPtr("org-b"), Record: record}

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleOrgSuperAdmin, domain.RoleCandidate} {
		caller := orgUser("u1", "org-a", role, "owner@b.com")
		for _, action := range []Action{ActionView, ActionCreate, ActionUpdate, ActionDelete} {
			require.False(t, Can(caller, action, target),
				"role %s must not reach org-b with action %s", role, action)
		}
	}
}

func TestPlatformAdminCrossesTenants(t *testing.T) {
	platform := &domain.User{ID: "p1", Role: domain.RolePlatformAdmin, Email: "p@x.com"}
	record := &domain.ComplianceRecord{ID: "r1", OrgID: "org-b", Email: "owner@b.com"}

	require.True(t, Can(platform, ActionUpdate, Target{OrgID: strPtr("org-b"), Record: record}))
	require.True(t, Can(platform, ActionDelete, Target{OrgID: strPtr("org-b"), Record: record}))
}

func TestCandidateSelfScope(t *testing.T) {
	candidate := orgUser("u2", "org-a", domain.RoleCandidate, "c@x.com")

	own := &domain.ComplianceRecord{ID: "r1", OrgID: "org-a", Email: "c@x.com"}
	other := &domain.ComplianceRecord{ID: "r2", OrgID: "org-a", Email: "d@x.com"}

	require.True(t, Can(candidate, ActionUpdate, Target{OrgID: strPtr("org-a"), Record: own}))
	require.False(t, Can(candidate, ActionUpdate, Target{OrgID: strPtr("org-a"), Record: other}))
	require.False(t, Can(candidate, ActionView, Target{OrgID: strPtr("org-a"), Record: other}))

	// Candidates never touch org-level resources.
	require.False(t, Can(candidate, ActionCreate, Target{OrgID: strPtr("org-a")}))
}

func TestSelfLockoutRejectedForEveryRole(t *testing.T) {
	for _, role := range []domain.Role{domain.RolePlatformAdmin, domain.RoleOrgSuperAdmin, domain.RoleAdmin, domain.RoleCandidate} {
		caller := orgUser("u1", "org-a", role, "a@x.com")
		if role == domain.RolePlatformAdmin {
			caller.OrgID = nil
		}
		target := Target{OrgID: caller.OrgID, User: caller}

		require.True(t, IsSelfLockout(caller, ActionSetAccessStatus, target), "role %s", role)
		require.False(t, Can(caller, ActionSetAccessStatus, target), "role %s", role)
	}
}

func TestRoleHierarchyOnUserTargets(t *testing.T) {
	orgA := "org-a"
	superAdmin := orgUser("sa1", orgA, domain.RoleOrgSuperAdmin, "sa@x.com")
	admin := orgUser("a1", orgA, domain.RoleAdmin, "a@x.com")
	platform := &domain.User{ID: "p1", Role: domain.RolePlatformAdmin, Email: "p@x.com"}
	candidate := orgUser("c1", orgA, domain.RoleCandidate, "c@x.com")

	// org_super_admin may never modify a platform_admin account.
	require.False(t, Can(superAdmin, ActionManageUser, Target{User: platform}))

	// admin may not manage org_super_admin or platform_admin accounts.
	require.False(t, Can(admin, ActionManageUser, Target{OrgID: &orgA, User: superAdmin}))
	require.False(t, Can(admin, ActionManageUser, Target{User: platform}))

	// admin manages candidates and peers in-tenant.
	require.True(t, Can(admin, ActionManageUser, Target{OrgID: &orgA, User: candidate}))
	require.True(t, Can(superAdmin, ActionManageUser, Target{OrgID: &orgA, User: admin}))
	require.True(t, Can(superAdmin, ActionSetAccessStatus, Target{OrgID: &orgA, User: admin}))

	// candidates only reach their own account.
	require.True(t, Can(candidate, ActionView, Target{OrgID: &orgA, User: candidate}))
	require.False(t, Can(candidate, ActionManageUser, Target{OrgID: &orgA, User: admin}))
}

func TestScopeFilterPerRole(t *testing.T) {
	orgA := "org-a"

	candidate := orgUser("c1", orgA, domain.RoleCandidate, "c@x.com")
	filter, ok := ScopeFilter(candidate, &orgA, strPtr("someone-else"))
	require.True(t, ok)
	require.Equal(t, &orgA, filter.OrgID)
	require.NotNil(t, filter.Email)
	require.Equal(t, "c@x.com", *filter.Email)
	require.Nil(t, filter.UserID)

	admin := orgUser("a1", orgA, domain.RoleAdmin, "a@x.com")
	filter, ok = ScopeFilter(admin, &orgA, strPtr("u9"))
	require.True(t, ok)
	require.Equal(t, &orgA, filter.OrgID)
	require.Equal(t, strPtr("u9"), filter.UserID)

	_, ok = ScopeFilter(admin, nil, nil)
	require.False(t, ok)

	platform := &domain.User{ID: "p1", Role: domain.RolePlatformAdmin, Email: "p@x.com"}
	filter, ok = ScopeFilter(platform, nil, nil)
	require.True(t, ok)
	require.Nil(t, filter.OrgID)
}

func TestScenarioAcmeRecordAuthorization(t *testing.T) {
	orgAcme := "org-1"
	orgOther := "org-2"

	candidate := orgUser("u2", orgAcme, domain.RoleCandidate, "c@x.com")
	foreignAdmin := orgUser("u1", orgOther, domain.RoleAdmin, "admin@other.com")

	r1 := &domain.ComplianceRecord{ID: "r1", OrgID: orgAcme, UserID: "u2", Email: "c@x.com"}
	target := Target{OrgID: &orgAcme, Record: r1}

	require.True(t, Can(candidate, ActionUpdate, target))
	require.False(t, Can(foreignAdmin, ActionUpdate, target))
}
