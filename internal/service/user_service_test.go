package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/compliance-service/internal/domain"
)

func newUserFixture(t *testing.T) (*UserService, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	// bcrypt at minimum cost keeps the hashing in tests cheap
	svc := NewUserService(users, nil, 4)
	return svc, users
}

func TestSetAccessStatusSelfLockout(t *testing.T) {
	svc, users := newUserFixture(t)
	orgID := "org-1"
	superAdmin := domain.User{ID: "sa1", OrgID: &orgID, Email: "sa@x.com", Role: domain.RoleOrgSuperAdmin, AccessStatus: domain.AccessStatusActive}
	users.add(superAdmin)

	for _, status := range []domain.AccessStatus{domain.AccessStatusSuspended, domain.AccessStatusTerminated, domain.AccessStatusActive} {
		_, err := svc.SetAccessStatus(context.Background(), &superAdmin, nil, superAdmin.ID, status)
		requireCode(t, err, "SELF_LOCKOUT")
	}
}

func TestSetAccessStatusByPeerAdmin(t *testing.T) {
	svc, users := newUserFixture(t)
	orgID := "org-1"
	superAdmin := domain.User{ID: "sa1", OrgID: &orgID, Email: "sa@x.com", Role: domain.RoleOrgSuperAdmin, AccessStatus: domain.AccessStatusActive}
	admin := domain.User{ID: "a1", OrgID: &orgID, Email: "a@x.com", Role: domain.RoleAdmin, AccessStatus: domain.AccessStatusActive}
	users.add(superAdmin)
	users.add(admin)

	updated, err := svc.SetAccessStatus(context.Background(), &superAdmin, nil, admin.ID, domain.AccessStatusSuspended)
	require.NoError(t, err)
	require.Equal(t, domain.AccessStatusSuspended, updated.AccessStatus)

	// admin cannot reach back up at an org_super_admin account.
	_, err = svc.SetAccessStatus(context.Background(), &admin, nil, superAdmin.ID, domain.AccessStatusSuspended)
	requireCode(t, err, "AUTHORIZATION_DENIED")
}

func TestSetAccessStatusRejectsUnknownValue(t *testing.T) {
	svc, users := newUserFixture(t)
	orgID := "org-1"
	superAdmin := domain.User{ID: "sa1", OrgID: &orgID, Email: "sa@x.com", Role: domain.RoleOrgSuperAdmin, AccessStatus: domain.AccessStatusActive}
	admin := domain.User{ID: "a1", OrgID: &orgID, Email: "a@x.com", Role: domain.RoleAdmin, AccessStatus: domain.AccessStatusActive}
	users.add(superAdmin)
	users.add(admin)

	_, err := svc.SetAccessStatus(context.Background(), &superAdmin, nil, admin.ID, domain.AccessStatus("frozen"))
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestCreateUserRoleReach(t *testing.T) {
	svc, users := newUserFixture(t)
	orgID := "org-1"
	admin := domain.User{ID: "a1", OrgID: &orgID, Email: "a@x.com", Role: domain.RoleAdmin, AccessStatus: domain.AccessStatusActive}
	superAdmin := domain.User{ID: "sa1", OrgID: &orgID, Email: "sa@x.com", Role: domain.RoleOrgSuperAdmin, AccessStatus: domain.AccessStatusActive}
	users.add(admin)
	users.add(superAdmin)

	created, err := svc.Create(context.Background(), &admin, nil, UserCreateInput{
		Name: "New Candidate", Email: "nc@x.com", Password: "secret", Role: domain.RoleCandidate,
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleCandidate, created.Role)
	require.Equal(t, &orgID, created.OrgID)

	// admin may not mint org_super_admin accounts.
	_, err = svc.Create(context.Background(), &admin, nil, UserCreateInput{
		Name: "Usurper", Email: "u@x.com", Password: "secret", Role: domain.RoleOrgSuperAdmin,
	})
	requireCode(t, err, "AUTHORIZATION_DENIED")

	// org_super_admin may, within the tenant.
	_, err = svc.Create(context.Background(), &superAdmin, nil, UserCreateInput{
		Name: "Second Super", Email: "s2@x.com", Password: "secret", Role: domain.RoleOrgSuperAdmin,
	})
	require.NoError(t, err)

	// only a platform admin mints platform admins.
	_, err = svc.Create(context.Background(), &superAdmin, nil, UserCreateInput{
		Name: "Root", Email: "root@x.com", Password: "secret", Role: domain.RolePlatformAdmin,
	})
	requireCode(t, err, "AUTHORIZATION_DENIED")
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, users := newUserFixture(t)
	orgID := "org-1"
	admin := domain.User{ID: "a1", OrgID: &orgID, Email: "a@x.com", Role: domain.RoleAdmin, AccessStatus: domain.AccessStatusActive}
	users.add(admin)

	_, err := svc.Create(context.Background(), &admin, nil, UserCreateInput{
		Name: "Dup", Email: "a@x.com", Password: "secret", Role: domain.RoleCandidate,
	})
	requireCode(t, err, "CONFLICT")
}

func TestUpdateUserCrossTenantMasked(t *testing.T) {
	svc, users := newUserFixture(t)
	orgA, orgB := "org-a", "org-b"
	adminA := domain.User{ID: "a1", OrgID: &orgA, Email: "a@a.com", Role: domain.RoleAdmin, AccessStatus: domain.AccessStatusActive}
	candB := domain.User{ID: "c1", OrgID: &orgB, Email: "c@b.com", Role: domain.RoleCandidate, AccessStatus: domain.AccessStatusActive}
	users.add(adminA)
	users.add(candB)

	name := "Renamed"
	_, err := svc.Update(context.Background(), &adminA, nil, candB.ID, UserUpdateInput{Name: &name})
	requireCode(t, err, "NOT_FOUND")
}
