package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/compliance-service/internal/domain"
)

func newReminderFixture(t *testing.T) (*ReminderService, *fakeRecordRepo, *fakeUserRepo, *fakeNotifier) {
	t.Helper()
	records := newFakeRecordRepo()
	users := newFakeUserRepo()
	notifier := newFakeNotifier()
	svc := NewReminderService(ReminderDependencies{
		RecordRepo:  records,
		UserRepo:    users,
		Notifier:    notifier,
		SendTimeout: time.Second,
		Logger:      zap.NewNop(),
	})
	return svc, records, users, notifier
}

func expiringRecord(id, orgID, userID string, days int, asOf time.Time) domain.ComplianceRecord {
	expiry := asOf.AddDate(0, 0, days)
	return domain.ComplianceRecord{
		ID:          id,
		OrgID:       orgID,
		UserID:      userID,
		Kind:        domain.KindCredential,
		SubjectName: "RN License",
		Email:       "owner@x.com",
		ExpiryDate:  &expiry,
	}
}

func TestSendRemindersExactThresholds(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	svc, records, users, notifier := newReminderFixture(t)

	orgID := "org-1"
	users.add(domain.User{ID: "u1", OrgID: &orgID, Email: "owner@x.com", Role: domain.RoleCandidate, AccessStatus: domain.AccessStatusActive})
	records.add(expiringRecord("r1", orgID, "u1", 7, asOf))
	records.add(expiringRecord("r2", orgID, "u1", 10, asOf))

	result, err := svc.SendReminders(context.Background(), []int{30, 14, 7}, asOf, false)
	require.NoError(t, err)
	require.Equal(t, 1, result.Sent)
	require.Empty(t, result.Skipped)
	require.Empty(t, result.Failures)

	require.Len(t, notifier.sent, 1)
	require.Equal(t, "owner@x.com", notifier.sent[0].Recipient)
	require.Equal(t, "credential_expiry_reminder", notifier.sent[0].Template)
	require.Equal(t, 7, notifier.sent[0].Data["days_left"])
}

func TestSendRemindersSkipsMissingAddress(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	svc, records, users, notifier := newReminderFixture(t)

	orgID := "org-1"
	users.add(domain.User{ID: "u1", OrgID: &orgID, Email: "", Role: domain.RoleCandidate, AccessStatus: domain.AccessStatusActive})
	records.add(expiringRecord("r1", orgID, "u1", 14, asOf))
	records.add(expiringRecord("r2", orgID, "missing-user", 7, asOf))

	result, err := svc.SendReminders(context.Background(), nil, asOf, false)
	require.NoError(t, err)
	require.Equal(t, 0, result.Sent)
	require.Len(t, result.Skipped, 2)
	require.Empty(t, notifier.sent)

	reasons := map[string]string{}
	for _, skip := range result.Skipped {
		reasons[skip.RecordID] = skip.Reason
	}
	require.Equal(t, "no delivery address", reasons["r1"])
	require.Equal(t, "owner not found", reasons["r2"])
}

func TestSendRemindersCollectsFailuresAndContinues(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	svc, records, users, notifier := newReminderFixture(t)

	orgID := "org-1"
	users.add(domain.User{ID: "u1", OrgID: &orgID, Email: "bad@x.com", Role: domain.RoleCandidate, AccessStatus: domain.AccessStatusActive})
	users.add(domain.User{ID: "u2", OrgID: &orgID, Email: "good@x.com", Role: domain.RoleCandidate, AccessStatus: domain.AccessStatusActive})

	rec1 := expiringRecord("r1", orgID, "u1", 7, asOf)
	rec1.Email = "bad@x.com"
	rec2 := expiringRecord("r2", orgID, "u2", 7, asOf)
	rec2.Email = "good@x.com"
	records.add(rec1)
	records.add(rec2)

	notifier.failFor["bad@x.com"] = errors.New("smtp unavailable")

	result, err := svc.SendReminders(context.Background(), []int{7}, asOf, false)
	require.NoError(t, err)
	require.Equal(t, 1, result.Sent)
	require.Len(t, result.Failures, 1)
	require.Equal(t, "bad@x.com", result.Failures[0].Recipient)
	require.Contains(t, result.Failures[0].Error, "smtp unavailable")
}

func TestSendRemindersSendToAllCoversWindow(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	svc, records, users, _ := newReminderFixture(t)

	orgID := "org-1"
	users.add(domain.User{ID: "u1", OrgID: &orgID, Email: "owner@x.com", Role: domain.RoleCandidate, AccessStatus: domain.AccessStatusActive})
	records.add(expiringRecord("r1", orgID, "u1", 3, asOf))
	records.add(expiringRecord("r2", orgID, "u1", 22, asOf))
	records.add(expiringRecord("r3", orgID, "u1", 40, asOf))

	result, err := svc.SendReminders(context.Background(), nil, asOf, true)
	require.NoError(t, err)
	require.Equal(t, 2, result.Sent)
}

func TestSendSummaryDigestsPerOrganization(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	svc, records, users, notifier := newReminderFixture(t)

	orgA, orgB := "org-a", "org-b"
	users.add(domain.User{ID: "a1", OrgID: &orgA, Email: "admin@a.com", Role: domain.RoleAdmin, AccessStatus: domain.AccessStatusActive})
	users.add(domain.User{ID: "a2", OrgID: &orgA, Email: "super@a.com", Role: domain.RoleOrgSuperAdmin, AccessStatus: domain.AccessStatusActive})
	users.add(domain.User{ID: "c1", OrgID: &orgA, Email: "cand@a.com", Role: domain.RoleCandidate, AccessStatus: domain.AccessStatusActive})

	records.add(expiringRecord("r1", orgA, "c1", 5, asOf))
	records.add(expiringRecord("r2", orgA, "c1", 12, asOf))
	records.add(expiringRecord("r3", orgB, "x1", 9, asOf))

	result, err := svc.SendSummary(context.Background(), asOf)
	require.NoError(t, err)

	// both org-a admins get one digest each; org-b has no admins.
	require.Equal(t, 2, result.Sent)
	require.Len(t, result.Skipped, 1)
	require.Equal(t, "org-b", result.Skipped[0].OrgID)
	require.Equal(t, "no admin recipients", result.Skipped[0].Reason)

	require.Len(t, notifier.sent, 2)
	for _, n := range notifier.sent {
		require.Equal(t, "expiry_digest", n.Template)
		require.Equal(t, 2, n.Data["count"])
	}
}
