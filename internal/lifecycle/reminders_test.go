package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/compliance-service/internal/domain"
)

func recordExpiringIn(id, orgID string, days int, asOf time.Time) domain.ComplianceRecord {
	expiry := asOf.AddDate(0, 0, days)
	return domain.ComplianceRecord{
		ID:         id,
		OrgID:      orgID,
		ExpiryDate: &expiry,
	}
}

func TestDueRemindersExactThresholdMatch(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	thresholds := []int{30, 14, 7}

	rec := recordExpiringIn("r1", "org-a", 14, asOf)
	due := DueReminders([]domain.ComplianceRecord{rec}, thresholds, asOf)
	require.Len(t, due, 1)
	require.Equal(t, "r1", due[0].Record.ID)
	require.Equal(t, 14, due[0].ThresholdDays)
}

func TestDueRemindersOffByOneDaysYieldNothing(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	thresholds := []int{30, 14, 7}

	for _, days := range []int{13, 15, 29, 31, 6, 8, 0} {
		rec := recordExpiringIn("r1", "org-a", days, asOf)
		due := DueReminders([]domain.ComplianceRecord{rec}, thresholds, asOf)
		require.Empty(t, due, "expiry in %d days must not fire", days)
	}
}

func TestDueRemindersSkipsRecordsWithoutExpiry(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	due := DueReminders([]domain.ComplianceRecord{{ID: "r1", OrgID: "org-a"}}, nil, asOf)
	require.Empty(t, due)
}

func TestDueRemindersDefaultThresholds(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rec := recordExpiringIn("r1", "org-a", 7, asOf)
	due := DueReminders([]domain.ComplianceRecord{rec}, nil, asOf)
	require.Len(t, due, 1)
	require.Equal(t, 7, due[0].ThresholdDays)
}

func TestWindowRemindersCoversWholeWindow(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []domain.ComplianceRecord{
		recordExpiringIn("r1", "org-a", 0, asOf),
		recordExpiringIn("r2", "org-a", 13, asOf),
		recordExpiringIn("r3", "org-a", 30, asOf),
		recordExpiringIn("r4", "org-a", 31, asOf),
		recordExpiringIn("r5", "org-a", -1, asOf),
	}
	due := WindowReminders(records, asOf)
	require.Len(t, due, 3)
	require.Equal(t, "r1", due[0].Record.ID)
	require.Equal(t, 0, due[0].ThresholdDays)
	require.Equal(t, "r2", due[1].Record.ID)
	require.Equal(t, "r3", due[2].Record.ID)
}

func TestBuildDigestsGroupsByOrganization(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []domain.ComplianceRecord{
		recordExpiringIn("r1", "org-b", 20, asOf),
		recordExpiringIn("r2", "org-a", 5, asOf),
		recordExpiringIn("r3", "org-a", 30, asOf),
		recordExpiringIn("r4", "org-a", 45, asOf),
		recordExpiringIn("r5", "org-c", -2, asOf),
		{ID: "r6", OrgID: "org-a"},
	}

	digests := BuildDigests(records, asOf)
	require.Len(t, digests, 2)

	require.Equal(t, "org-a", digests[0].OrgID)
	require.Len(t, digests[0].Entries, 2)
	require.Equal(t, "r2", digests[0].Entries[0].Record.ID)
	require.Equal(t, 5, digests[0].Entries[0].DaysUntil)
	require.Equal(t, "r3", digests[0].Entries[1].Record.ID)

	require.Equal(t, "org-b", digests[1].OrgID)
	require.Len(t, digests[1].Entries, 1)
}

func TestScenarioRecordExpiringInSevenDays(t *testing.T) {
	today := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	expiry := today.AddDate(0, 0, 7)
	r1 := domain.ComplianceRecord{
		ID:         "r1",
		OrgID:      "org-acme",
		UserID:     "u2",
		Email:      "c@x.com",
		ExpiryDate: &expiry,
	}

	result := Compute(&r1, today)
	require.Equal(t, domain.StatusExpiringSoon, result.Status)
	require.Equal(t, "yellow", result.Color)

	due := DueReminders([]domain.ComplianceRecord{r1}, []int{30, 14, 7}, today)
	require.Len(t, due, 1)
	require.Equal(t, "r1", due[0].Record.ID)
	require.Equal(t, 7, due[0].ThresholdDays)
}
