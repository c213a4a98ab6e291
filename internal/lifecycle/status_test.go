package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/compliance-service/internal/domain"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestComputeStatusBoundaries(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

	cases := []struct {
		name     string
		expiry   *time.Time
		expected domain.RecordStatus
		color    string
	}{
		{"expires in 31 days", datePtr(asOf.AddDate(0, 0, 31)), domain.StatusActive, "green"},
		{"expires in 30 days", datePtr(asOf.AddDate(0, 0, 30)), domain.StatusExpiringSoon, "yellow"},
		{"expires today", datePtr(asOf), domain.StatusExpiringSoon, "yellow"},
		{"expired yesterday", datePtr(asOf.AddDate(0, 0, -1)), domain.StatusExpired, "red"},
		{"no expiry date", nil, domain.StatusPending, "gray"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &domain.ComplianceRecord{ExpiryDate: tc.expiry}
			result := Compute(rec, asOf)
			require.Equal(t, tc.expected, result.Status)
			require.Equal(t, tc.color, result.Color)
		})
	}
}

func TestComputeManualOverrideWins(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	expired := asOf.AddDate(0, 0, -90)

	rec := &domain.ComplianceRecord{
		ExpiryDate: &expired,
		Manual:     domain.OverrideStatus(domain.StatusActive),
	}
	result := Compute(rec, asOf)
	require.Equal(t, domain.StatusActive, result.Status)
	require.Equal(t, "green", result.Color)
}

func TestComputeUnknownOverrideMapsToGray(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rec := &domain.ComplianceRecord{
		Manual: domain.ParseManualStatus("under_review"),
	}
	result := Compute(rec, asOf)
	require.Equal(t, domain.RecordStatus("under_review"), result.Status)
	require.Equal(t, "gray", result.Color)
}

func TestDaysUntilIgnoresTimeOfDay(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)
	expiry := time.Date(2026, 3, 8, 0, 1, 0, 0, time.UTC)
	require.Equal(t, 7, DaysUntil(asOf, expiry))

	asOf = time.Date(2026, 3, 1, 0, 0, 1, 0, time.UTC)
	expiry = time.Date(2026, 3, 8, 23, 59, 59, 0, time.UTC)
	require.Equal(t, 7, DaysUntil(asOf, expiry))
}

func TestDaysUntilNegativeAfterExpiry(t *testing.T) {
	asOf := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	expiry := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	require.Equal(t, -3, DaysUntil(asOf, expiry))
}

func TestParseManualStatusRoundTrip(t *testing.T) {
	require.Equal(t, domain.AutoStatus(), domain.ParseManualStatus(""))

	manual := domain.ParseManualStatus("expired")
	status, ok := manual.Override()
	require.True(t, ok)
	require.Equal(t, domain.StatusExpired, status)
	require.Equal(t, "expired", manual.String())
	require.Equal(t, "", domain.AutoStatus().String())
}
