package lifecycle

import (
	"time"

	"github.com/spec-kit/compliance-service/internal/domain"
)

// ExpiringWindowDays is the number of days before expiry during which a
// record counts as expiring_soon and appears in digest notifications.
const ExpiringWindowDays = 30

// StatusResult pairs a computed status with its display color.
type StatusResult struct {
	Status domain.RecordStatus
	Color  string
}

// Compute derives the live status of a record as of the given date. A manual
// override always wins verbatim; a record without an expiry date is pending;
// otherwise the status follows the whole-day distance to expiry. Compute is a
// pure function of its arguments and never reads the wall clock.
func Compute(rec *domain.ComplianceRecord, asOf time.Time) StatusResult {
	if status, ok := rec.Manual.Override(); ok {
		return StatusResult{Status: status, Color: status.Color()}
	}
	if rec.ExpiryDate == nil {
		return StatusResult{Status: domain.StatusPending, Color: domain.StatusPending.Color()}
	}

	days := DaysUntil(asOf, *rec.ExpiryDate)
	var status domain.RecordStatus
	switch {
	case days < 0:
		status = domain.StatusExpired
	case days <= ExpiringWindowDays:
		status = domain.StatusExpiringSoon
	default:
		status = domain.StatusActive
	}
	return StatusResult{Status: status, Color: status.Color()}
}

// DaysUntil returns the whole-day distance from asOf to the target date.
// Both values are normalized to start-of-day first, so the result is
// insensitive to time-of-day; it is negative once the target has passed.
func DaysUntil(asOf, target time.Time) int {
	return int(startOfDay(target).Sub(startOfDay(asOf)).Hours() / 24)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
