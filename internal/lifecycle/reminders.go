package lifecycle

import (
	"sort"
	"time"

	"github.com/spec-kit/compliance-service/internal/domain"
)

// DefaultThresholds is the canonical reminder schedule: day-offsets before
// expiry at which exactly one reminder fires per record.
var DefaultThresholds = []int{30, 14, 7}

// DueReminder couples a record with the threshold that fired for it.
type DueReminder struct {
	Record        domain.ComplianceRecord
	ThresholdDays int
}

// DueReminders returns the reminders due on asOf. A threshold d fires for a
// record iff the whole-day distance to its expiry equals d exactly, so each
// record triggers at most once per threshold rather than every day from d
// down to zero. Records without an expiry date never fire.
func DueReminders(records []domain.ComplianceRecord, thresholds []int, asOf time.Time) []DueReminder {
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds
	}
	var due []DueReminder
	for _, rec := range records {
		if rec.ExpiryDate == nil {
			continue
		}
		days := DaysUntil(asOf, *rec.ExpiryDate)
		for _, d := range thresholds {
			if days == d {
				due = append(due, DueReminder{Record: rec, ThresholdDays: d})
			}
		}
	}
	return due
}

// WindowReminders returns one reminder per record whose expiry falls inside
// the digest window (0..ExpiringWindowDays inclusive), regardless of the
// threshold schedule. Used by the send-to-all manual trigger.
func WindowReminders(records []domain.ComplianceRecord, asOf time.Time) []DueReminder {
	var due []DueReminder
	for _, rec := range records {
		if rec.ExpiryDate == nil {
			continue
		}
		days := DaysUntil(asOf, *rec.ExpiryDate)
		if days >= 0 && days <= ExpiringWindowDays {
			due = append(due, DueReminder{Record: rec, ThresholdDays: days})
		}
	}
	return due
}

// DigestEntry is one expiring record inside an organization digest.
type DigestEntry struct {
	Record    domain.ComplianceRecord
	DaysUntil int
}

// Digest aggregates all records of one organization expiring within the
// digest window. It is built independently of the per-threshold pass and
// does not de-duplicate against it.
type Digest struct {
	OrgID   string
	Entries []DigestEntry
}

// BuildDigests groups records with 0..ExpiringWindowDays days left by owning
// organization. Output is ordered by organization id and, within an
// organization, by days remaining, so a run over the same data is stable.
func BuildDigests(records []domain.ComplianceRecord, asOf time.Time) []Digest {
	byOrg := make(map[string][]DigestEntry)
	for _, rec := range records {
		if rec.ExpiryDate == nil {
			continue
		}
		days := DaysUntil(asOf, *rec.ExpiryDate)
		if days < 0 || days > ExpiringWindowDays {
			continue
		}
		byOrg[rec.OrgID] = append(byOrg[rec.OrgID], DigestEntry{Record: rec, DaysUntil: days})
	}

	orgIDs := make([]string, 0, len(byOrg))
	for orgID := range byOrg {
		orgIDs = append(orgIDs, orgID)
	}
	sort.Strings(orgIDs)

	digests := make([]Digest, 0, len(orgIDs))
	for _, orgID := range orgIDs {
		entries := byOrg[orgID]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].DaysUntil < entries[j].DaysUntil
		})
		digests = append(digests, Digest{OrgID: orgID, Entries: entries})
	}
	return digests
}
