package domain

import "time"

// RecordKind enumerates the tracked compliance document categories.
type RecordKind string

const (
	KindCredential        RecordKind = "credential"
	KindBackgroundCheck   RecordKind = "background_check"
	KindHealthRecord      RecordKind = "health_record"
	KindWorkAuthorization RecordKind = "work_authorization"
)

// Valid reports whether the kind is a known member of the closed set.
func (k RecordKind) Valid() bool {
	switch k {
	case KindCredential, KindBackgroundCheck, KindHealthRecord, KindWorkAuthorization:
		return true
	}
	return false
}

// RecordStatus enumerates computed lifecycle states for a compliance record.
type RecordStatus string

const (
	StatusActive       RecordStatus = "active"
	StatusExpiringSoon RecordStatus = "expiring_soon"
	StatusExpired      RecordStatus = "expired"
	StatusPending      RecordStatus = "pending"
)

// Valid reports whether the status is a known member of the closed set.
func (s RecordStatus) Valid() bool {
	switch s {
	case StatusActive, StatusExpiringSoon, StatusExpired, StatusPending:
		return true
	}
	return false
}

// Color returns the display color for the status. Unknown values map to gray.
func (s RecordStatus) Color() string {
	switch s {
	case StatusActive:
		return "green"
	case StatusExpiringSoon:
		return "yellow"
	case StatusExpired:
		return "red"
	default:
		return "gray"
	}
}

// ManualStatus is either automatic (status derived from dates) or a fixed
// override that bypasses date computation entirely.
type ManualStatus struct {
	status RecordStatus
	set    bool
}

// AutoStatus returns the automatic (no override) value.
func AutoStatus() ManualStatus {
	return ManualStatus{}
}

// OverrideStatus returns a manual override carrying the given status.
func OverrideStatus(s RecordStatus) ManualStatus {
	return ManualStatus{status: s, set: true}
}

// Override returns the overridden status and whether an override is set.
func (m ManualStatus) Override() (RecordStatus, bool) {
	return m.status, m.set
}

// ParseManualStatus maps the persisted representation: an empty string means
// automatic, anything else is carried verbatim as an override.
func ParseManualStatus(raw string) ManualStatus {
	if raw == "" {
		return AutoStatus()
	}
	return OverrideStatus(RecordStatus(raw))
}

// String returns the persisted representation, empty for automatic.
func (m ManualStatus) String() string {
	if !m.set {
		return ""
	}
	return string(m.status)
}

// ComplianceRecord is the aggregate for any tracked compliance document.
// Email identifies the record subject and drives candidate-role ownership.
type ComplianceRecord struct {
	ID          string
	OrgID       string
	UserID      string
	Kind        RecordKind
	TypeTag     string
	SubjectName string
	Email       string
	IssueDate   *time.Time
	ExpiryDate  *time.Time
	Manual      ManualStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
