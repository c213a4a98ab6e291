package dto

import (
	"time"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/lifecycle"
)

// DateLayout is the wire format for issue/expiry dates.
const DateLayout = "2006-01-02"

// RecordRequest is the create/update payload. Dates are ISO date strings;
// an empty manual_status means the status is derived from dates.
type RecordRequest struct {
	UserID         string  `json:"user_id"`
	OrganizationID *string `json:"organization_id"`
	Kind           string  `json:"kind"`
	TypeTag        string  `json:"type_tag"`
	SubjectName    string  `json:"subject_name"`
	Email          string  `json:"email"`
	IssueDate      string  `json:"issue_date"`
	ExpiryDate     string  `json:"expiry_date"`
	ManualStatus   string  `json:"manual_status"`
}

// RecordResponse carries a record with its computed live status.
type RecordResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	UserID         string    `json:"user_id"`
	Kind           string    `json:"kind"`
	TypeTag        string    `json:"type_tag"`
	SubjectName    string    `json:"subject_name"`
	Email          string    `json:"email"`
	IssueDate      *string   `json:"issue_date"`
	ExpiryDate     *string   `json:"expiry_date"`
	ManualStatus   string    `json:"manual_status,omitempty"`
	Status         string    `json:"status"`
	Color          string    `json:"color"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewRecordResponse builds the response, computing status as of the given
// time.
func NewRecordResponse(rec *domain.ComplianceRecord, asOf time.Time) RecordResponse {
	result := lifecycle.Compute(rec, asOf)
	return RecordResponse{
		ID:             rec.ID,
		OrganizationID: rec.OrgID,
		UserID:         rec.UserID,
		Kind:           string(rec.Kind),
		TypeTag:        rec.TypeTag,
		SubjectName:    rec.SubjectName,
		Email:          rec.Email,
		IssueDate:      formatDate(rec.IssueDate),
		ExpiryDate:     formatDate(rec.ExpiryDate),
		ManualStatus:   rec.Manual.String(),
		Status:         string(result.Status),
		Color:          result.Color,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(DateLayout)
	return &formatted
}
