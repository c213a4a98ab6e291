package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/compliance-service/internal/auth"
	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/events"
	"github.com/spec-kit/compliance-service/internal/repository"
	apperrors "github.com/spec-kit/compliance-service/pkg/util/errorutil"
)

// RecordService coordinates compliance record workflows. Every operation
// resolves the effective organization first, then passes the authorizer
// before touching the store; mutations emit an activity event afterwards.
type RecordService struct {
	records    repository.RecordRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// RecordDependencies bundles requirements for the record service.
type RecordDependencies struct {
	RecordRepo repository.RecordRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewRecordService constructs the service.
func NewRecordService(deps RecordDependencies) *RecordService {
	return &RecordService{
		records:    deps.RecordRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// RecordInput describes creation/update payload after DTO parsing.
type RecordInput struct {
	UserID      string
	Kind        domain.RecordKind
	TypeTag     string
	SubjectName string
	Email       string
	IssueDate   *time.Time
	ExpiryDate  *time.Time
	Manual      domain.ManualStatus
}

// RecordListInput describes listing parameters.
type RecordListInput struct {
	UserID *string
	Kind   *domain.RecordKind
	Limit  int
	Offset int
}

// Create adds a record. Candidates create only for themselves (the record
// email is pinned to their own); admin roles create for any user of the
// effective organization.
func (s *RecordService) Create(ctx context.Context, caller *domain.User, explicitOrg *string, input RecordInput) (*domain.ComplianceRecord, error) {
	if err := validateRecordInput(&input); err != nil {
		return nil, err
	}

	effective := auth.ResolveOrg(caller, explicitOrg)
	if effective == nil {
		return nil, apperrors.NewValidationError("organization selector required", nil)
	}

	var owner *domain.User
	if caller.Role == domain.RoleCandidate {
		if input.UserID != "" && input.UserID != caller.ID {
			return nil, apperrors.NewAuthorizationDenied("candidates may only create records for themselves")
		}
		if input.Email != "" && !strings.EqualFold(input.Email, caller.Email) {
			return nil, apperrors.NewAuthorizationDenied("record email must match your own")
		}
		owner = caller
		input.Email = caller.Email
	} else {
		if input.UserID == "" {
			return nil, apperrors.NewValidationError("user_id required", map[string]any{"user_id": "required"})
		}
		var err error
		owner, err = s.users.GetByIDInOrg(ctx, input.UserID, *effective)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("user", nil)
			}
			return nil, apperrors.MapError(err)
		}
		if input.Email == "" {
			input.Email = owner.Email
		}
	}

	rec := &domain.ComplianceRecord{
		OrgID:       *effective,
		UserID:      owner.ID,
		Kind:        input.Kind,
		TypeTag:     strings.TrimSpace(input.TypeTag),
		SubjectName: strings.TrimSpace(input.SubjectName),
		Email:       input.Email,
		IssueDate:   input.IssueDate,
		ExpiryDate:  input.ExpiryDate,
		Manual:      input.Manual,
	}

	if !auth.Can(caller, auth.ActionCreate, auth.Target{OrgID: &rec.OrgID, Record: rec}) {
		return nil, apperrors.NewAuthorizationDenied("not allowed to create this record")
	}

	if err := s.records.Create(ctx, rec); err != nil {
		return nil, apperrors.MapError(err)
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:       events.EventRecordCreated,
		OrgID:      &rec.OrgID,
		ActorID:    caller.ID,
		EntityType: "compliance_record",
		EntityID:   rec.ID,
		EntityName: rec.SubjectName,
		Payload: events.RecordPayload{
			Kind:       rec.Kind,
			TypeTag:    rec.TypeTag,
			Email:      rec.Email,
			ExpiryDate: rec.ExpiryDate,
		},
	})
	return rec, nil
}

// Get fetches one record within the caller's scope. A cross-tenant id is
// reported as not-found, indistinguishable from a missing row.
func (s *RecordService) Get(ctx context.Context, caller *domain.User, explicitOrg *string, id string) (*domain.ComplianceRecord, error) {
	rec, err := s.fetchScoped(ctx, caller, explicitOrg, id)
	if err != nil {
		return nil, err
	}
	if !auth.Can(caller, auth.ActionView, auth.Target{OrgID: &rec.OrgID, Record: rec}) {
		return nil, apperrors.NewAuthorizationDenied("not allowed to view this record")
	}
	return rec, nil
}

// List returns records visible to the caller, optionally narrowed to one
// owning user of the effective organization.
func (s *RecordService) List(ctx context.Context, caller *domain.User, explicitOrg *string, input RecordListInput) ([]domain.ComplianceRecord, error) {
	effective := auth.ResolveOrg(caller, explicitOrg)

	filter, ok := auth.ScopeFilter(caller, effective, input.UserID)
	if !ok {
		return nil, apperrors.NewAuthorizationDenied("not allowed to list records")
	}

	// user_id narrowing is honored only when the target user belongs to the
	// effective organization; a miss masks as not-found.
	if input.UserID != nil && caller.Role != domain.RoleCandidate && effective != nil {
		if _, err := s.users.GetByIDInOrg(ctx, *input.UserID, *effective); err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("user", nil)
			}
			return nil, apperrors.MapError(err)
		}
	}

	filter.Kind = input.Kind
	filter.Limit = input.Limit
	filter.Offset = input.Offset

	records, err := s.records.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// Update modifies a record and triggers status recomputation downstream.
func (s *RecordService) Update(ctx context.Context, caller *domain.User, explicitOrg *string, id string, input RecordInput) (*domain.ComplianceRecord, error) {
	rec, err := s.fetchScoped(ctx, caller, explicitOrg, id)
	if err != nil {
		return nil, err
	}
	if !auth.Can(caller, auth.ActionUpdate, auth.Target{OrgID: &rec.OrgID, Record: rec}) {
		return nil, apperrors.NewAuthorizationDenied("not allowed to update this record")
	}
	if caller.Role == domain.RoleCandidate && input.Email != "" && !strings.EqualFold(input.Email, rec.Email) {
		return nil, apperrors.NewAuthorizationDenied("record email cannot be changed")
	}
	if err := validateRecordInput(&input); err != nil {
		return nil, err
	}

	rec.Kind = input.Kind
	rec.TypeTag = strings.TrimSpace(input.TypeTag)
	rec.SubjectName = strings.TrimSpace(input.SubjectName)
	if input.Email != "" && caller.Role != domain.RoleCandidate {
		rec.Email = input.Email
	}
	rec.IssueDate = input.IssueDate
	rec.ExpiryDate = input.ExpiryDate
	rec.Manual = input.Manual

	if err := s.records.Update(ctx, rec); err != nil {
		return nil, apperrors.MapError(err)
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:       events.EventRecordUpdated,
		OrgID:      &rec.OrgID,
		ActorID:    caller.ID,
		EntityType: "compliance_record",
		EntityID:   rec.ID,
		EntityName: rec.SubjectName,
		Payload: events.RecordPayload{
			Kind:       rec.Kind,
			TypeTag:    rec.TypeTag,
			Email:      rec.Email,
			ExpiryDate: rec.ExpiryDate,
		},
	})
	return rec, nil
}

// Delete removes a record from the store and from future reminder scans.
func (s *RecordService) Delete(ctx context.Context, caller *domain.User, explicitOrg *string, id string) error {
	rec, err := s.fetchScoped(ctx, caller, explicitOrg, id)
	if err != nil {
		return err
	}
	if !auth.Can(caller, auth.ActionDelete, auth.Target{OrgID: &rec.OrgID, Record: rec}) {
		return apperrors.NewAuthorizationDenied("not allowed to delete this record")
	}

	if err := s.records.Delete(ctx, rec.ID); err != nil {
		return apperrors.MapError(err)
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:       events.EventRecordDeleted,
		OrgID:      &rec.OrgID,
		ActorID:    caller.ID,
		EntityType: "compliance_record",
		EntityID:   rec.ID,
		EntityName: rec.SubjectName,
	})
	return nil
}

// fetchScoped loads a record and applies tenant masking: outside the
// effective organization the record does not exist as far as the caller can
// tell.
func (s *RecordService) fetchScoped(ctx context.Context, caller *domain.User, explicitOrg *string, id string) (*domain.ComplianceRecord, error) {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("record", nil)
		}
		return nil, apperrors.MapError(err)
	}
	effective := auth.ResolveOrg(caller, explicitOrg)
	if effective != nil && rec.OrgID != *effective {
		return nil, apperrors.NewNotFound("record", nil)
	}
	if effective == nil && caller.Role != domain.RolePlatformAdmin {
		return nil, apperrors.NewNotFound("record", nil)
	}
	return rec, nil
}

func validateRecordInput(input *RecordInput) error {
	details := map[string]any{}
	if !input.Kind.Valid() {
		details["kind"] = "unknown record kind"
	}
	if input.IssueDate != nil && input.ExpiryDate != nil && input.ExpiryDate.Before(*input.IssueDate) {
		details["expiry_date"] = "must not be before issue_date"
	}
	if status, ok := input.Manual.Override(); ok && !status.Valid() {
		details["manual_status"] = "unknown status value"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid record payload", details)
	}
	return nil
}
