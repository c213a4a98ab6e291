package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/compliance-service/internal/auth"
	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/events"
	"github.com/spec-kit/compliance-service/internal/repository"
	apperrors "github.com/spec-kit/compliance-service/pkg/util/errorutil"
)

// UserService manages user accounts within the role hierarchy.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher, bcryptCost int) *UserService {
	return &UserService{users: users, dispatcher: dispatcher, bcryptCost: bcryptCost}
}

// UserCreateInput describes account creation payload.
type UserCreateInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// UserUpdateInput describes account update payload. Nil fields are left
// unchanged.
type UserUpdateInput struct {
	Name  *string
	Email *string
	Role  *domain.Role
}

// Create adds a user to the effective organization. Platform admin accounts
// carry no organization and can only be minted by another platform admin.
func (s *UserService) Create(ctx context.Context, caller *domain.User, explicitOrg *string, input UserCreateInput) (*domain.User, error) {
	if err := validateUserCreate(&input); err != nil {
		return nil, err
	}

	effective := auth.ResolveOrg(caller, explicitOrg)

	var orgID *string
	if input.Role == domain.RolePlatformAdmin {
		if caller.Role != domain.RolePlatformAdmin {
			return nil, apperrors.NewAuthorizationDenied("only platform admins may create platform admin accounts")
		}
	} else {
		if effective == nil {
			return nil, apperrors.NewValidationError("organization selector required", nil)
		}
		orgID = effective
	}

	prospective := &domain.User{Role: input.Role, OrgID: orgID}
	if !auth.Can(caller, auth.ActionManageUser, auth.Target{OrgID: orgID, User: prospective}) {
		return nil, apperrors.NewAuthorizationDenied("not allowed to create this account")
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": input.Email})
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		OrgID:        orgID,
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Role:         input.Role,
		AccessStatus: domain.AccessStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:       events.EventUserCreated,
		OrgID:      user.OrgID,
		ActorID:    caller.ID,
		EntityType: "user",
		EntityID:   user.ID,
		EntityName: user.Name,
	})
	return user, nil
}

// Get fetches one user within the caller's scope.
func (s *UserService) Get(ctx context.Context, caller *domain.User, explicitOrg *string, id string) (*domain.User, error) {
	target, err := s.fetchScoped(ctx, caller, explicitOrg, id)
	if err != nil {
		return nil, err
	}
	if !auth.Can(caller, auth.ActionView, auth.Target{OrgID: target.OrgID, User: target}) {
		return nil, apperrors.NewAuthorizationDenied("not allowed to view this account")
	}
	return target, nil
}

// List returns users of the effective organization.
func (s *UserService) List(ctx context.Context, caller *domain.User, explicitOrg *string, limit, offset int) ([]domain.User, error) {
	if caller.Role == domain.RoleCandidate {
		return nil, apperrors.NewAuthorizationDenied("listing accounts requires an admin role")
	}
	effective := auth.ResolveOrg(caller, explicitOrg)
	if effective == nil {
		return nil, apperrors.NewValidationError("organization selector required", nil)
	}
	users, err := s.users.ListByOrg(ctx, *effective, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Update modifies an account. Role changes are validated against both the
// current and the requested role so an admin cannot promote past their own
// reach.
func (s *UserService) Update(ctx context.Context, caller *domain.User, explicitOrg *string, id string, input UserUpdateInput) (*domain.User, error) {
	target, err := s.fetchScoped(ctx, caller, explicitOrg, id)
	if err != nil {
		return nil, err
	}
	if !auth.Can(caller, auth.ActionManageUser, auth.Target{OrgID: target.OrgID, User: target}) {
		return nil, apperrors.NewAuthorizationDenied("not allowed to modify this account")
	}

	if input.Role != nil && *input.Role != target.Role {
		if !input.Role.Valid() {
			return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": *input.Role})
		}
		if caller.Role == domain.RoleCandidate {
			return nil, apperrors.NewAuthorizationDenied("candidates may not change roles")
		}
		requested := &domain.User{ID: target.ID, OrgID: target.OrgID, Role: *input.Role}
		if !auth.Can(caller, auth.ActionManageUser, auth.Target{OrgID: target.OrgID, User: requested}) {
			return nil, apperrors.NewAuthorizationDenied("not allowed to assign this role")
		}
		target.Role = *input.Role
	}
	if input.Name != nil {
		target.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		target.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}

	if err := s.users.Update(ctx, target); err != nil {
		return nil, apperrors.MapError(err)
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:       events.EventUserUpdated,
		OrgID:      target.OrgID,
		ActorID:    caller.ID,
		EntityType: "user",
		EntityID:   target.ID,
		EntityName: target.Name,
	})
	return target, nil
}

// SetAccessStatus transitions an account between active/suspended/terminated.
// Changing one's own access status is rejected unconditionally.
func (s *UserService) SetAccessStatus(ctx context.Context, caller *domain.User, explicitOrg *string, id string, status domain.AccessStatus) (*domain.User, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("unknown access status", map[string]any{"access_status": status})
	}

	target, err := s.fetchScoped(ctx, caller, explicitOrg, id)
	if err != nil {
		return nil, err
	}

	authTarget := auth.Target{OrgID: target.OrgID, User: target}
	if auth.IsSelfLockout(caller, auth.ActionSetAccessStatus, authTarget) {
		return nil, apperrors.NewSelfLockout()
	}
	if !auth.Can(caller, auth.ActionSetAccessStatus, authTarget) {
		return nil, apperrors.NewAuthorizationDenied("not allowed to change this account's access status")
	}

	oldStatus := target.AccessStatus
	target.AccessStatus = status
	if err := s.users.Update(ctx, target); err != nil {
		return nil, apperrors.MapError(err)
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:       events.EventAccessStatusChanged,
		OrgID:      target.OrgID,
		ActorID:    caller.ID,
		EntityType: "user",
		EntityID:   target.ID,
		EntityName: target.Name,
		Payload: events.AccessStatusPayload{
			OldStatus: oldStatus,
			NewStatus: status,
		},
	})
	return target, nil
}

func (s *UserService) fetchScoped(ctx context.Context, caller *domain.User, explicitOrg *string, id string) (*domain.User, error) {
	effective := auth.ResolveOrg(caller, explicitOrg)

	var target *domain.User
	var err error
	if effective != nil {
		target, err = s.users.GetByIDInOrg(ctx, id, *effective)
	} else if caller.Role == domain.RolePlatformAdmin {
		target, err = s.users.GetByID(ctx, id)
	} else {
		return nil, apperrors.NewNotFound("user", nil)
	}
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return target, nil
}

func validateUserCreate(input *UserCreateInput) error {
	details := map[string]any{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "required"
	}
	if strings.TrimSpace(input.Email) == "" {
		details["email"] = "required"
	}
	if input.Password == "" {
		details["password"] = "required"
	}
	if !input.Role.Valid() {
		details["role"] = "unknown role"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid user payload", details)
	}
	return nil
}
