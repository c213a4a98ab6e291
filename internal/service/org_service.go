package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/events"
	"github.com/spec-kit/compliance-service/internal/repository"
	apperrors "github.com/spec-kit/compliance-service/pkg/util/errorutil"
)

// OrgService manages tenant organizations. All operations are reserved for
// platform admins; tenants are deactivated rather than deleted.
type OrgService struct {
	orgs       repository.OrganizationRepository
	dispatcher events.Dispatcher
}

// NewOrgService constructs the service.
func NewOrgService(orgs repository.OrganizationRepository, dispatcher events.Dispatcher) *OrgService {
	return &OrgService{orgs: orgs, dispatcher: dispatcher}
}

// OrgCreateInput describes tenant creation payload.
type OrgCreateInput struct {
	Name    string
	Slug    string
	Domains []string
}

// Create provisions a new tenant with a unique slug.
func (s *OrgService) Create(ctx context.Context, caller *domain.User, input OrgCreateInput) (*domain.Organization, error) {
	if caller.Role != domain.RolePlatformAdmin {
		return nil, apperrors.NewAuthorizationDenied("organization management requires platform admin")
	}

	input.Slug = strings.ToLower(strings.TrimSpace(input.Slug))
	if strings.TrimSpace(input.Name) == "" || input.Slug == "" {
		return nil, apperrors.NewValidationError("name and slug required", nil)
	}

	if _, err := s.orgs.GetBySlug(ctx, input.Slug); err == nil {
		return nil, apperrors.NewConflict("slug already in use", map[string]any{"slug": input.Slug})
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	org := &domain.Organization{
		Name:    strings.TrimSpace(input.Name),
		Slug:    input.Slug,
		Domains: input.Domains,
		Active:  true,
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		return nil, apperrors.MapError(err)
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:       events.EventOrganizationCreated,
		OrgID:      &org.ID,
		ActorID:    caller.ID,
		EntityType: "organization",
		EntityID:   org.ID,
		EntityName: org.Name,
	})
	return org, nil
}

// List returns all tenants.
func (s *OrgService) List(ctx context.Context, caller *domain.User, limit, offset int) ([]domain.Organization, error) {
	if caller.Role != domain.RolePlatformAdmin {
		return nil, apperrors.NewAuthorizationDenied("organization management requires platform admin")
	}
	orgs, err := s.orgs.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return orgs, nil
}

// SetActive flips the tenant's active flag. Deactivation replaces deletion.
func (s *OrgService) SetActive(ctx context.Context, caller *domain.User, id string, active bool) (*domain.Organization, error) {
	if caller.Role != domain.RolePlatformAdmin {
		return nil, apperrors.NewAuthorizationDenied("organization management requires platform admin")
	}

	org, err := s.orgs.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("organization", nil)
		}
		return nil, apperrors.MapError(err)
	}

	org.Active = active
	if err := s.orgs.Update(ctx, org); err != nil {
		return nil, apperrors.MapError(err)
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:       events.EventOrganizationUpdated,
		OrgID:      &org.ID,
		ActorID:    caller.ID,
		EntityType: "organization",
		EntityID:   org.ID,
		EntityName: org.Name,
	})
	return org, nil
}
