package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/compliance-service/internal/auth"
	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/events"
	"github.com/spec-kit/compliance-service/internal/repository"
	apperrors "github.com/spec-kit/compliance-service/pkg/util/errorutil"
)

// ActivityService appends audit entries for every successful mutation. It
// consumes domain events so the append is best-effort: a failed write is
// logged locally and never rolls back or blocks the primary operation.
type ActivityService struct {
	activity repository.ActivityRepository
	logger   *zap.Logger
}

// NewActivityService constructs the service.
func NewActivityService(activity repository.ActivityRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{activity: activity, logger: logger}
}

// RegisterHandlers subscribes the recorder to all mutation events.
func (a *ActivityService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventRecordCreated,
		events.EventRecordUpdated,
		events.EventRecordDeleted,
		events.EventUserCreated,
		events.EventUserUpdated,
		events.EventAccessStatusChanged,
		events.EventOrganizationCreated,
		events.EventOrganizationUpdated,
	} {
		dispatcher.Subscribe(eventType, a.handleEvent)
	}
}

func (a *ActivityService) handleEvent(ctx context.Context, event events.Event) error {
	entry := &domain.ActivityLogEntry{
		OrgID:       event.OrgID,
		ActorID:     event.ActorID,
		Action:      string(event.Type),
		EntityType:  event.EntityType,
		EntityID:    event.EntityID,
		EntityName:  event.EntityName,
		Description: describeEvent(event),
	}
	if err := a.activity.Create(ctx, entry); err != nil {
		a.logger.Warn("failed to append activity entry",
			zap.String("event_type", string(event.Type)),
			zap.String("entity_id", event.EntityID),
			zap.Error(err))
	}
	return nil
}

// List returns the audit trail of the effective organization. Candidates may
// not read the audit log.
func (a *ActivityService) List(ctx context.Context, caller *domain.User, explicitOrg *string, limit, offset int) ([]domain.ActivityLogEntry, error) {
	if caller.Role == domain.RoleCandidate {
		return nil, apperrors.NewAuthorizationDenied("audit log access requires an admin role")
	}
	effective := auth.ResolveOrg(caller, explicitOrg)
	if effective == nil {
		return nil, apperrors.NewValidationError("organization selector required", nil)
	}
	entries, err := a.activity.ListByOrg(ctx, *effective, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func describeEvent(event events.Event) string {
	return fmt.Sprintf("%s %s %q", event.Type, event.EntityType, event.EntityName)
}
