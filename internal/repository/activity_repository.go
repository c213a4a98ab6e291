package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/compliance-service/internal/domain"
)

// ActivityRepository appends and lists immutable audit entries. There is no
// update or delete path; the log is append-only.
type ActivityRepository interface {
	Create(ctx context.Context, entry *domain.ActivityLogEntry) error
	ListByOrg(ctx context.Context, orgID string, limit, offset int) ([]domain.ActivityLogEntry, error)
}

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository returns a Postgres-backed implementation.
func NewActivityRepository(pool *pgxpool.Pool) ActivityRepository {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) Create(ctx context.Context, entry *domain.ActivityLogEntry) error {
	const query = `
        INSERT INTO activity_log (org_id, actor_id, action, entity_type, entity_id, entity_name, description)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		entry.OrgID,
		entry.ActorID,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.EntityName,
		entry.Description,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *activityRepository) ListByOrg(ctx context.Context, orgID string, limit, offset int) ([]domain.ActivityLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, org_id, actor_id, action, entity_type, entity_id, entity_name, description, created_at
        FROM activity_log WHERE org_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ActivityLogEntry
	for rows.Next() {
		var entry domain.ActivityLogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.OrgID,
			&entry.ActorID,
			&entry.Action,
			&entry.EntityType,
			&entry.EntityID,
			&entry.EntityName,
			&entry.Description,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
