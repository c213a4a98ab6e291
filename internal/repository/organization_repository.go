package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/compliance-service/internal/domain"
)

// OrganizationRepository defines persistence access for tenants.
type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	Update(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Organization, error)
	List(ctx context.Context, limit, offset int) ([]domain.Organization, error)
}

type organizationRepository struct {
	pool *pgxpool.Pool
}

// NewOrganizationRepository returns a Postgres-backed implementation.
func NewOrganizationRepository(pool *pgxpool.Pool) OrganizationRepository {
	return &organizationRepository{pool: pool}
}

func (r *organizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	const query = `
        INSERT INTO organizations (name, slug, domains, active)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		org.Name,
		org.Slug,
		org.Domains,
		org.Active,
	).Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)
}

func (r *organizationRepository) Update(ctx context.Context, org *domain.Organization) error {
	const query = `
        UPDATE organizations SET name=$1, slug=$2, domains=$3, active=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		org.Name,
		org.Slug,
		org.Domains,
		org.Active,
		org.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *organizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	const query = `
        SELECT id, name, slug, domains, active, created_at, updated_at
        FROM organizations WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *organizationRepository) GetBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	const query = `
        SELECT id, name, slug, domains, active, created_at, updated_at
        FROM organizations WHERE slug=$1`
	return r.fetchSingle(ctx, query, slug)
}

func (r *organizationRepository) List(ctx context.Context, limit, offset int) ([]domain.Organization, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, name, slug, domains, active, created_at, updated_at
        FROM organizations ORDER BY name ASC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Organization
	for rows.Next() {
		var org domain.Organization
		if err := rows.Scan(
			&org.ID,
			&org.Name,
			&org.Slug,
			&org.Domains,
			&org.Active,
			&org.CreatedAt,
			&org.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, org)
	}
	return result, rows.Err()
}

func (r *organizationRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Organization, error) {
	var org domain.Organization
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&org.ID,
		&org.Name,
		&org.Slug,
		&org.Domains,
		&org.Active,
		&org.CreatedAt,
		&org.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &org, nil
}
