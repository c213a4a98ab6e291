package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/compliance-service/internal/domain"
)

// UserRepository defines persistence access for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByIDInOrg(ctx context.Context, id, orgID string) (*domain.User, error)
	ListByOrg(ctx context.Context, orgID string, limit, offset int) ([]domain.User, error)
	ListAdminsByOrg(ctx context.Context, orgID string) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, org_id, name, email, password_hash, role, access_status, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (org_id, name, email, password_hash, role, access_status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.OrgID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.AccessStatus,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, email=$2, password_hash=$3, role=$4, access_status=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.AccessStatus,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

// GetByIDInOrg fetches a user scoped to one organization; a cross-tenant id
// surfaces as pgx.ErrNoRows, the same as a missing row.
func (r *userRepository) GetByIDInOrg(ctx context.Context, id, orgID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1 AND org_id=$2`
	return r.fetchSingle(ctx, query, id, orgID)
}

func (r *userRepository) ListByOrg(ctx context.Context, orgID string, limit, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE org_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

// ListAdminsByOrg returns the digest audience: every admin and
// org_super_admin of the organization with an active account.
func (r *userRepository) ListAdminsByOrg(ctx context.Context, orgID string) ([]domain.User, error) {
	query := `SELECT ` + userColumns + `
        FROM users
        WHERE org_id=$1 AND role IN ($2, $3) AND access_status=$4
        ORDER BY email ASC`
	rows, err := r.pool.Query(ctx, query, orgID, domain.RoleAdmin, domain.RoleOrgSuperAdmin, domain.AccessStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.OrgID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.AccessStatus,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.OrgID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.AccessStatus,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
