package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/compliance-service/internal/domain"
)

// RecordFilter captures listing parameters produced by the authorization
// scope filter plus optional request narrowing.
type RecordFilter struct {
	OrgID  *string
	UserID *string
	Email  *string
	Kind   *domain.RecordKind
	Limit  int
	Offset int
}

// RecordRepository encapsulates compliance record persistence.
type RecordRepository interface {
	Create(ctx context.Context, rec *domain.ComplianceRecord) error
	Update(ctx context.Context, rec *domain.ComplianceRecord) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.ComplianceRecord, error)
	ListWithFilter(ctx context.Context, filter RecordFilter) ([]domain.ComplianceRecord, error)
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]domain.ComplianceRecord, error)
}

type recordRepository struct {
	pool *pgxpool.Pool
}

// NewRecordRepository instantiates repository.
func NewRecordRepository(pool *pgxpool.Pool) RecordRepository {
	return &recordRepository{pool: pool}
}

func (r *recordRepository) Create(ctx context.Context, rec *domain.ComplianceRecord) error {
	const query = `
        INSERT INTO compliance_records (org_id, user_id, kind, type_tag, subject_name, email, issue_date, expiry_date, manual_status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		rec.OrgID,
		rec.UserID,
		rec.Kind,
		rec.TypeTag,
		rec.SubjectName,
		rec.Email,
		rec.IssueDate,
		rec.ExpiryDate,
		rec.Manual.String(),
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
}

func (r *recordRepository) Update(ctx context.Context, rec *domain.ComplianceRecord) error {
	const query = `
        UPDATE compliance_records SET kind=$1, type_tag=$2, subject_name=$3, email=$4,
            issue_date=$5, expiry_date=$6, manual_status=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		rec.Kind,
		rec.TypeTag,
		rec.SubjectName,
		rec.Email,
		rec.IssueDate,
		rec.ExpiryDate,
		rec.Manual.String(),
		rec.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *recordRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM compliance_records WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const recordColumns = `id, org_id, user_id, kind, type_tag, subject_name, email,
                       issue_date, expiry_date, manual_status, created_at, updated_at`

func (r *recordRepository) GetByID(ctx context.Context, id string) (*domain.ComplianceRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM compliance_records WHERE id=$1`, recordColumns)
	rec, err := scanRecord(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *recordRepository) ListWithFilter(ctx context.Context, filter RecordFilter) ([]domain.ComplianceRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OrgID != nil {
		args = append(args, *filter.OrgID)
		clauses = append(clauses, fmt.Sprintf("org_id=$%d", len(args)))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.Email != nil {
		args = append(args, *filter.Email)
		clauses = append(clauses, fmt.Sprintf("email=$%d", len(args)))
	}
	if filter.Kind != nil {
		args = append(args, *filter.Kind)
		clauses = append(clauses, fmt.Sprintf("kind=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM compliance_records WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		recordColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (r *recordRepository) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]domain.ComplianceRecord, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM compliance_records
        WHERE expiry_date IS NOT NULL AND expiry_date >= $1 AND expiry_date <= $2
        ORDER BY expiry_date ASC`, recordColumns)

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.ComplianceRecord, error) {
	var rec domain.ComplianceRecord
	var manual string
	if err := row.Scan(
		&rec.ID,
		&rec.OrgID,
		&rec.UserID,
		&rec.Kind,
		&rec.TypeTag,
		&rec.SubjectName,
		&rec.Email,
		&rec.IssueDate,
		&rec.ExpiryDate,
		&manual,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rec.Manual = domain.ParseManualStatus(manual)
	return &rec, nil
}

func scanRecords(rows pgx.Rows) ([]domain.ComplianceRecord, error) {
	var result []domain.ComplianceRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	return result, rows.Err()
}
