package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/repository"
)

type fakeRecordRepo struct {
	mu      sync.Mutex
	records map[string]domain.ComplianceRecord
	seq     int
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: make(map[string]domain.ComplianceRecord)}
}

func (f *fakeRecordRepo) Create(_ context.Context, rec *domain.ComplianceRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	rec.ID = fmt.Sprintf("rec-%d", f.seq)
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	f.records[rec.ID] = *rec
	return nil
}

func (f *fakeRecordRepo) Update(_ context.Context, rec *domain.ComplianceRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[rec.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.records[rec.ID] = *rec
	return nil
}

func (f *fakeRecordRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.records, id)
	return nil
}

func (f *fakeRecordRepo) GetByID(_ context.Context, id string) (*domain.ComplianceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &rec, nil
}

func (f *fakeRecordRepo) ListWithFilter(_ context.Context, filter repository.RecordFilter) ([]domain.ComplianceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.ComplianceRecord
	for _, rec := range f.records {
		if filter.OrgID != nil && rec.OrgID != *filter.OrgID {
			continue
		}
		if filter.UserID != nil && rec.UserID != *filter.UserID {
			continue
		}
		if filter.Email != nil && rec.Email != *filter.Email {
			continue
		}
		if filter.Kind != nil && rec.Kind != *filter.Kind {
			continue
		}
		result = append(result, rec)
	}
	return result, nil
}

func (f *fakeRecordRepo) ListExpiringBetween(_ context.Context, from, to time.Time) ([]domain.ComplianceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.ComplianceRecord
	for _, rec := range f.records {
		if rec.ExpiryDate == nil {
			continue
		}
		if rec.ExpiryDate.Before(from) || rec.ExpiryDate.After(to) {
			continue
		}
		result = append(result, rec)
	}
	return result, nil
}

func (f *fakeRecordRepo) add(rec domain.ComplianceRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[rec.ID] = rec
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	user.ID = fmt.Sprintf("user-%d", f.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByIDInOrg(_ context.Context, id, orgID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok || user.OrgID == nil || *user.OrgID != orgID {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (f *fakeUserRepo) ListByOrg(_ context.Context, orgID string, _, _ int) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.User
	for _, user := range f.users {
		if user.OrgID != nil && *user.OrgID == orgID {
			result = append(result, user)
		}
	}
	return result, nil
}

func (f *fakeUserRepo) ListAdminsByOrg(_ context.Context, orgID string) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.User
	for _, user := range f.users {
		if user.OrgID == nil || *user.OrgID != orgID {
			continue
		}
		if !user.Role.TenantAdmin() || user.AccessStatus != domain.AccessStatusActive {
			continue
		}
		result = append(result, user)
	}
	return result, nil
}

func (f *fakeUserRepo) add(user domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
}

type fakeNotifier struct {
	mu      sync.Mutex
	sent    []Notification
	failFor map[string]error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{failFor: make(map[string]error)}
}

func (f *fakeNotifier) Send(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[n.Recipient]; ok {
		return err
	}
	f.sent = append(f.sent, n)
	return nil
}

type fakeActivityRepo struct {
	mu      sync.Mutex
	entries []domain.ActivityLogEntry
	failing bool
}

func (f *fakeActivityRepo) Create(_ context.Context, entry *domain.ActivityLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("activity store unavailable")
	}
	entry.ID = fmt.Sprintf("act-%d", len(f.entries)+1)
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeActivityRepo) ListByOrg(_ context.Context, orgID string, _, _ int) ([]domain.ActivityLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.ActivityLogEntry
	for _, entry := range f.entries {
		if entry.OrgID != nil && *entry.OrgID == orgID {
			result = append(result, entry)
		}
	}
	return result, nil
}
