// Package salarytest provides an in-memory salary.Repository for tests of
// packages that apply deductions.
package salarytest

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"go-hrops/internal/salary"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MemoryRepository struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]salary.SalaryInfo
	Updates int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: map[uuid.UUID]salary.SalaryInfo{}}
}

// Seed stores a consistent salary row with no deductions.
func (r *MemoryRepository) Seed(userID uuid.UUID, base, dailyRate string) {
	b := decimal.RequireFromString(base)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[userID] = salary.SalaryInfo{
		ID:            uuid.New(),
		UserID:        userID,
		BaseSalary:    b,
		CurrentSalary: b,
		DailyRate:     decimal.RequireFromString(dailyRate),
	}
}

func (r *MemoryRepository) Get(userID uuid.UUID) (salary.SalaryInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[userID]
	return s, ok
}

func (r *MemoryRepository) WithTx(tx *sql.Tx) salary.Repository { return r }

func (r *MemoryRepository) Create(ctx context.Context, s *salary.SalaryInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[s.UserID]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.rows[s.UserID] = *s
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, s *salary.SalaryInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[s.UserID] = *s
	r.Updates++
	return nil
}

func (r *MemoryRepository) FindAll(ctx context.Context) ([]salary.SalaryInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]salary.SalaryInfo, 0, len(r.rows))
	for _, s := range r.rows {
		out = append(out, s)
	}
	return out, nil
}

func (r *MemoryRepository) FindByUserID(ctx context.Context, userID string) (*salary.SalaryInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	s, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r *MemoryRepository) FindByUserIDForUpdate(ctx context.Context, userID string) (*salary.SalaryInfo, error) {
	return r.FindByUserID(ctx, userID)
}

func (r *MemoryRepository) FindForUpdate(ctx context.Context, userID string) ([]salary.SalaryInfo, error) {
	if userID == "" {
		return r.FindAll(ctx)
	}
	s, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, nil
	}
	return []salary.SalaryInfo{*s}, nil
}

func (r *MemoryRepository) SumDeductions(ctx context.Context, userID string, from, to time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	return map[uuid.UUID]decimal.Decimal{}, nil
}

func (r *MemoryRepository) DeductionLines(ctx context.Context, userID string, from, to time.Time) ([]salary.DeductionLine, error) {
	return nil, nil
}

func (r *MemoryRepository) FindHolder(ctx context.Context, userID string) (salary.Holder, error) {
	return salary.Holder{}, nil
}
