package salary

import (
	"context"
	"database/sql"
	"time"

	"go-hrops/internal/shared/connection"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=salary_repo.go -destination=mock/salary_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *SalaryInfo) error
	Update(ctx context.Context, s *SalaryInfo) error
	FindAll(ctx context.Context) ([]SalaryInfo, error)
	FindByUserID(ctx context.Context, userID string) (*SalaryInfo, error)
	FindByUserIDForUpdate(ctx context.Context, userID string) (*SalaryInfo, error)
	// FindForUpdate locks one user's row, or every row when userID is empty.
	FindForUpdate(ctx context.Context, userID string) ([]SalaryInfo, error)
	SumDeductions(ctx context.Context, userID string, from, to time.Time) (map[uuid.UUID]decimal.Decimal, error)
	DeductionLines(ctx context.Context, userID string, from, to time.Time) ([]DeductionLine, error)
	FindHolder(ctx context.Context, userID string) (Holder, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, s *SalaryInfo) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) Update(ctx context.Context, s *SalaryInfo) error {
	return r.db.WithContext(ctx).
		Model(&SalaryInfo{}).
		Where("id = ?", s.ID).
		Updates(map[string]any{
			"base_salary":      s.BaseSalary,
			"current_salary":   s.CurrentSalary,
			"total_deductions": s.TotalDeductions,
			"daily_rate":       s.DailyRate,
			"updated_at":       time.Now().UTC(),
		}).Error
}

func (r *repository) FindAll(ctx context.Context) ([]SalaryInfo, error) {
	var rows []SalaryInfo
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByUserID(ctx context.Context, userID string) (*SalaryInfo, error) {
	var s SalaryInfo
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindByUserIDForUpdate(ctx context.Context, userID string) (*SalaryInfo, error) {
	var s SalaryInfo
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindForUpdate(ctx context.Context, userID string) ([]SalaryInfo, error) {
	q := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var rows []SalaryInfo
	err := q.Order("user_id ASC").Find(&rows).Error
	return rows, err
}

const sumDeductionsSQL = `
SELECT d.user_id, COALESCE(SUM(d.amount), 0) AS total
FROM (
	SELECT user_id, deduction_amount AS amount
	FROM attendance
	WHERE attendance_date >= @from AND attendance_date < @to AND deduction_amount > 0
	UNION ALL
	SELECT user_id, deduction_amount AS amount
	FROM suspensions
	WHERE effects_applied_at >= @from AND effects_applied_at < @to AND deduction_amount > 0
) d
WHERE @user = '' OR d.user_id::text = @user
GROUP BY d.user_id`

func (r *repository) SumDeductions(ctx context.Context, userID string, from, to time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []userTotal
	err := r.db.WithContext(ctx).
		Raw(sumDeductionsSQL, sql.Named("from", from), sql.Named("to", to), sql.Named("user", userID)).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	totals := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		totals[row.UserID] = row.Total
	}
	return totals, nil
}

const deductionLinesSQL = `
SELECT 'attendance' AS source, status AS reference, attendance_date AS occurred_on, deduction_amount AS amount
FROM attendance
WHERE user_id = @user AND attendance_date >= @from AND attendance_date < @to AND deduction_amount > 0
UNION ALL
SELECT 'suspension' AS source, reason AS reference, effects_applied_at AS occurred_on, deduction_amount AS amount
FROM suspensions
WHERE user_id = @user AND effects_applied_at >= @from AND effects_applied_at < @to AND deduction_amount > 0
ORDER BY occurred_on ASC`

func (r *repository) DeductionLines(ctx context.Context, userID string, from, to time.Time) ([]DeductionLine, error) {
	var lines []DeductionLine
	err := r.db.WithContext(ctx).
		Raw(deductionLinesSQL, sql.Named("user", userID), sql.Named("from", from), sql.Named("to", to)).
		Scan(&lines).Error
	return lines, err
}

func (r *repository) FindHolder(ctx context.Context, userID string) (Holder, error) {
	var h Holder
	res := r.db.WithContext(ctx).
		Table("profiles").
		Select("full_name, employee_code").
		Where("id = ?", userID).
		Scan(&h)
	if res.Error != nil {
		return Holder{}, res.Error
	}
	if res.RowsAffected == 0 {
		return Holder{}, gorm.ErrRecordNotFound
	}
	return h, nil
}
