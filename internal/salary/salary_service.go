package salary

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-hrops/internal/audit"
	salaryerrors "go-hrops/internal/salary/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const monthLayout = "2006-01"

//go:generate mockgen -source=salary_service.go -destination=mock/salary_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]SalaryResponse, error)
	GetByUserID(ctx context.Context, userID string) (SalaryResponse, error)
	Upsert(ctx context.Context, actorID, userID string, req UpsertSalaryRequest) (SalaryResponse, error)
	RecalculateDeductions(ctx context.Context, userID string, month time.Time) (RecalculateResponse, error)
	Statement(ctx context.Context, userID string, month time.Time) ([]byte, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	audits audit.Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, audits audit.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("salary.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salary.service")
	}
	return &service{db: db, repo: repo, audits: audits, logger: l}
}

func (s *service) GetAll(ctx context.Context) ([]SalaryResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByUserID(ctx context.Context, userID string) (SalaryResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return SalaryResponse{}, salaryerrors.ErrInvalidUserID
	}
	row, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*row), nil
}

func (s *service) Upsert(ctx context.Context, actorID, userID string, req UpsertSalaryRequest) (SalaryResponse, error) {
	s.logger.Debug("upsert salary requested", zap.String("user_id", userID), zap.String("actor_id", actorID))

	uid, err := uuid.Parse(userID)
	if err != nil {
		return SalaryResponse{}, salaryerrors.ErrInvalidUserID
	}
	if req.BaseSalary.IsNegative() || req.DailyRate.IsNegative() {
		s.logger.Warn("upsert salary validation failed", zap.String("user_id", userID))
		return SalaryResponse{}, salaryerrors.ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("upsert salary begin tx failed", zap.Error(err))
		return SalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindByUserIDForUpdate(ctx, userID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = &SalaryInfo{ID: uuid.New(), UserID: uid}
		rebase(row, req.BaseSalary.Round(2), decimal.Zero)
		row.DailyRate = req.DailyRate.Round(2)
		if err := qtx.Create(ctx, row); err != nil {
			s.logger.Error("create salary persist failed", zap.String("user_id", userID), zap.Error(err))
			return SalaryResponse{}, mapRepositoryError(err)
		}
	case err != nil:
		return SalaryResponse{}, err
	default:
		rebase(row, req.BaseSalary.Round(2), row.TotalDeductions)
		row.DailyRate = req.DailyRate.Round(2)
		if err := qtx.Update(ctx, row); err != nil {
			s.logger.Error("update salary persist failed", zap.String("user_id", userID), zap.Error(err))
			return SalaryResponse{}, err
		}
	}

	entry, err := audit.NewEntry(actorID, uid, audit.ActionSalaryUpdated, map[string]string{
		"base_salary": row.BaseSalary.StringFixed(2),
		"daily_rate":  row.DailyRate.StringFixed(2),
	})
	if err != nil {
		return SalaryResponse{}, err
	}
	if err := s.audits.WithTx(tx).Create(ctx, entry); err != nil {
		s.logger.Error("upsert salary audit failed", zap.String("user_id", userID), zap.Error(err))
		return SalaryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("upsert salary commit failed", zap.String("user_id", userID), zap.Error(err))
		return SalaryResponse{}, err
	}
	s.logger.Info("upsert salary success",
		zap.String("user_id", userID),
		zap.String("current_salary", row.CurrentSalary.StringFixed(2)),
	)
	return mapToResponse(*row), nil
}

// RecalculateDeductions rebuilds total_deductions for the month from the
// attendance and suspension debits recorded in it. An empty userID
// recalculates every salary row.
func (s *service) RecalculateDeductions(ctx context.Context, userID string, month time.Time) (RecalculateResponse, error) {
	if userID != "" {
		if _, err := uuid.Parse(userID); err != nil {
			return RecalculateResponse{}, salaryerrors.ErrInvalidUserID
		}
	}
	from, to := monthBounds(month)
	s.logger.Debug("recalculate deductions requested",
		zap.String("user_id", userID),
		zap.String("month", from.Format(monthLayout)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("recalculate deductions begin tx failed", zap.Error(err))
		return RecalculateResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rows, err := qtx.FindForUpdate(ctx, userID)
	if err != nil {
		return RecalculateResponse{}, err
	}
	if userID != "" && len(rows) == 0 {
		return RecalculateResponse{}, salaryerrors.ErrSalaryNotFound
	}

	totals, err := qtx.SumDeductions(ctx, userID, from, to)
	if err != nil {
		s.logger.Error("recalculate deductions sum failed", zap.Error(err))
		return RecalculateResponse{}, err
	}

	updated := 0
	for i := range rows {
		row := &rows[i]
		total := totals[row.UserID]
		before := row.TotalDeductions
		rebase(row, row.BaseSalary, total)
		if row.TotalDeductions.Equal(before) {
			continue
		}
		if err := qtx.Update(ctx, row); err != nil {
			s.logger.Error("recalculate deductions persist failed",
				zap.String("user_id", row.UserID.String()),
				zap.Error(err),
			)
			return RecalculateResponse{}, err
		}
		updated++
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("recalculate deductions commit failed", zap.Error(err))
		return RecalculateResponse{}, err
	}
	s.logger.Info("recalculate deductions success",
		zap.String("month", from.Format(monthLayout)),
		zap.Int("scanned", len(rows)),
		zap.Int("updated", updated),
	)
	return RecalculateResponse{Month: from.Format(monthLayout), Updated: updated}, nil
}

func (s *service) Statement(ctx context.Context, userID string, month time.Time) ([]byte, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, salaryerrors.ErrInvalidUserID
	}
	row, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	holder, err := s.repo.FindHolder(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, salaryerrors.ErrProfileNotFound
		}
		return nil, err
	}
	from, to := monthBounds(month)
	lines, err := s.repo.DeductionLines(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	pdf, err := renderStatement(holder, *row, from, lines)
	if err != nil {
		s.logger.Error("render salary statement failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return pdf, nil
}

// ParseMonth reads "YYYY-MM"; an empty value means the month of now.
func ParseMonth(v string, now time.Time) (time.Time, error) {
	if v == "" {
		return now.UTC(), nil
	}
	m, err := time.Parse(monthLayout, v)
	if err != nil {
		return time.Time{}, salaryerrors.ErrInvalidMonth
	}
	return m, nil
}

func monthBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func mapToResponse(s SalaryInfo) SalaryResponse {
	return SalaryResponse{
		ID:              s.ID.String(),
		UserID:          s.UserID.String(),
		BaseSalary:      s.BaseSalary,
		CurrentSalary:   s.CurrentSalary,
		TotalDeductions: s.TotalDeductions,
		DailyRate:       s.DailyRate,
		UpdatedAt:       s.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(rows []SalaryInfo) []SalaryResponse {
	resp := make([]SalaryResponse, len(rows))
	for i, r := range rows {
		resp[i] = mapToResponse(r)
	}
	return resp
}
