package attendance

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"time"

	attendanceerrors "go-hrops/internal/attendance/errors"
	"go-hrops/internal/profile"
	"go-hrops/internal/salary"
	"go-hrops/internal/settings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultLateAfter = "09:15"

type SettingsReader interface {
	String(ctx context.Context, key, fallback string) string
	Int(ctx context.Context, key string, fallback int) int
}

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, userID string, req ClockRequest) (AttendanceResponse, error)
	ClockOut(ctx context.Context, userID string, req ClockRequest) (AttendanceResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]AttendanceResponse, error)
	ProcessDaily(ctx context.Context, date time.Time) (ProcessResult, error)
	Report(ctx context.Context, from, to time.Time) ([]ReportRow, error)
	ExportReport(ctx context.Context, from, to time.Time, format string) ([]byte, error)
	CountByStatus(ctx context.Context, date time.Time) (map[Status]int64, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	profiles profile.Repository
	salaries salary.Repository
	settings SettingsReader
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	profiles profile.Repository,
	salaries salary.Repository,
	settingsReader SettingsReader,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		profiles: profiles,
		salaries: salaries,
		settings: settingsReader,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   l,
	}
}

func (s *service) ClockIn(ctx context.Context, userID string, req ClockRequest) (AttendanceResponse, error) {
	s.logger.Debug("clock in requested", zap.String("user_id", userID))

	uid, err := uuid.Parse(userID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidUserID
	}
	now := s.now()
	today := truncateDay(now)

	p, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrEmployeeNotFound
		}
		return AttendanceResponse{}, err
	}
	if p.IsTerminated {
		s.logger.Warn("clock in rejected", zap.String("user_id", userID), zap.String("reason", "terminated"))
		return AttendanceResponse{}, attendanceerrors.ErrEmployeeTerminated
	}
	if p.SuspendedOn(today) {
		s.logger.Warn("clock in rejected", zap.String("user_id", userID), zap.String("reason", "suspended"))
		return AttendanceResponse{}, attendanceerrors.ErrEmployeeSuspended
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	existing, err := qtx.FindByUserAndDate(ctx, userID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}
	if existing != nil && (existing.Status == StatusAbsent || existing.Status == StatusSuspended) {
		s.logger.Warn("clock in rejected", zap.String("user_id", userID), zap.String("reason", string(existing.Status)))
		return AttendanceResponse{}, attendanceerrors.ErrDayClosed
	}
	if existing != nil && existing.ClockIn != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
	}

	lateAfter := defaultLateAfter
	if s.settings != nil {
		lateAfter = s.settings.String(ctx, settings.KeyLateAfter, defaultLateAfter)
	}

	row := &Attendance{
		ID:              uuid.New(),
		UserID:          uid,
		AttendanceDate:  today,
		ClockIn:         &now,
		Status:          statusFor(now, lateAfter),
		DeductionAmount: decimal.Zero,
		Notes:           req.Notes,
	}
	if existing != nil {
		row.ID = existing.ID
	}

	if err := qtx.Upsert(ctx, row); err != nil {
		s.logger.Error("clock in persist failed", zap.String("user_id", userID), zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("clock in commit failed", zap.String("user_id", userID), zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("clock in success", zap.String("user_id", userID), zap.String("status", string(row.Status)))
	return mapToResponse(*row), nil
}

func (s *service) ClockOut(ctx context.Context, userID string, req ClockRequest) (AttendanceResponse, error) {
	s.logger.Debug("clock out requested", zap.String("user_id", userID))

	if _, err := uuid.Parse(userID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidUserID
	}
	now := s.now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindByUserAndDate(ctx, userID, truncateDay(now))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNotClockedIn
		}
		return AttendanceResponse{}, err
	}
	if row.ClockIn == nil {
		return AttendanceResponse{}, attendanceerrors.ErrNotClockedIn
	}
	if row.ClockOut != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedOut
	}

	row.ClockOut = &now
	if req.Notes != nil {
		row.Notes = req.Notes
	}
	if err := qtx.Upsert(ctx, row); err != nil {
		s.logger.Error("clock out persist failed", zap.String("user_id", userID), zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("clock out commit failed", zap.String("user_id", userID), zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("clock out success", zap.String("user_id", userID))
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]AttendanceResponse, error) {
	if filter.UserID != "" {
		if _, err := uuid.Parse(filter.UserID); err != nil {
			return nil, attendanceerrors.ErrInvalidUserID
		}
	}
	if filter.Status != "" {
		if _, ok := ParseStatus(filter.Status); !ok {
			return nil, attendanceerrors.ErrInvalidStatus
		}
	}
	from, to, err := parseRange(filter.From, filter.To)
	if err != nil {
		return nil, err
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, attendanceerrors.ErrInvalidDateRange
	}

	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

// ProcessDaily marks every active employee without a row on date as
// absent or suspended. Absences debit daily_rate times the configured
// number of days. Each employee is handled in its own transaction and
// the insert is conditional, so reruns skip users already processed.
func (s *service) ProcessDaily(ctx context.Context, date time.Time) (ProcessResult, error) {
	day := truncateDay(date)
	result := ProcessResult{Date: day.Format(dateLayout)}
	if day.After(truncateDay(s.now())) {
		return result, attendanceerrors.ErrFutureDate
	}

	days := 1
	if s.settings != nil {
		days = s.settings.Int(ctx, settings.KeyAbsenceDeductionDays, 1)
	}
	if days < 0 {
		days = 0
	}

	employees, err := s.profiles.FindActive(ctx)
	if err != nil {
		s.logger.Error("daily attendance load profiles failed", zap.Error(err))
		return result, err
	}

	var errs []error
	for _, p := range employees {
		if p.HireDate != nil && truncateDay(*p.HireDate).After(day) {
			result.Skipped++
			continue
		}
		status, err := s.processOne(ctx, p, day, days)
		if err != nil {
			result.Failed++
			errs = append(errs, err)
			s.logger.Error("daily attendance failed", zap.String("user_id", p.ID.String()), zap.Error(err))
			continue
		}
		switch status {
		case StatusAbsent:
			result.Absent++
		case StatusSuspended:
			result.Suspended++
		default:
			result.Skipped++
		}
	}

	s.logger.Info("daily attendance processed",
		zap.String("date", result.Date),
		zap.Int("absent", result.Absent),
		zap.Int("suspended", result.Suspended),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return result, errors.Join(errs...)
}

// processOne returns an empty status when the user already has a row.
func (s *service) processOne(ctx context.Context, p profile.Profile, day time.Time, days int) (Status, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	row := &Attendance{
		ID:              uuid.New(),
		UserID:          p.ID,
		AttendanceDate:  day,
		Status:          StatusAbsent,
		DeductionAmount: decimal.Zero,
	}

	var sal *salary.SalaryInfo
	stx := s.salaries.WithTx(tx)
	if p.SuspendedOn(day) {
		row.Status = StatusSuspended
	} else if days > 0 {
		sal, err = stx.FindByUserIDForUpdate(ctx, p.ID.String())
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}
		if sal != nil {
			planned := sal.DailyRate.Mul(decimal.NewFromInt(int64(days)))
			row.DeductionAmount = salary.ApplyFixedDeduction(sal, planned)
		}
	}

	inserted, err := s.repo.WithTx(tx).InsertIfAbsent(ctx, row)
	if err != nil {
		return "", err
	}
	if !inserted {
		return "", nil
	}
	if sal != nil && row.DeductionAmount.IsPositive() {
		if err := stx.Update(ctx, sal); err != nil {
			return "", err
		}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return row.Status, nil
}

func (s *service) Report(ctx context.Context, from, to time.Time) ([]ReportRow, error) {
	from, to = truncateDay(from), truncateDay(to)
	if from.After(to) {
		return nil, attendanceerrors.ErrInvalidDateRange
	}
	rows, err := s.repo.FindForReport(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]ReportRow, len(rows))
	for i, r := range rows {
		out[i] = toReportRow(r)
	}
	return out, nil
}

func (s *service) ExportReport(ctx context.Context, from, to time.Time, format string) ([]byte, error) {
	if format != FormatCSV && format != FormatXLSX {
		return nil, attendanceerrors.ErrInvalidFormat
	}
	rows, err := s.Report(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch format {
	case FormatXLSX:
		err = writeXLSX(&buf, rows)
	default:
		err = writeCSV(&buf, rows)
	}
	if err != nil {
		s.logger.Error("attendance report render failed", zap.String("format", format), zap.Error(err))
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *service) CountByStatus(ctx context.Context, date time.Time) (map[Status]int64, error) {
	return s.repo.CountByStatus(ctx, truncateDay(date))
}

// statusFor compares wall-clock HH:MM against the late threshold.
func statusFor(clockIn time.Time, lateAfter string) Status {
	threshold, err := time.Parse("15:04", lateAfter)
	if err != nil {
		threshold, _ = time.Parse("15:04", defaultLateAfter)
	}
	mins := clockIn.Hour()*60 + clockIn.Minute()
	if mins > threshold.Hour()*60+threshold.Minute() {
		return StatusLate
	}
	return StatusPresent
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses YYYY-MM-DD, returning fallback for an empty value.
func ParseDate(v string, fallback time.Time) (time.Time, error) {
	if v == "" {
		return truncateDay(fallback), nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, attendanceerrors.ErrInvalidDate
	}
	return t, nil
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	var f, t time.Time
	var err error
	if from != "" {
		if f, err = ParseDate(from, time.Time{}); err != nil {
			return f, t, err
		}
	}
	if to != "" {
		if t, err = ParseDate(to, time.Time{}); err != nil {
			return f, t, err
		}
	}
	return f, t, nil
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:              a.ID.String(),
		UserID:          a.UserID.String(),
		AttendanceDate:  a.AttendanceDate.Format(dateLayout),
		Status:          string(a.Status),
		DeductionAmount: a.DeductionAmount.StringFixed(2),
		Notes:           a.Notes,
	}
	if a.Employee != nil {
		resp.EmployeeName = a.Employee.FullName
	}
	if a.ClockIn != nil {
		v := a.ClockIn.Format(time.RFC3339)
		resp.ClockIn = &v
	}
	if a.ClockOut != nil {
		v := a.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &v
	}
	return resp
}
