package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-hrops/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Upsert(ctx context.Context, a *Attendance) error
	// InsertIfAbsent reports false when a row for (user, date) already exists.
	InsertIfAbsent(ctx context.Context, a *Attendance) (bool, error)
	FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Attendance, error)
	FindForReport(ctx context.Context, from, to time.Time) ([]Attendance, error)
	CountByStatus(ctx context.Context, date time.Time) (map[Status]int64, error)
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

func (r *repository) Upsert(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "attendance_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"clock_in", "clock_out", "status", "deduction_amount", "notes", "updated_at"}),
		}).
		Omit("Employee").
		Create(a).Error
}

func (r *repository) InsertIfAbsent(ctx context.Context, a *Attendance) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "attendance_date"}},
			DoNothing: true,
		}).
		Omit("Employee").
		Create(a)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND attendance_date = ?", userID, date.Format(dateLayout)).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Attendance, error) {
	var rows []Attendance
	q := r.db.WithContext(ctx).Preload("Employee")
	if filter.From != "" {
		q = q.Where("attendance_date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("attendance_date <= ?", filter.To)
	}
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	err := q.Order("attendance_date DESC, clock_in DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindForReport(ctx context.Context, from, to time.Time) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Joins("Employee").
		Where("attendance.attendance_date BETWEEN ? AND ?", from.Format(dateLayout), to.Format(dateLayout)).
		Order("attendance.attendance_date ASC").
		Order(`"Employee"."full_name" ASC`).
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountByStatus(ctx context.Context, date time.Time) (map[Status]int64, error) {
	var rows []struct {
		Status Status
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Select("status, COUNT(*) AS total").
		Where("attendance_date = ?", date.Format(dateLayout)).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
