package suspension

import (
	"context"
	"database/sql"
	"time"

	"go-hrops/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=suspension_repo.go -destination=mock/suspension_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *Suspension) error
	Update(ctx context.Context, s *Suspension) error
	FindAll(ctx context.Context, filter ListFilter) ([]Suspension, error)
	FindByID(ctx context.Context, id string) (*Suspension, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Suspension, error)
	FindExpiredActive(ctx context.Context, now time.Time, limit int) ([]Suspension, error)
	CountActiveByUser(ctx context.Context, userID string) (int64, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
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

func (r *repository) Create(ctx context.Context, s *Suspension) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) Update(ctx context.Context, s *Suspension) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Suspension, error) {
	q := r.db.WithContext(ctx).Model(&Suspension{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	var rows []Suspension
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Suspension, error) {
	var s Suspension
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Suspension, error) {
	var s Suspension
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindExpiredActive skips rows another worker already holds.
func (r *repository) FindExpiredActive(ctx context.Context, now time.Time, limit int) ([]Suspension, error) {
	var rows []Suspension
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ? AND suspension_end <= ?", StatusActive, now).
		Order("suspension_end ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountActiveByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&Suspension{}).
		Where("user_id = ? AND status = ?", userID, StatusActive).
		Count(&n).Error
	return n, err
}

func (r *repository) CountByStatus(ctx context.Context, status Status) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Suspension{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
