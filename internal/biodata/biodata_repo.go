package biodata

import (
	"context"
	"database/sql"

	"go-hrops/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=biodata_repo.go -destination=mock/biodata_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *Submission) error
	Update(ctx context.Context, s *Submission) error
	FindAll(ctx context.Context, filter ListFilter) ([]Submission, error)
	FindByID(ctx context.Context, id string) (*Submission, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Submission, error)
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

func (r *repository) Create(ctx context.Context, s *Submission) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) Update(ctx context.Context, s *Submission) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Submission, error) {
	var rows []Submission
	q := r.db.WithContext(ctx).Model(&Submission{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("full_name ILIKE ? OR email ILIKE ?", like, like)
	}
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Submission, error) {
	var s Submission
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Submission, error) {
	var s Submission
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) CountByStatus(ctx context.Context, status Status) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Submission{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
