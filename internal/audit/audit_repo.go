package audit

import (
	"context"
	"database/sql"

	"go-hrops/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=audit_repo.go -destination=mock/audit_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *EmployeeAudit) error
	FindAll(ctx context.Context, filter ListFilter) ([]EmployeeAudit, error)
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

func (r *repository) Create(ctx context.Context, a *EmployeeAudit) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]EmployeeAudit, error) {
	q := r.db.WithContext(ctx).Model(&EmployeeAudit{})
	if filter.TargetUserID != "" {
		q = q.Where("target_user_id = ?", filter.TargetUserID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var rows []EmployeeAudit
	err := q.Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}
