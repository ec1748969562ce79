package task

import (
	"context"
	"database/sql"
	"time"

	"go-hrops/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=task_repo.go -destination=mock/task_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *Task) error
	Update(ctx context.Context, t *Task) error
	FindAll(ctx context.Context, filter ListFilter) ([]Task, error)
	FindByID(ctx context.Context, id string) (*Task, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Task, error)

	// Bin operations see soft-deleted rows.
	MoveToBin(ctx context.Context, id string, deletedBy uuid.UUID) error
	FindBin(ctx context.Context) ([]Task, error)
	FindInBin(ctx context.Context, id string) (*Task, error)
	Restore(ctx context.Context, id string) error
	Purge(ctx context.Context, id string) error

	CreateMessage(ctx context.Context, msg *Message) error
	FindMessages(ctx context.Context, taskID string) ([]Message, error)
	CreateAttachment(ctx context.Context, a *Attachment) error
	FindAttachments(ctx context.Context, taskID string) ([]Attachment, error)
	CreateUsages(ctx context.Context, usages []InventoryUsage) error
	CountByStatus(ctx context.Context, assignedTo string) (map[Status]int64, error)
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

func (r *repository) Create(ctx context.Context, t *Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) Update(ctx context.Context, t *Task) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Task, error) {
	var tasks []Task
	q := r.db.WithContext(ctx)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.ProjectID != "" {
		q = q.Where("project_id = ?", filter.ProjectID)
	}
	if filter.AssignedTo != "" {
		q = q.Where("assigned_to = ?", filter.AssignedTo)
	}
	err := q.Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Task, error) {
	var t Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Task, error) {
	var t Task
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) MoveToBin(ctx context.Context, id string, deletedBy uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&Task{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"deleted_by": deletedBy,
			"deleted_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindBin(ctx context.Context) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Unscoped().
		Where("deleted_at IS NOT NULL").
		Order("deleted_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *repository) FindInBin(ctx context.Context, id string) (*Task, error) {
	var t Task
	err := r.db.WithContext(ctx).
		Unscoped().
		Where("id = ? AND deleted_at IS NOT NULL", id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) Restore(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Unscoped().
		Model(&Task{}).
		Where("id = ?", id).
		Updates(map[string]any{"deleted_at": nil, "deleted_by": nil}).Error
}

// Purge removes the task and everything hanging off it.
func (r *repository) Purge(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	for _, model := range []any{&Message{}, &Attachment{}, &InventoryUsage{}} {
		if err := db.Where("task_id = ?", id).Delete(model).Error; err != nil {
			return err
		}
	}
	return db.Unscoped().Where("id = ?", id).Delete(&Task{}).Error
}

func (r *repository) CreateMessage(ctx context.Context, msg *Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *repository) FindMessages(ctx context.Context, taskID string) ([]Message, error) {
	var msgs []Message
	err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Order("created_at ASC").Find(&msgs).Error
	return msgs, err
}

func (r *repository) CreateAttachment(ctx context.Context, a *Attachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindAttachments(ctx context.Context, taskID string) ([]Attachment, error) {
	var rows []Attachment
	err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) CreateUsages(ctx context.Context, usages []InventoryUsage) error {
	if len(usages) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&usages).Error
}

func (r *repository) CountByStatus(ctx context.Context, assignedTo string) (map[Status]int64, error) {
	var rows []struct {
		Status Status
		Total  int64
	}
	q := r.db.WithContext(ctx).Model(&Task{}).Select("status, COUNT(*) AS total")
	if assignedTo != "" {
		q = q.Where("assigned_to = ?", assignedTo)
	}
	if err := q.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
