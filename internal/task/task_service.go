package task

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-hrops/internal/domain"
	"go-hrops/internal/events"
	"go-hrops/internal/inventory"
	"go-hrops/internal/messaging/kafka"
	"go-hrops/internal/storage"
	taskerrors "go-hrops/internal/task/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type Service interface {
	Create(ctx context.Context, actor Actor, req CreateTaskRequest) (TaskResponse, error)
	Update(ctx context.Context, actor Actor, id string, req UpdateTaskRequest) (TaskResponse, error)
	GetAll(ctx context.Context, actor Actor, filter ListFilter) ([]TaskResponse, error)
	GetByID(ctx context.Context, actor Actor, id string) (TaskResponse, error)
	ChangeStatus(ctx context.Context, actor Actor, id string, req ChangeStatusRequest) (TaskResponse, error)

	MoveToBin(ctx context.Context, actor Actor, id string) error
	ListBin(ctx context.Context) ([]TaskResponse, error)
	Restore(ctx context.Context, actor Actor, id string) (TaskResponse, error)
	Purge(ctx context.Context, actor Actor, id string) error

	PostMessage(ctx context.Context, actor Actor, taskID string, req PostMessageRequest) (MessageResponse, error)
	ListMessages(ctx context.Context, actor Actor, taskID string) ([]MessageResponse, error)
	UploadAttachment(ctx context.Context, actor Actor, taskID string, upload storage.Upload) (AttachmentResponse, error)
	ListAttachments(ctx context.Context, actor Actor, taskID string) ([]AttachmentResponse, error)
	DeductInventory(ctx context.Context, actor Actor, taskID string, req DeductInventoryRequest) (DeductInventoryResponse, error)

	CountByStatus(ctx context.Context, assignedTo string) (map[Status]int64, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	inventory inventory.Repository
	store     storage.ObjectStore
	rdb       *redis.Client
	outbox    kafka.OutboxRepository
	now       func() time.Time
	logger    *zap.Logger
}

// NewService wires the task service. rdb, store and outbox may be nil.
func NewService(
	db *sql.DB,
	repo Repository,
	inventoryRepo inventory.Repository,
	store storage.ObjectStore,
	rdb *redis.Client,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("task.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("task.service")
	}
	if store == nil {
		store = storage.NewUnavailableStore()
	}
	return &service{
		db:        db,
		repo:      repo,
		inventory: inventoryRepo,
		store:     store,
		rdb:       rdb,
		outbox:    outbox,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, actor Actor, req CreateTaskRequest) (TaskResponse, error) {
	s.logger.Debug("create task requested", zap.String("actor_id", actor.ID), zap.String("assigned_to", req.AssignedTo))

	creator, err := uuid.Parse(actor.ID)
	if err != nil {
		return TaskResponse{}, taskerrors.ErrInvalidAssignee
	}
	assignee, err := uuid.Parse(req.AssignedTo)
	if err != nil {
		return TaskResponse{}, taskerrors.ErrInvalidAssignee
	}
	if !actor.Role.IsManager() && assignee != creator {
		return TaskResponse{}, taskerrors.ErrManagerOnly
	}

	category := Category(req.Category)
	switch category {
	case "":
		category = CategoryStandard
	case CategoryStandard, CategoryGrowth:
	default:
		return TaskResponse{}, taskerrors.ErrInvalidCategory
	}
	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}
	if !priorities[priority] {
		return TaskResponse{}, taskerrors.ErrInvalidPriority
	}

	t := &Task{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Category:    category,
		Priority:    priority,
		AssignedTo:  assignee,
		CreatedBy:   creator,
		Status:      StatusPending,
	}
	if err := applyOptional(t, req.ProjectID, req.DueDate); err != nil {
		return TaskResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TaskResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, t); err != nil {
		s.logger.Error("create task persist failed", zap.Error(err))
		return TaskResponse{}, err
	}
	if err := s.recordChange(ctx, tx, events.TableTasks, events.OpInsert, t.ID.String(), "", actor.ID); err != nil {
		return TaskResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create task commit failed", zap.Error(err))
		return TaskResponse{}, err
	}

	s.logger.Info("create task success", zap.String("task_id", t.ID.String()))
	return mapToResponse(*t), nil
}

func (s *service) Update(ctx context.Context, actor Actor, id string, req UpdateTaskRequest) (TaskResponse, error) {
	return s.mutate(ctx, actor, id, func(t *Task) error {
		if !actor.Role.IsManager() && t.CreatedBy.String() != actor.ID {
			return taskerrors.ErrManagerOnly
		}
		if t.Status.Closed() {
			return taskerrors.ErrTaskClosed
		}
		if req.Title != nil {
			t.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			t.Description = req.Description
		}
		if req.Priority != nil {
			if !priorities[*req.Priority] {
				return taskerrors.ErrInvalidPriority
			}
			t.Priority = *req.Priority
		}
		if req.AssignedTo != nil {
			assignee, err := uuid.Parse(*req.AssignedTo)
			if err != nil {
				return taskerrors.ErrInvalidAssignee
			}
			t.AssignedTo = assignee
		}
		return applyOptional(t, req.ProjectID, req.DueDate)
	})
}

func (s *service) ChangeStatus(ctx context.Context, actor Actor, id string, req ChangeStatusRequest) (TaskResponse, error) {
	next, ok := ParseStatus(req.Status)
	if !ok {
		return TaskResponse{}, taskerrors.ErrInvalidStatus
	}
	return s.mutate(ctx, actor, id, func(t *Task) error {
		if err := CheckTransition(*t, actor, next); err != nil {
			s.logger.Warn("task transition rejected",
				zap.String("task_id", id),
				zap.String("from", string(t.Status)),
				zap.String("to", string(next)),
				zap.String("role", actor.Role.String()),
			)
			return err
		}
		now := s.now()
		switch next {
		case StatusUnderReview:
			t.SubmittedAt = &now
		case StatusCompleted:
			t.CompletedAt = &now
		}
		t.Status = next
		return nil
	})
}

func (s *service) mutate(ctx context.Context, actor Actor, id string, change func(t *Task) error) (TaskResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TaskResponse{}, taskerrors.ErrInvalidTaskID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TaskResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	t, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return TaskResponse{}, mapRepositoryError(err)
	}
	if !t.Participant(actor) {
		return TaskResponse{}, taskerrors.ErrNotParticipant
	}
	if err := change(t); err != nil {
		return TaskResponse{}, err
	}
	if err := qtx.Update(ctx, t); err != nil {
		s.logger.Error("update task persist failed", zap.String("task_id", id), zap.Error(err))
		return TaskResponse{}, err
	}
	if err := s.recordChange(ctx, tx, events.TableTasks, events.OpUpdate, id, "", actor.ID); err != nil {
		return TaskResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("update task commit failed", zap.String("task_id", id), zap.Error(err))
		return TaskResponse{}, err
	}

	s.logger.Info("update task success", zap.String("task_id", id), zap.String("status", string(t.Status)))
	return mapToResponse(*t), nil
}

// GetAll limits employees to their own tasks whatever the filter says.
func (s *service) GetAll(ctx context.Context, actor Actor, filter ListFilter) ([]TaskResponse, error) {
	if !actor.Role.IsManager() {
		filter.AssignedTo = actor.ID
	}
	if filter.Status != "" {
		if _, ok := ParseStatus(filter.Status); !ok {
			return nil, taskerrors.ErrInvalidStatus
		}
	}
	tasks, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapAll(tasks), nil
}

func (s *service) GetByID(ctx context.Context, actor Actor, id string) (TaskResponse, error) {
	t, err := s.load(ctx, actor, id)
	if err != nil {
		return TaskResponse{}, err
	}
	return mapToResponse(*t), nil
}

func (s *service) load(ctx context.Context, actor Actor, id string) (*Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, taskerrors.ErrInvalidTaskID
	}
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if !t.Participant(actor) {
		return nil, taskerrors.ErrNotParticipant
	}
	return t, nil
}

func (s *service) MoveToBin(ctx context.Context, actor Actor, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return taskerrors.ErrInvalidTaskID
	}
	if !actor.Role.IsManager() {
		return taskerrors.ErrManagerOnly
	}
	deletedBy, err := uuid.Parse(actor.ID)
	if err != nil {
		return taskerrors.ErrManagerOnly
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).MoveToBin(ctx, id, deletedBy); err != nil {
		return mapRepositoryError(err)
	}
	if err := s.recordChange(ctx, tx, events.TableTasks, events.OpDelete, id, "", actor.ID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("task moved to bin", zap.String("task_id", id), zap.String("actor_id", actor.ID))
	return nil
}

func (s *service) ListBin(ctx context.Context) ([]TaskResponse, error) {
	tasks, err := s.repo.FindBin(ctx)
	if err != nil {
		return nil, err
	}
	return mapAll(tasks), nil
}

func (s *service) Restore(ctx context.Context, actor Actor, id string) (TaskResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TaskResponse{}, taskerrors.ErrInvalidTaskID
	}
	if actor.Role != domain.RoleSuperAdmin {
		return TaskResponse{}, taskerrors.ErrSuperAdminOnly
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TaskResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	t, err := qtx.FindInBin(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TaskResponse{}, taskerrors.ErrNotInBin
		}
		return TaskResponse{}, err
	}
	if err := qtx.Restore(ctx, id); err != nil {
		return TaskResponse{}, err
	}
	if err := s.recordChange(ctx, tx, events.TableTasks, events.OpUpdate, id, "", actor.ID); err != nil {
		return TaskResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return TaskResponse{}, err
	}

	t.DeletedAt = gorm.DeletedAt{}
	t.DeletedBy = nil
	s.logger.Info("task restored", zap.String("task_id", id))
	return mapToResponse(*t), nil
}

func (s *service) Purge(ctx context.Context, actor Actor, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return taskerrors.ErrInvalidTaskID
	}
	if actor.Role != domain.RoleSuperAdmin {
		return taskerrors.ErrSuperAdminOnly
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if _, err := qtx.FindInBin(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return taskerrors.ErrNotInBin
		}
		return err
	}
	attachments, err := qtx.FindAttachments(ctx, id)
	if err != nil {
		return err
	}
	if err := qtx.Purge(ctx, id); err != nil {
		s.logger.Error("purge task failed", zap.String("task_id", id), zap.Error(err))
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	for _, a := range attachments {
		if err := s.store.Delete(ctx, a.Bucket, a.ObjectKey); err != nil {
			s.logger.Warn("orphaned task attachment", zap.String("key", a.ObjectKey), zap.Error(err))
		}
	}
	s.invalidateMessages(ctx, id)
	s.logger.Info("task purged", zap.String("task_id", id))
	return nil
}

func (s *service) CountByStatus(ctx context.Context, assignedTo string) (map[Status]int64, error) {
	return s.repo.CountByStatus(ctx, assignedTo)
}

func (s *service) recordChange(ctx context.Context, tx *sql.Tx, table, op, recordID, parentID, actorID string) error {
	if s.outbox == nil {
		return nil
	}
	change := events.NewChangeEvent(table, op, recordID, parentID, actorID)
	event, err := kafka.NewOutboxEvent(ctx, table, recordID, change.EventType, events.ChangeFeedTopic, change)
	if err != nil {
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("task outbox write failed", zap.String("record_id", recordID), zap.Error(err))
		return err
	}
	return nil
}

func applyOptional(t *Task, projectID, dueDate *string) error {
	if projectID != nil {
		if *projectID == "" {
			t.ProjectID = nil
		} else {
			id, err := uuid.Parse(*projectID)
			if err != nil {
				return taskerrors.ErrInvalidProjectID
			}
			t.ProjectID = &id
		}
	}
	if dueDate != nil {
		if *dueDate == "" {
			t.DueDate = nil
		} else {
			d, err := time.Parse(dateLayout, *dueDate)
			if err != nil {
				return taskerrors.ErrInvalidDueDate
			}
			t.DueDate = &d
		}
	}
	return nil
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return taskerrors.ErrTaskNotFound
	}
	return err
}

func formatTime(t *time.Time, layout string) *string {
	if t == nil {
		return nil
	}
	v := t.Format(layout)
	return &v
}

func mapAll(tasks []Task) []TaskResponse {
	res := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		res[i] = mapToResponse(t)
	}
	return res
}

func mapToResponse(t Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Category:    string(t.Category),
		Priority:    t.Priority,
		AssignedTo:  t.AssignedTo.String(),
		CreatedBy:   t.CreatedBy.String(),
		DueDate:     formatTime(t.DueDate, dateLayout),
		Status:      string(t.Status),
		SubmittedAt: formatTime(t.SubmittedAt, time.RFC3339),
		CompletedAt: formatTime(t.CompletedAt, time.RFC3339),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
	if t.ProjectID != nil {
		v := t.ProjectID.String()
		resp.ProjectID = &v
	}
	if t.DeletedAt.Valid {
		resp.DeletedAt = formatTime(&t.DeletedAt.Time, time.RFC3339)
	}
	if t.DeletedBy != nil {
		v := t.DeletedBy.String()
		resp.DeletedBy = &v
	}
	return resp
}
