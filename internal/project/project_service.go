package project

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-hrops/internal/events"
	"go-hrops/internal/messaging/kafka"
	projecterrors "go-hrops/internal/project/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// AllCacheKey holds the cached project list. The change feed consumer
// deletes it as well, so other API replicas drop their copy too.
const AllCacheKey = "projects:all"

const dateLayout = "2006-01-02"

//go:generate mockgen -source=project_service.go -destination=mock/project_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateProjectRequest) (ProjectResponse, error)
	GetAll(ctx context.Context) ([]ProjectResponse, error)
	GetByID(ctx context.Context, id string) (ProjectResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdateProjectRequest) (ProjectResponse, error)
	ChangeStatus(ctx context.Context, actorID, id string, req ChangeStatusRequest) (ProjectResponse, error)
	Delete(ctx context.Context, actorID, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	outbox kafka.OutboxRepository
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("project.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("project.service")
	}
	return &service{db: db, repo: repo, rdb: rdb, outbox: outbox, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateProjectRequest) (ProjectResponse, error) {
	s.logger.Debug("create project requested", zap.String("name", req.Name))

	creator, err := uuid.Parse(actorID)
	if err != nil {
		return ProjectResponse{}, projecterrors.ErrInvalidOwnerID
	}
	p := &Project{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Status:      StatusPlanning,
		CreatedBy:   creator,
	}
	if err := applyFields(p, req.OwnerID, req.StartDate, req.EndDate); err != nil {
		s.logger.Warn("create project validation failed", zap.Error(err))
		return ProjectResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ProjectResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, p); err != nil {
		s.logger.Error("create project persist failed", zap.Error(err))
		return ProjectResponse{}, err
	}
	if err := s.recordChange(ctx, tx, events.OpInsert, p.ID.String(), actorID); err != nil {
		return ProjectResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create project commit failed", zap.Error(err))
		return ProjectResponse{}, err
	}

	s.invalidate(ctx)
	s.logger.Info("create project success", zap.String("project_id", p.ID.String()))
	return mapToResponse(*p), nil
}

func (s *service) GetAll(ctx context.Context) ([]ProjectResponse, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, AllCacheKey).Result()
		if err == nil {
			var resp []ProjectResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(AllCacheKey, func() (interface{}, error) {
		projects, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		resp := make([]ProjectResponse, len(projects))
		for i, p := range projects {
			resp[i] = mapToResponse(p)
		}
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, AllCacheKey, string(jsonData), 30*time.Minute)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]ProjectResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (ProjectResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ProjectResponse{}, projecterrors.ErrInvalidProjectID
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ProjectResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*p), nil
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateProjectRequest) (ProjectResponse, error) {
	return s.mutate(ctx, actorID, id, func(p *Project) error {
		if req.Name != nil {
			p.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			p.Description = req.Description
		}
		return applyFields(p, req.OwnerID, req.StartDate, req.EndDate)
	})
}

func (s *service) ChangeStatus(ctx context.Context, actorID, id string, req ChangeStatusRequest) (ProjectResponse, error) {
	next, ok := ParseStatus(req.Status)
	if !ok {
		return ProjectResponse{}, projecterrors.ErrInvalidStatus
	}
	return s.mutate(ctx, actorID, id, func(p *Project) error {
		if !CanTransition(p.Status, next) {
			s.logger.Warn("project transition rejected",
				zap.String("project_id", id),
				zap.String("from", string(p.Status)),
				zap.String("to", string(next)),
			)
			return projecterrors.ErrInvalidTransition
		}
		p.Status = next
		return nil
	})
}

func (s *service) mutate(ctx context.Context, actorID, id string, change func(p *Project) error) (ProjectResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ProjectResponse{}, projecterrors.ErrInvalidProjectID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ProjectResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	p, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return ProjectResponse{}, mapRepositoryError(err)
	}
	if err := change(p); err != nil {
		return ProjectResponse{}, err
	}
	if err := qtx.Update(ctx, p); err != nil {
		s.logger.Error("update project persist failed", zap.String("project_id", id), zap.Error(err))
		return ProjectResponse{}, err
	}
	if err := s.recordChange(ctx, tx, events.OpUpdate, id, actorID); err != nil {
		return ProjectResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("update project commit failed", zap.String("project_id", id), zap.Error(err))
		return ProjectResponse{}, err
	}

	s.invalidate(ctx)
	s.logger.Info("update project success", zap.String("project_id", id), zap.String("status", string(p.Status)))
	return mapToResponse(*p), nil
}

func (s *service) Delete(ctx context.Context, actorID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return projecterrors.ErrInvalidProjectID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	if err := s.recordChange(ctx, tx, events.OpDelete, id, actorID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

func (s *service) invalidate(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, AllCacheKey).Err(); err != nil {
		s.logger.Warn("project cache invalidation failed", zap.Error(err))
	}
}

func (s *service) recordChange(ctx context.Context, tx *sql.Tx, op, projectID, actorID string) error {
	if s.outbox == nil {
		return nil
	}
	change := events.NewChangeEvent(events.TableProjects, op, projectID, "", actorID)
	change.EventType = events.EventProjectChanged
	event, err := kafka.NewOutboxEvent(ctx, events.TableProjects, projectID, change.EventType, events.ChangeFeedTopic, change)
	if err != nil {
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("project outbox write failed", zap.String("project_id", projectID), zap.Error(err))
		return err
	}
	return nil
}

func applyFields(p *Project, ownerID, startDate, endDate *string) error {
	if ownerID != nil {
		if *ownerID == "" {
			p.OwnerID = nil
		} else {
			id, err := uuid.Parse(*ownerID)
			if err != nil {
				return projecterrors.ErrInvalidOwnerID
			}
			p.OwnerID = &id
		}
	}
	if startDate != nil {
		t, err := parseDate(*startDate)
		if err != nil {
			return err
		}
		p.StartDate = t
	}
	if endDate != nil {
		t, err := parseDate(*endDate)
		if err != nil {
			return err
		}
		p.EndDate = t
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return projecterrors.ErrInvalidDateRange
	}
	return nil
}

func parseDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, projecterrors.ErrInvalidDateRange
	}
	return &t, nil
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return projecterrors.ErrProjectNotFound
	}
	return err
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(dateLayout)
	return &v
}

func mapToResponse(p Project) ProjectResponse {
	resp := ProjectResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		StartDate:   formatDate(p.StartDate),
		EndDate:     formatDate(p.EndDate),
		CreatedBy:   p.CreatedBy.String(),
	}
	if p.OwnerID != nil {
		v := p.OwnerID.String()
		resp.OwnerID = &v
	}
	if !p.UpdatedAt.IsZero() {
		resp.UpdatedAt = p.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}
