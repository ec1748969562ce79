package audit

import (
	"context"
	"encoding/json"
	auditerrors "go-hrops/internal/audit/errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=audit_service.go -destination=mock/audit_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context, filter ListFilter) ([]AuditResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("audit.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]AuditResponse, error) {
	if filter.TargetUserID != "" {
		if _, err := uuid.Parse(filter.TargetUserID); err != nil {
			return nil, auditerrors.ErrInvalidTargetID
		}
	}
	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("list audits failed", zap.Error(err))
		return nil, err
	}
	resp := make([]AuditResponse, len(rows))
	for i, a := range rows {
		resp[i] = mapToResponse(a)
	}
	return resp, nil
}

// NewEntry builds an audit row. actorID may be empty for system actions.
func NewEntry(actorID string, target uuid.UUID, action string, changes any) (*EmployeeAudit, error) {
	a := &EmployeeAudit{
		ID:           uuid.New(),
		TargetUserID: target,
		Action:       action,
		CreatedAt:    time.Now().UTC(),
	}
	if id, err := uuid.Parse(actorID); err == nil {
		a.ActorID = &id
	}
	if changes != nil {
		raw, err := json.Marshal(changes)
		if err != nil {
			return nil, err
		}
		a.Changes = raw
	}
	return a, nil
}

func mapToResponse(a EmployeeAudit) AuditResponse {
	resp := AuditResponse{
		ID:           a.ID.String(),
		TargetUserID: a.TargetUserID.String(),
		Action:       a.Action,
		Changes:      json.RawMessage(a.Changes),
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
	}
	if a.ActorID != nil {
		v := a.ActorID.String()
		resp.ActorID = &v
	}
	return resp
}
