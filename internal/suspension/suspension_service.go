package suspension

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-hrops/internal/domain"
	"go-hrops/internal/events"
	"go-hrops/internal/messaging/kafka"
	"go-hrops/internal/profile"
	"go-hrops/internal/salary"
	"go-hrops/internal/settings"
	suspensionerrors "go-hrops/internal/suspension/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultDurationDays = 7

// CompleteBatchSize caps how many suspensions one CompleteExpired call closes.
const CompleteBatchSize = 100

var hundred = decimal.NewFromInt(100)

// Actor is the authenticated caller of a suspension operation.
type Actor struct {
	ID   string
	Role domain.Role
}

// SettingsReader is the slice of the settings service used here.
type SettingsReader interface {
	Int(ctx context.Context, key string, fallback int) int
}

//go:generate mockgen -source=suspension_service.go -destination=mock/suspension_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor Actor, req CreateSuspensionRequest) (SuspensionResponse, error)
	Approve(ctx context.Context, actor Actor, id string) (SuspensionResponse, error)
	Reject(ctx context.Context, actor Actor, id, reason string) (SuspensionResponse, error)
	CompleteExpired(ctx context.Context, now time.Time) (int, error)
	GetAll(ctx context.Context, filter ListFilter) ([]SuspensionResponse, error)
	GetByID(ctx context.Context, id string) (SuspensionResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	profiles profile.Repository
	salaries salary.Repository
	outbox   kafka.OutboxRepository
	settings SettingsReader
	logger   *zap.Logger
}

// NewService wires the suspension workflow. outbox and settings may be nil;
// lifecycle events are then not recorded and the default duration is 7 days.
func NewService(
	db *sql.DB,
	repo Repository,
	profiles profile.Repository,
	salaries salary.Repository,
	outbox kafka.OutboxRepository,
	settings SettingsReader,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("suspension.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("suspension.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		profiles: profiles,
		salaries: salaries,
		outbox:   outbox,
		settings: settings,
		logger:   l,
	}
}

type createInput struct {
	userID   uuid.UUID
	actorID  uuid.UUID
	reason   string
	duration int
	strike   int
	pct      decimal.Decimal
}

func (s *service) validateCreate(ctx context.Context, actor Actor, req CreateSuspensionRequest) (createInput, error) {
	in := createInput{strike: req.StrikeNumber, pct: req.SalaryDeductionPercentage}

	var err error
	if in.userID, err = uuid.Parse(req.UserID); err != nil {
		return in, suspensionerrors.ErrInvalidUserID
	}
	if in.actorID, err = uuid.Parse(actor.ID); err != nil {
		return in, suspensionerrors.ErrInvalidActorID
	}
	in.reason = strings.TrimSpace(req.Reason)
	if in.reason == "" {
		return in, suspensionerrors.ErrReasonRequired
	}
	if req.DurationDays != nil {
		in.duration = *req.DurationDays
	} else {
		in.duration = s.defaultDuration(ctx)
	}
	if in.duration < 1 {
		return in, suspensionerrors.ErrInvalidDuration
	}
	if in.strike < WarningStrike || in.strike > TerminationStrike {
		return in, suspensionerrors.ErrInvalidStrikeNumber
	}
	if in.pct.IsNegative() || in.pct.GreaterThan(hundred) {
		return in, suspensionerrors.ErrInvalidPercentage
	}
	in.pct = in.pct.Round(2)
	return in, nil
}

func (s *service) defaultDuration(ctx context.Context) int {
	if s.settings == nil {
		return defaultDurationDays
	}
	return s.settings.Int(ctx, settings.KeySuspensionDefaultDays, defaultDurationDays)
}

func (s *service) Create(ctx context.Context, actor Actor, req CreateSuspensionRequest) (SuspensionResponse, error) {
	s.logger.Debug("create suspension requested",
		zap.String("actor_id", actor.ID),
		zap.String("actor_role", actor.Role.String()),
		zap.String("user_id", req.UserID),
		zap.Int("strike_number", req.StrikeNumber),
	)

	in, err := s.validateCreate(ctx, actor, req)
	if err != nil {
		s.logger.Warn("create suspension validation failed", zap.Error(err))
		return SuspensionResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create suspension begin tx failed", zap.Error(err))
		return SuspensionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	ptx := s.profiles.WithTx(tx)

	p, err := ptx.FindByIDForUpdate(ctx, in.userID.String())
	if err != nil {
		return SuspensionResponse{}, mapProfileError(err)
	}
	if p.IsTerminated {
		s.logger.Warn("create suspension for terminated employee", zap.String("user_id", in.userID.String()))
		return SuspensionResponse{}, suspensionerrors.ErrEmployeeTerminated
	}

	now := time.Now().UTC()
	row := &Suspension{
		ID:                        uuid.New(),
		UserID:                    in.userID,
		CreatedBy:                 in.actorID,
		Status:                    StatusPending,
		SuspensionEnd:             now.AddDate(0, 0, in.duration),
		Reason:                    in.reason,
		StrikeNumber:              in.strike,
		SalaryDeductionPercentage: in.pct,
		DeductionAmount:           decimal.Zero,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}

	if in.strike == TerminationStrike {
		return s.terminate(ctx, tx, row, p, now)
	}

	eventTypes := []string{events.EventSuspensionCreated}
	if actor.Role == domain.RoleSuperAdmin {
		row.Status = StatusActive
		row.ApprovedBy = &in.actorID
		row.SuspensionStart = &now
		if err := s.applyActivation(ctx, tx, row, p, now); err != nil {
			return SuspensionResponse{}, err
		}
		eventTypes = append(eventTypes, events.EventSuspensionActivated)
	}

	if err := qtx.Create(ctx, row); err != nil {
		s.logger.Error("create suspension persist failed", zap.Error(err))
		return SuspensionResponse{}, err
	}
	for _, et := range eventTypes {
		if err := s.recordEvent(ctx, tx, et, row, actor.ID); err != nil {
			return SuspensionResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create suspension commit failed", zap.Error(err))
		return SuspensionResponse{}, err
	}
	s.logger.Info("create suspension success",
		zap.String("suspension_id", row.ID.String()),
		zap.String("status", string(row.Status)),
		zap.String("deduction_amount", row.DeductionAmount.StringFixed(2)),
	)
	return mapToResponse(*row), nil
}

// terminate handles the third strike: the employee is terminated and a
// completed row is kept for the record. No strike or salary effect applies.
func (s *service) terminate(ctx context.Context, tx *sql.Tx, row *Suspension, p *profile.Profile, now time.Time) (SuspensionResponse, error) {
	p.IsTerminated = true
	p.TerminatedAt = &now
	p.IsSuspended = false
	p.SuspensionEndDate = nil
	if err := s.profiles.WithTx(tx).Update(ctx, p); err != nil {
		s.logger.Error("terminate employee persist failed", zap.String("user_id", p.ID.String()), zap.Error(err))
		return SuspensionResponse{}, err
	}

	row.Status = StatusCompleted
	row.ApprovedBy = &row.CreatedBy
	row.SuspensionStart = &now
	row.CompletedAt = &now
	if err := s.repo.WithTx(tx).Create(ctx, row); err != nil {
		s.logger.Error("terminate employee record failed", zap.Error(err))
		return SuspensionResponse{}, err
	}
	if err := s.recordEvent(ctx, tx, events.EventEmployeeTerminated, row, row.CreatedBy.String()); err != nil {
		return SuspensionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("terminate employee commit failed", zap.Error(err))
		return SuspensionResponse{}, err
	}
	s.logger.Info("employee terminated on third strike",
		zap.String("user_id", p.ID.String()),
		zap.String("suspension_id", row.ID.String()),
	)

	resp := mapToResponse(*row)
	resp.Terminated = true
	resp.Message = "Employee Terminated"
	return resp, nil
}

// applyActivation charges strikes and the salary deduction for row. The
// caller holds the profile row lock and persists row afterwards.
func (s *service) applyActivation(ctx context.Context, tx *sql.Tx, row *Suspension, p *profile.Profile, now time.Time) error {
	if row.EffectsApplied() {
		return suspensionerrors.ErrEffectsAlreadyApplied
	}

	p.StrikeCount += row.StrikeNumber
	p.IsSuspended = true
	if p.SuspensionEndDate == nil || row.SuspensionEnd.After(*p.SuspensionEndDate) {
		end := row.SuspensionEnd
		p.SuspensionEndDate = &end
	}
	if err := s.profiles.WithTx(tx).Update(ctx, p); err != nil {
		s.logger.Error("activate suspension profile update failed", zap.String("user_id", p.ID.String()), zap.Error(err))
		return err
	}

	row.DeductionAmount = decimal.Zero
	if row.SalaryDeductionPercentage.IsPositive() {
		stx := s.salaries.WithTx(tx)
		info, err := stx.FindByUserIDForUpdate(ctx, row.UserID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return suspensionerrors.ErrSalaryNotFound
			}
			return err
		}
		amount, err := salary.ApplyDeduction(info, row.SalaryDeductionPercentage)
		if err != nil {
			return suspensionerrors.ErrInvalidPercentage
		}
		if err := stx.Update(ctx, info); err != nil {
			s.logger.Error("activate suspension salary update failed", zap.String("user_id", p.ID.String()), zap.Error(err))
			return err
		}
		row.DeductionAmount = amount
	}

	row.EffectsAppliedAt = &now
	return nil
}

func (s *service) Approve(ctx context.Context, actor Actor, id string) (SuspensionResponse, error) {
	s.logger.Debug("approve suspension requested", zap.String("suspension_id", id), zap.String("actor_id", actor.ID))

	if _, err := uuid.Parse(id); err != nil {
		return SuspensionResponse{}, suspensionerrors.ErrInvalidSuspensionID
	}
	actorID, err := uuid.Parse(actor.ID)
	if err != nil {
		return SuspensionResponse{}, suspensionerrors.ErrInvalidActorID
	}
	if actor.Role != domain.RoleSuperAdmin {
		return SuspensionResponse{}, suspensionerrors.ErrApproverNotAllowed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve suspension begin tx failed", zap.Error(err))
		return SuspensionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return SuspensionResponse{}, mapRepositoryError(err)
	}
	if row.EffectsApplied() {
		s.logger.Warn("approve suspension already applied", zap.String("suspension_id", id))
		return SuspensionResponse{}, suspensionerrors.ErrEffectsAlreadyApplied
	}
	if !CanTransition(row.Status, StatusActive) {
		s.logger.Warn("approve suspension invalid transition",
			zap.String("suspension_id", id),
			zap.String("from_status", string(row.Status)),
		)
		return SuspensionResponse{}, suspensionerrors.ErrInvalidTransition
	}

	p, err := s.profiles.WithTx(tx).FindByIDForUpdate(ctx, row.UserID.String())
	if err != nil {
		return SuspensionResponse{}, mapProfileError(err)
	}
	if p.IsTerminated {
		return SuspensionResponse{}, suspensionerrors.ErrEmployeeTerminated
	}

	now := time.Now().UTC()
	row.Status = StatusActive
	row.ApprovedBy = &actorID
	row.SuspensionStart = &now
	if err := s.applyActivation(ctx, tx, row, p, now); err != nil {
		return SuspensionResponse{}, err
	}
	if err := qtx.Update(ctx, row); err != nil {
		s.logger.Error("approve suspension persist failed", zap.String("suspension_id", id), zap.Error(err))
		return SuspensionResponse{}, err
	}
	if err := s.recordEvent(ctx, tx, events.EventSuspensionActivated, row, actor.ID); err != nil {
		return SuspensionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("approve suspension commit failed", zap.String("suspension_id", id), zap.Error(err))
		return SuspensionResponse{}, err
	}
	s.logger.Info("approve suspension success",
		zap.String("suspension_id", id),
		zap.Int("strike_count", p.StrikeCount),
		zap.String("deduction_amount", row.DeductionAmount.StringFixed(2)),
	)
	return mapToResponse(*row), nil
}

func (s *service) Reject(ctx context.Context, actor Actor, id, reason string) (SuspensionResponse, error) {
	s.logger.Debug("reject suspension requested", zap.String("suspension_id", id), zap.String("actor_id", actor.ID))

	if _, err := uuid.Parse(id); err != nil {
		return SuspensionResponse{}, suspensionerrors.ErrInvalidSuspensionID
	}
	actorID, err := uuid.Parse(actor.ID)
	if err != nil {
		return SuspensionResponse{}, suspensionerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("reject suspension begin tx failed", zap.Error(err))
		return SuspensionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return SuspensionResponse{}, mapRepositoryError(err)
	}
	if row.Status == StatusRejected {
		return mapToResponse(*row), nil
	}
	if !CanTransition(row.Status, StatusRejected) {
		s.logger.Warn("reject suspension invalid transition",
			zap.String("suspension_id", id),
			zap.String("from_status", string(row.Status)),
		)
		return SuspensionResponse{}, suspensionerrors.ErrInvalidTransition
	}

	now := time.Now().UTC()
	row.Status = StatusRejected
	row.RejectedBy = &actorID
	row.RejectedAt = &now
	if r := strings.TrimSpace(reason); r != "" {
		row.RejectionReason = &r
	}
	if err := qtx.Update(ctx, row); err != nil {
		s.logger.Error("reject suspension persist failed", zap.String("suspension_id", id), zap.Error(err))
		return SuspensionResponse{}, err
	}
	if err := s.recordEvent(ctx, tx, events.EventSuspensionRejected, row, actor.ID); err != nil {
		return SuspensionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("reject suspension commit failed", zap.String("suspension_id", id), zap.Error(err))
		return SuspensionResponse{}, err
	}
	s.logger.Info("reject suspension success", zap.String("suspension_id", id))
	return mapToResponse(*row), nil
}

// CompleteExpired closes up to CompleteBatchSize active suspensions that
// ended at or before now and lifts the profile flag once the user has
// none left.
func (s *service) CompleteExpired(ctx context.Context, now time.Time) (int, error) {
	now = now.UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("complete suspensions begin tx failed", zap.Error(err))
		return 0, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	ptx := s.profiles.WithTx(tx)

	rows, err := qtx.FindExpiredActive(ctx, now, CompleteBatchSize)
	if err != nil {
		s.logger.Error("complete suspensions query failed", zap.Error(err))
		return 0, err
	}

	for i := range rows {
		row := &rows[i]
		row.Status = StatusCompleted
		row.CompletedAt = &now
		if err := qtx.Update(ctx, row); err != nil {
			s.logger.Error("complete suspension persist failed", zap.String("suspension_id", row.ID.String()), zap.Error(err))
			return 0, err
		}

		remaining, err := qtx.CountActiveByUser(ctx, row.UserID.String())
		if err != nil {
			return 0, err
		}
		if remaining == 0 {
			p, err := ptx.FindByIDForUpdate(ctx, row.UserID.String())
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				s.logger.Warn("completed suspension for missing profile", zap.String("user_id", row.UserID.String()))
			case err != nil:
				return 0, err
			default:
				p.IsSuspended = false
				p.SuspensionEndDate = nil
				if err := ptx.Update(ctx, p); err != nil {
					return 0, err
				}
			}
		}

		if err := s.recordEvent(ctx, tx, events.EventSuspensionCompleted, row, ""); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("complete suspensions commit failed", zap.Error(err))
		return 0, err
	}
	if len(rows) > 0 {
		s.logger.Info("complete suspensions success", zap.Int("completed", len(rows)))
	}
	return len(rows), nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]SuspensionResponse, error) {
	if filter.Status != "" {
		if _, ok := ParseStatus(filter.Status); !ok {
			return nil, suspensionerrors.ErrInvalidStatus
		}
	}
	if filter.UserID != "" {
		if _, err := uuid.Parse(filter.UserID); err != nil {
			return nil, suspensionerrors.ErrInvalidUserID
		}
	}
	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByID(ctx context.Context, id string) (SuspensionResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return SuspensionResponse{}, suspensionerrors.ErrInvalidSuspensionID
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return SuspensionResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*row), nil
}

func (s *service) recordEvent(ctx context.Context, tx *sql.Tx, eventType string, row *Suspension, actorID string) error {
	if s.outbox == nil {
		return nil
	}
	payload := events.SuspensionLifecycleEvent{
		EventType:       eventType,
		SuspensionID:    row.ID.String(),
		UserID:          row.UserID.String(),
		ActorID:         actorID,
		Status:          string(row.Status),
		StrikeNumber:    row.StrikeNumber,
		DeductionAmount: row.DeductionAmount.StringFixed(2),
		Reason:          row.Reason,
		OccurredAt:      time.Now().UTC(),
	}
	end := row.SuspensionEnd
	payload.SuspensionEnd = &end

	event, err := kafka.NewOutboxEvent(ctx, "suspension", row.ID.String(), eventType, events.SuspensionLifecycleTopic, payload)
	if err != nil {
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("suspension outbox write failed",
			zap.String("suspension_id", row.ID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return suspensionerrors.ErrSuspensionNotFound
	}
	return err
}

func mapProfileError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return suspensionerrors.ErrEmployeeNotFound
	}
	return err
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}

func mapToResponse(s Suspension) SuspensionResponse {
	resp := SuspensionResponse{
		ID:                        s.ID.String(),
		UserID:                    s.UserID.String(),
		CreatedBy:                 s.CreatedBy.String(),
		Status:                    string(s.Status),
		SuspensionStart:           formatTime(s.SuspensionStart),
		SuspensionEnd:             s.SuspensionEnd.Format(time.RFC3339),
		Reason:                    s.Reason,
		StrikeNumber:              s.StrikeNumber,
		SalaryDeductionPercentage: s.SalaryDeductionPercentage,
		DeductionAmount:           s.DeductionAmount,
		EffectsAppliedAt:          formatTime(s.EffectsAppliedAt),
		RejectionReason:           s.RejectionReason,
		CompletedAt:               formatTime(s.CompletedAt),
		CreatedAt:                 s.CreatedAt.Format(time.RFC3339),
	}
	if s.ApprovedBy != nil {
		v := s.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	return resp
}

func mapToListResponse(rows []Suspension) []SuspensionResponse {
	resp := make([]SuspensionResponse, len(rows))
	for i, r := range rows {
		resp[i] = mapToResponse(r)
	}
	return resp
}
