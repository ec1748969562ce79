package profile

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go-hrops/internal/audit"
	"go-hrops/internal/domain"
	"go-hrops/internal/events"
	"go-hrops/internal/messaging/kafka"
	profileerrors "go-hrops/internal/profile/errors"
	"go-hrops/internal/shared/counter"
	"go-hrops/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=profile_service.go -destination=mock/profile_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateProfileRequest) (ProfileResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]ProfileResponse, error)
	GetByID(ctx context.Context, id string) (ProfileResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdateProfileRequest) (ProfileResponse, error)
	Terminate(ctx context.Context, actorID, id, reason string) (ProfileResponse, error)
	Delete(ctx context.Context, actorID, id string) error
	UploadDocument(ctx context.Context, actorID, id string, upload storage.Upload) (DocumentResponse, error)
	ListDocuments(ctx context.Context, id string) ([]DocumentResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	audits   audit.Repository
	counters counter.Repository
	store    storage.ObjectStore
	outbox   kafka.OutboxRepository
	logger   *zap.Logger
}

// NewService wires the profile service. store and outbox may be nil:
// uploads then fail with SERVICE_UNAVAILABLE and no events are recorded.
func NewService(
	db *sql.DB,
	repo Repository,
	audits audit.Repository,
	counters counter.Repository,
	store storage.ObjectStore,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("profile.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("profile.service")
	}
	if store == nil {
		store = storage.NewUnavailableStore()
	}
	return &service{
		db:       db,
		repo:     repo,
		audits:   audits,
		counters: counters,
		store:    store,
		outbox:   outbox,
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateProfileRequest) (ProfileResponse, error) {
	s.logger.Debug("create profile requested",
		zap.String("actor_id", actorID),
		zap.String("email", req.Email),
		zap.String("role", req.Role),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create profile begin tx failed", zap.Error(err))
		return ProfileResponse{}, err
	}
	defer tx.Rollback()

	code, err := NextEmployeeCode(ctx, s.counters.WithTx(tx))
	if err != nil {
		s.logger.Error("create profile employee code failed", zap.Error(err))
		return ProfileResponse{}, err
	}

	p, err := NewProfile(req, code)
	if err != nil {
		s.logger.Warn("create profile validation failed", zap.Error(err))
		return ProfileResponse{}, err
	}

	if err := s.repo.WithTx(tx).Create(ctx, p); err != nil {
		s.logger.Error("create profile persist failed", zap.Error(err))
		return ProfileResponse{}, mapRepositoryError(err)
	}

	if err := s.writeAudit(ctx, tx, actorID, p.ID, audit.ActionProfileCreated, map[string]any{
		"email": p.Email,
		"role":  p.Role,
	}); err != nil {
		return ProfileResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create profile commit failed", zap.Error(err))
		return ProfileResponse{}, err
	}
	s.logger.Info("create profile success",
		zap.String("profile_id", p.ID.String()),
		zap.String("employee_code", p.EmployeeCode),
	)

	return mapToResponse(*p), nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]ProfileResponse, error) {
	if filter.Role != "" {
		if _, ok := domain.ParseRole(filter.Role); !ok {
			return nil, profileerrors.ErrInvalidRole
		}
	}
	profiles, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(profiles), nil
}

func (s *service) GetByID(ctx context.Context, id string) (ProfileResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ProfileResponse{}, profileerrors.ErrInvalidProfileID
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ProfileResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*p), nil
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateProfileRequest) (ProfileResponse, error) {
	s.logger.Debug("update profile requested", zap.String("profile_id", id), zap.String("actor_id", actorID))

	if _, err := uuid.Parse(id); err != nil {
		return ProfileResponse{}, profileerrors.ErrInvalidProfileID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update profile begin tx failed", zap.Error(err))
		return ProfileResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	p, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return ProfileResponse{}, mapRepositoryError(err)
	}

	changes, err := applyUpdate(p, req)
	if err != nil {
		s.logger.Warn("update profile validation failed", zap.String("profile_id", id), zap.Error(err))
		return ProfileResponse{}, err
	}
	if len(changes) == 0 {
		return mapToResponse(*p), nil
	}

	if err := qtx.Update(ctx, p); err != nil {
		s.logger.Error("update profile persist failed", zap.String("profile_id", id), zap.Error(err))
		return ProfileResponse{}, mapRepositoryError(err)
	}
	if err := s.writeAudit(ctx, tx, actorID, p.ID, audit.ActionProfileUpdated, changes); err != nil {
		return ProfileResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update profile commit failed", zap.String("profile_id", id), zap.Error(err))
		return ProfileResponse{}, err
	}
	s.logger.Info("update profile success", zap.String("profile_id", id), zap.Int("changed_fields", len(changes)))

	return mapToResponse(*p), nil
}

func (s *service) Terminate(ctx context.Context, actorID, id, reason string) (ProfileResponse, error) {
	s.logger.Debug("terminate profile requested", zap.String("profile_id", id), zap.String("actor_id", actorID))

	if _, err := uuid.Parse(id); err != nil {
		return ProfileResponse{}, profileerrors.ErrInvalidProfileID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("terminate profile begin tx failed", zap.Error(err))
		return ProfileResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	p, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return ProfileResponse{}, mapRepositoryError(err)
	}
	if p.IsTerminated {
		return ProfileResponse{}, profileerrors.ErrAlreadyTerminated
	}

	now := time.Now().UTC()
	p.IsTerminated = true
	p.TerminatedAt = &now
	p.IsSuspended = false
	p.SuspensionEndDate = nil

	if err := qtx.Update(ctx, p); err != nil {
		s.logger.Error("terminate profile persist failed", zap.String("profile_id", id), zap.Error(err))
		return ProfileResponse{}, err
	}
	if err := s.writeAudit(ctx, tx, actorID, p.ID, audit.ActionProfileTerminated, map[string]any{"reason": reason}); err != nil {
		return ProfileResponse{}, err
	}
	if s.outbox != nil {
		event, err := kafka.NewOutboxEvent(ctx, "profile", p.ID.String(), events.EventEmployeeTerminated,
			events.SuspensionLifecycleTopic, events.SuspensionLifecycleEvent{
				EventType:  events.EventEmployeeTerminated,
				UserID:     p.ID.String(),
				ActorID:    actorID,
				Reason:     reason,
				OccurredAt: now,
			})
		if err != nil {
			return ProfileResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			s.logger.Error("terminate profile outbox failed", zap.String("profile_id", id), zap.Error(err))
			return ProfileResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("terminate profile commit failed", zap.String("profile_id", id), zap.Error(err))
		return ProfileResponse{}, err
	}
	s.logger.Info("terminate profile success", zap.String("profile_id", id))

	return mapToResponse(*p), nil
}

func (s *service) Delete(ctx context.Context, actorID, id string) error {
	profileID, err := uuid.Parse(id)
	if err != nil {
		return profileerrors.ErrInvalidProfileID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	if err := s.writeAudit(ctx, tx, actorID, profileID, audit.ActionProfileDeleted, nil); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("delete profile commit failed", zap.String("profile_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("delete profile success", zap.String("profile_id", id))
	return nil
}

func (s *service) UploadDocument(ctx context.Context, actorID, id string, upload storage.Upload) (DocumentResponse, error) {
	profileID, err := uuid.Parse(id)
	if err != nil {
		return DocumentResponse{}, profileerrors.ErrInvalidProfileID
	}
	if upload.Size <= 0 || upload.Body == nil {
		return DocumentResponse{}, profileerrors.ErrEmptyDocument
	}
	if upload.Size > storage.MaxUploadSize {
		return DocumentResponse{}, profileerrors.ErrDocumentTooLarge
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return DocumentResponse{}, mapRepositoryError(err)
	}

	now := time.Now().UTC()
	key := storage.ObjectKey(id, upload.Filename, now)
	obj, err := s.store.Put(ctx, storage.BucketEmployeeDocuments, key, upload.Body, upload.Size, upload.ContentType)
	if err != nil {
		s.logger.Error("upload profile document failed", zap.String("profile_id", id), zap.Error(err))
		return DocumentResponse{}, err
	}

	doc := &Document{
		ID:          uuid.New(),
		ProfileID:   profileID,
		Bucket:      obj.Bucket,
		ObjectKey:   obj.Key,
		FileName:    upload.Filename,
		ContentType: upload.ContentType,
		Size:        upload.Size,
		CreatedAt:   now,
	}
	if actor, err := uuid.Parse(actorID); err == nil {
		doc.UploadedBy = &actor
	}

	if err := s.persistDocument(ctx, actorID, doc); err != nil {
		if delErr := s.store.Delete(ctx, obj.Bucket, obj.Key); delErr != nil {
			s.logger.Warn("orphaned document object", zap.String("key", obj.Key), zap.Error(delErr))
		}
		return DocumentResponse{}, err
	}

	return s.mapDocument(*doc), nil
}

func (s *service) persistDocument(ctx context.Context, actorID string, doc *Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).CreateDocument(ctx, doc); err != nil {
		s.logger.Error("persist profile document failed", zap.Error(err))
		return err
	}
	if err := s.writeAudit(ctx, tx, actorID, doc.ProfileID, audit.ActionDocumentUploaded, map[string]any{
		"file_name": doc.FileName,
		"key":       doc.ObjectKey,
	}); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) ListDocuments(ctx context.Context, id string) ([]DocumentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, profileerrors.ErrInvalidProfileID
	}
	docs, err := s.repo.FindDocuments(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := make([]DocumentResponse, len(docs))
	for i, d := range docs {
		resp[i] = s.mapDocument(d)
	}
	return resp, nil
}

func (s *service) writeAudit(ctx context.Context, tx *sql.Tx, actorID string, target uuid.UUID, action string, changes any) error {
	entry, err := audit.NewEntry(actorID, target, action, changes)
	if err != nil {
		return err
	}
	if err := s.audits.WithTx(tx).Create(ctx, entry); err != nil {
		s.logger.Error("write employee audit failed",
			zap.String("action", action),
			zap.String("target_user_id", target.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// NextEmployeeCode draws the next EMP-nnnnnn code from the shared counter.
func NextEmployeeCode(ctx context.Context, counters counter.Repository) (string, error) {
	n, err := counters.GetNextValue(ctx, counter.TypeEmployeeCode)
	if err != nil {
		return "", err
	}
	return counter.Format("EMP", n), nil
}

// NewProfile validates req and builds a new, unsaved profile.
func NewProfile(req CreateProfileRequest, code string) (*Profile, error) {
	role := domain.RoleEmployee
	if strings.TrimSpace(req.Role) != "" {
		r, ok := domain.ParseRole(req.Role)
		if !ok {
			return nil, profileerrors.ErrInvalidRole
		}
		role = r
	}

	p := &Profile{
		ID:           uuid.New(),
		EmployeeCode: code,
		FullName:     strings.TrimSpace(req.FullName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        req.Phone,
		Department:   req.Department,
		Position:     req.Position,
		Role:         role.String(),
	}
	if req.HireDate != nil && *req.HireDate != "" {
		d, err := time.Parse(dateLayout, *req.HireDate)
		if err != nil {
			return nil, profileerrors.ErrInvalidDateFormat
		}
		p.HireDate = &d
	}
	return p, nil
}

func applyUpdate(p *Profile, req UpdateProfileRequest) (map[string]any, error) {
	changes := map[string]any{}

	if req.FullName != nil && strings.TrimSpace(*req.FullName) != p.FullName {
		p.FullName = strings.TrimSpace(*req.FullName)
		changes["full_name"] = p.FullName
	}
	if req.Phone != nil {
		p.Phone = req.Phone
		changes["phone"] = *req.Phone
	}
	if req.Department != nil {
		p.Department = req.Department
		changes["department"] = *req.Department
	}
	if req.Position != nil {
		p.Position = req.Position
		changes["position"] = *req.Position
	}
	if req.Role != nil {
		r, ok := domain.ParseRole(*req.Role)
		if !ok {
			return nil, profileerrors.ErrInvalidRole
		}
		if r.String() != p.Role {
			changes["role"] = map[string]string{"from": p.Role, "to": r.String()}
			p.Role = r.String()
		}
	}
	if req.HireDate != nil {
		d, err := time.Parse(dateLayout, *req.HireDate)
		if err != nil {
			return nil, profileerrors.ErrInvalidDateFormat
		}
		p.HireDate = &d
		changes["hire_date"] = *req.HireDate
	}
	return changes, nil
}

func (s *service) mapDocument(d Document) DocumentResponse {
	return DocumentResponse{
		ID:          d.ID.String(),
		ProfileID:   d.ProfileID.String(),
		FileName:    d.FileName,
		ContentType: d.ContentType,
		Size:        d.Size,
		URL:         s.store.URL(d.Bucket, d.ObjectKey),
		CreatedAt:   d.CreatedAt.Format(time.RFC3339),
	}
}

func mapToResponse(p Profile) ProfileResponse {
	resp := ProfileResponse{
		ID:           p.ID.String(),
		EmployeeCode: p.EmployeeCode,
		FullName:     p.FullName,
		Email:        p.Email,
		Phone:        p.Phone,
		Department:   p.Department,
		Position:     p.Position,
		Role:         p.Role,
		StrikeCount:  p.StrikeCount,
		IsSuspended:  p.IsSuspended,
		IsTerminated: p.IsTerminated,
	}
	if p.HireDate != nil {
		v := p.HireDate.Format(dateLayout)
		resp.HireDate = &v
	}
	if p.SuspensionEndDate != nil {
		v := p.SuspensionEndDate.Format(time.RFC3339)
		resp.SuspensionEndDate = &v
	}
	if p.TerminatedAt != nil {
		v := p.TerminatedAt.Format(time.RFC3339)
		resp.TerminatedAt = &v
	}
	return resp
}

func mapToListResponse(profiles []Profile) []ProfileResponse {
	resp := make([]ProfileResponse, len(profiles))
	for i, p := range profiles {
		resp[i] = mapToResponse(p)
	}
	return resp
}
