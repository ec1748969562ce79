package biodata

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	biodataerrors "go-hrops/internal/biodata/errors"
	"go-hrops/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const MaxDocuments = 5

type Service interface {
	Submit(ctx context.Context, userID string, req SubmitRequest, uploads []storage.Upload) (SubmissionResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]SubmissionResponse, error)
	GetByID(ctx context.Context, id string) (SubmissionResponse, error)
	Review(ctx context.Context, actorID, id string, req ReviewRequest) (SubmissionResponse, error)
	CountPending(ctx context.Context) (int64, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	store  storage.ObjectStore
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, store storage.ObjectStore, logger ...*zap.Logger) Service {
	l := zap.L().Named("biodata.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("biodata.service")
	}
	if store == nil {
		store = storage.NewUnavailableStore()
	}
	return &service{
		db:     db,
		repo:   repo,
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
		logger: l,
	}
}

// Submit stores documents before the row. Any failure after the first Put
// removes what was already uploaded.
func (s *service) Submit(ctx context.Context, userID string, req SubmitRequest, uploads []storage.Upload) (SubmissionResponse, error) {
	s.logger.Debug("biodata submission received", zap.String("email", req.Email), zap.Int("documents", len(uploads)))

	payload, err := normalizePayload(req.Payload)
	if err != nil {
		s.logger.Warn("biodata payload rejected", zap.Error(err))
		return SubmissionResponse{}, err
	}
	if len(uploads) > MaxDocuments {
		return SubmissionResponse{}, biodataerrors.ErrTooManyDocuments
	}
	for _, u := range uploads {
		if u.Size > storage.MaxUploadSize {
			return SubmissionResponse{}, biodataerrors.ErrDocumentTooLarge
		}
	}

	sub := &Submission{
		ID:        uuid.New(),
		FullName:  strings.TrimSpace(req.FullName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Payload:   payload,
		Status:    StatusPending,
		CreatedAt: s.now(),
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		sub.Phone = &phone
	}
	if id, err := uuid.Parse(userID); err == nil {
		sub.UserID = &id
	}

	docs := make([]DocumentRef, 0, len(uploads))
	cleanup := func() {
		for _, d := range docs {
			if err := s.store.Delete(ctx, storage.BucketBiodataDocuments, d.Key); err != nil {
				s.logger.Warn("orphaned biodata document", zap.String("key", d.Key), zap.Error(err))
			}
		}
	}
	for _, u := range uploads {
		key := storage.ObjectKey(sub.ID.String(), u.Filename, sub.CreatedAt)
		obj, err := s.store.Put(ctx, storage.BucketBiodataDocuments, key, u.Body, u.Size, u.ContentType)
		if err != nil {
			s.logger.Error("biodata document upload failed", zap.String("submission_id", sub.ID.String()), zap.Error(err))
			cleanup()
			return SubmissionResponse{}, err
		}
		docs = append(docs, DocumentRef{Key: obj.Key, FileName: u.Filename, ContentType: obj.ContentType, Size: obj.Size})
	}

	raw, err := json.Marshal(docs)
	if err != nil {
		cleanup()
		return SubmissionResponse{}, err
	}
	sub.Documents = raw

	if err := s.repo.Create(ctx, sub); err != nil {
		s.logger.Error("biodata submission persist failed", zap.Error(err))
		cleanup()
		return SubmissionResponse{}, err
	}

	s.logger.Info("biodata submitted", zap.String("submission_id", sub.ID.String()))
	return s.mapToResponse(*sub), nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]SubmissionResponse, error) {
	if filter.Status != "" {
		if _, ok := ParseStatus(filter.Status); !ok {
			return nil, biodataerrors.ErrInvalidStatus
		}
	}
	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("list biodata failed", zap.Error(err))
		return nil, err
	}
	resp := make([]SubmissionResponse, len(rows))
	for i, row := range rows {
		resp[i] = s.mapToResponse(row)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (SubmissionResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return SubmissionResponse{}, biodataerrors.ErrInvalidSubmissionID
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return SubmissionResponse{}, mapRepositoryError(err)
	}
	return s.mapToResponse(*row), nil
}

// Review moves a pending submission to approved or rejected. A reviewed
// submission stays as it is.
func (s *service) Review(ctx context.Context, actorID, id string, req ReviewRequest) (SubmissionResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return SubmissionResponse{}, biodataerrors.ErrInvalidSubmissionID
	}
	reviewer, err := uuid.Parse(actorID)
	if err != nil {
		return SubmissionResponse{}, biodataerrors.ErrInvalidSubmissionID
	}

	var next Status
	switch req.Decision {
	case "approve":
		next = StatusApproved
	case "reject":
		next = StatusRejected
	default:
		return SubmissionResponse{}, biodataerrors.ErrInvalidDecision
	}
	note := strings.TrimSpace(req.Note)
	if next == StatusRejected && note == "" {
		return SubmissionResponse{}, biodataerrors.ErrNoteRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SubmissionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return SubmissionResponse{}, mapRepositoryError(err)
	}
	if row.Status != StatusPending {
		s.logger.Warn("biodata already reviewed", zap.String("submission_id", id), zap.String("status", string(row.Status)))
		return SubmissionResponse{}, biodataerrors.ErrAlreadyReviewed
	}

	now := s.now()
	row.Status = next
	row.ReviewedBy = &reviewer
	row.ReviewedAt = &now
	if note != "" {
		row.ReviewNote = &note
	}
	if err := qtx.Update(ctx, row); err != nil {
		s.logger.Error("biodata review persist failed", zap.String("submission_id", id), zap.Error(err))
		return SubmissionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("biodata review commit failed", zap.String("submission_id", id), zap.Error(err))
		return SubmissionResponse{}, err
	}

	s.logger.Info("biodata reviewed", zap.String("submission_id", id), zap.String("status", string(next)))
	return s.mapToResponse(*row), nil
}

func (s *service) CountPending(ctx context.Context) (int64, error) {
	return s.repo.CountByStatus(ctx, StatusPending)
}

func normalizePayload(v string) ([]byte, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return []byte("{}"), nil
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(v), &obj); err != nil {
		return nil, biodataerrors.ErrInvalidPayload
	}
	return json.Marshal(obj)
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return biodataerrors.ErrSubmissionNotFound
	}
	return err
}

func (s *service) mapToResponse(row Submission) SubmissionResponse {
	resp := SubmissionResponse{
		ID:         row.ID.String(),
		FullName:   row.FullName,
		Email:      row.Email,
		Phone:      row.Phone,
		Payload:    json.RawMessage(row.Payload),
		Documents:  []DocumentResponse{},
		Status:     string(row.Status),
		ReviewNote: row.ReviewNote,
		CreatedAt:  row.CreatedAt.Format(time.RFC3339),
	}
	if len(resp.Payload) == 0 {
		resp.Payload = json.RawMessage("{}")
	}
	if row.UserID != nil {
		v := row.UserID.String()
		resp.UserID = &v
	}
	if row.ReviewedBy != nil {
		v := row.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if row.ReviewedAt != nil {
		v := row.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}

	var docs []DocumentRef
	if len(row.Documents) > 0 {
		if err := json.Unmarshal(row.Documents, &docs); err != nil {
			s.logger.Warn("biodata documents unreadable", zap.String("submission_id", resp.ID), zap.Error(err))
		}
	}
	for _, d := range docs {
		resp.Documents = append(resp.Documents, DocumentResponse{
			FileName:    d.FileName,
			ContentType: d.ContentType,
			Size:        d.Size,
			URL:         s.store.URL(storage.BucketBiodataDocuments, d.Key),
		})
	}
	return resp
}
