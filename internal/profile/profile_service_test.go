package profile_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"go-hrops/internal/audit"
	"go-hrops/internal/messaging/kafka"
	"go-hrops/internal/profile"
	profileerrors "go-hrops/internal/profile/errors"
	"go-hrops/internal/shared/counter"
	"go-hrops/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeProfileRepository struct {
	createFn            func(ctx context.Context, p *profile.Profile) error
	findAllFn           func(ctx context.Context, filter profile.ListFilter) ([]profile.Profile, error)
	findByIDFn          func(ctx context.Context, id string) (*profile.Profile, error)
	findByIDForUpdateFn func(ctx context.Context, id string) (*profile.Profile, error)
	updateFn            func(ctx context.Context, p *profile.Profile) error
	deleteFn            func(ctx context.Context, id string) error
	createDocumentFn    func(ctx context.Context, d *profile.Document) error
}

func (f *fakeProfileRepository) WithTx(tx *sql.Tx) profile.Repository { return f }

func (f *fakeProfileRepository) Create(ctx context.Context, p *profile.Profile) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakeProfileRepository) FindAll(ctx context.Context, filter profile.ListFilter) ([]profile.Profile, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeProfileRepository) FindByID(ctx context.Context, id string) (*profile.Profile, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProfileRepository) FindByIDForUpdate(ctx context.Context, id string) (*profile.Profile, error) {
	if f.findByIDForUpdateFn != nil {
		return f.findByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProfileRepository) FindByEmail(ctx context.Context, email string) (*profile.Profile, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProfileRepository) FindActive(ctx context.Context) ([]profile.Profile, error) {
	return nil, nil
}

func (f *fakeProfileRepository) Update(ctx context.Context, p *profile.Profile) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, p)
	}
	return nil
}

func (f *fakeProfileRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeProfileRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	return 0, nil
}

func (f *fakeProfileRepository) CreateDocument(ctx context.Context, d *profile.Document) error {
	if f.createDocumentFn != nil {
		return f.createDocumentFn(ctx, d)
	}
	return nil
}

func (f *fakeProfileRepository) FindDocuments(ctx context.Context, profileID string) ([]profile.Document, error) {
	return nil, nil
}

type fakeAuditRepository struct {
	entries []audit.EmployeeAudit
}

func (f *fakeAuditRepository) WithTx(tx *sql.Tx) audit.Repository { return f }
func (f *fakeAuditRepository) Create(ctx context.Context, a *audit.EmployeeAudit) error {
	f.entries = append(f.entries, *a)
	return nil
}
func (f *fakeAuditRepository) FindAll(ctx context.Context, filter audit.ListFilter) ([]audit.EmployeeAudit, error) {
	return f.entries, nil
}

type fakeCounterRepository struct {
	next int64
}

func (f *fakeCounterRepository) WithTx(tx *sql.Tx) counter.Repository { return f }
func (f *fakeCounterRepository) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeObjectStore struct {
	puts    []string
	deletes []string
}

func (f *fakeObjectStore) Put(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) (storage.Object, error) {
	f.puts = append(f.puts, bucket+"/"+key)
	return storage.Object{Bucket: bucket, Key: key, Size: size, ContentType: contentType}, nil
}
func (f *fakeObjectStore) Delete(ctx context.Context, bucket, key string) error {
	f.deletes = append(f.deletes, bucket+"/"+key)
	return nil
}
func (f *fakeObjectStore) URL(bucket, key string) string {
	return "https://cdn.test/" + bucket + "/" + key
}

type fakeOutbox struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, e kafka.OutboxEvent) error {
	f.events = append(f.events, e)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}
func (f *fakeOutbox) DeleteSentBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type profileServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service profile.Service
	repo    *fakeProfileRepository
	audits  *fakeAuditRepository
	store   *fakeObjectStore
	outbox  *fakeOutbox
}

func setupProfileServiceTest(t *testing.T) *profileServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	deps := &profileServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		repo:    &fakeProfileRepository{},
		audits:  &fakeAuditRepository{},
		store:   &fakeObjectStore{},
		outbox:  &fakeOutbox{},
	}
	deps.service = profile.NewService(db, deps.repo, deps.audits, &fakeCounterRepository{}, deps.store, deps.outbox)
	return deps
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestProfileService_Create(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.NewString()

	t.Run("success assigns employee code and audits", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		var created *profile.Profile
		deps.repo.createFn = func(ctx context.Context, p *profile.Profile) error {
			created = p
			return nil
		}

		resp, err := deps.service.Create(ctx, actorID, profile.CreateProfileRequest{
			FullName: "  Dewi Lestari ",
			Email:    "Dewi@Example.com",
			Role:     "network_manager",
		})
		assert.NoError(t, err)
		assert.Equal(t, "EMP-000001", resp.EmployeeCode)
		assert.Equal(t, "dewi@example.com", created.Email)
		assert.Equal(t, "Dewi Lestari", created.FullName)
		assert.Equal(t, "network_manager", resp.Role)
		assert.Len(t, deps.audits.entries, 1)
		assert.Equal(t, audit.ActionProfileCreated, deps.audits.entries[0].Action)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid hire date rolls back", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, false)

		bad := "03/01/2026"
		_, err := deps.service.Create(ctx, actorID, profile.CreateProfileRequest{
			FullName: "X", Email: "x@example.com", HireDate: &bad,
		})
		assert.ErrorIs(t, err, profileerrors.ErrInvalidDateFormat)
		assert.Empty(t, deps.audits.entries)
	})
}

func TestProfileService_Update(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("records changed fields only", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, pid string) (*profile.Profile, error) {
			return &profile.Profile{ID: id, FullName: "Budi", Role: "employee"}, nil
		}
		role := "hr_manager"
		resp, err := deps.service.Update(ctx, uuid.NewString(), id.String(), profile.UpdateProfileRequest{Role: &role})
		assert.NoError(t, err)
		assert.Equal(t, "hr_manager", resp.Role)
		assert.Len(t, deps.audits.entries, 1)
		assert.Contains(t, string(deps.audits.entries[0].Changes), `"from":"employee"`)
	})

	t.Run("invalid role", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, pid string) (*profile.Profile, error) {
			return &profile.Profile{ID: id, Role: "employee"}, nil
		}
		role := "owner"
		_, err := deps.service.Update(ctx, "", id.String(), profile.UpdateProfileRequest{Role: &role})
		assert.ErrorIs(t, err, profileerrors.ErrInvalidRole)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Update(ctx, "", id.String(), profile.UpdateProfileRequest{})
		assert.ErrorIs(t, err, profileerrors.ErrProfileNotFound)
	})
}

func TestProfileService_Terminate(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("success clears suspension and emits event", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		end := time.Now().Add(48 * time.Hour)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, pid string) (*profile.Profile, error) {
			return &profile.Profile{ID: id, IsSuspended: true, SuspensionEndDate: &end}, nil
		}
		var saved *profile.Profile
		deps.repo.updateFn = func(ctx context.Context, p *profile.Profile) error {
			saved = p
			return nil
		}

		resp, err := deps.service.Terminate(ctx, uuid.NewString(), id.String(), "gross misconduct")
		assert.NoError(t, err)
		assert.True(t, resp.IsTerminated)
		assert.False(t, saved.IsSuspended)
		assert.Nil(t, saved.SuspensionEndDate)
		assert.Len(t, deps.outbox.events, 1)
		assert.Equal(t, "employee.terminated", deps.outbox.events[0].EventType)
	})

	t.Run("already terminated", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, pid string) (*profile.Profile, error) {
			return &profile.Profile{ID: id, IsTerminated: true}, nil
		}
		_, err := deps.service.Terminate(ctx, "", id.String(), "again")
		assert.ErrorIs(t, err, profileerrors.ErrAlreadyTerminated)
		assert.Empty(t, deps.outbox.events)
	})
}

func TestProfileService_UploadDocument(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("stores object then row", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, pid string) (*profile.Profile, error) {
			return &profile.Profile{ID: id}, nil
		}
		resp, err := deps.service.UploadDocument(ctx, uuid.NewString(), id.String(), storage.Upload{
			Filename: "contract.pdf", ContentType: "application/pdf", Size: 4, Body: strings.NewReader("%PDF"),
		})
		assert.NoError(t, err)
		assert.Len(t, deps.store.puts, 1)
		assert.True(t, strings.HasPrefix(deps.store.puts[0], storage.BucketEmployeeDocuments+"/"+id.String()+"/"))
		assert.Contains(t, resp.URL, "https://cdn.test/employee-documents/")
	})

	t.Run("row failure removes uploaded object", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, pid string) (*profile.Profile, error) {
			return &profile.Profile{ID: id}, nil
		}
		deps.repo.createDocumentFn = func(ctx context.Context, d *profile.Document) error {
			return errors.New("db down")
		}
		_, err := deps.service.UploadDocument(ctx, "", id.String(), storage.Upload{
			Filename: "a.png", Size: 1, Body: strings.NewReader("x"),
		})
		assert.Error(t, err)
		assert.Len(t, deps.store.deletes, 1)
	})

	t.Run("empty upload", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.UploadDocument(ctx, "", id.String(), storage.Upload{Filename: "a.png"})
		assert.ErrorIs(t, err, profileerrors.ErrEmptyDocument)
	})
}
