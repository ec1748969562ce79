package task_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"go-hrops/internal/domain"
	"go-hrops/internal/inventory"
	"go-hrops/internal/inventory/inventorytest"
	"go-hrops/internal/messaging/kafka"
	"go-hrops/internal/storage"
	"go-hrops/internal/task"
	taskerrors "go-hrops/internal/task/errors"
	taskMock "go-hrops/internal/task/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type recordingOutbox struct {
	events []kafka.OutboxEvent
}

func (o *recordingOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return o }

func (o *recordingOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	o.events = append(o.events, event)
	return nil
}

func (o *recordingOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (o *recordingOutbox) MarkSent(ctx context.Context, id string) error { return nil }

func (o *recordingOutbox) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

func (o *recordingOutbox) DeleteSentBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (o *recordingOutbox) types() []string {
	out := make([]string, len(o.events))
	for i, e := range o.events {
		out[i] = e.EventType
	}
	return out
}

type fakeStore struct {
	putErr  error
	puts    []string
	deletes []string
}

func (s *fakeStore) Put(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) (storage.Object, error) {
	if s.putErr != nil {
		return storage.Object{}, s.putErr
	}
	s.puts = append(s.puts, key)
	return storage.Object{Bucket: bucket, Key: key, ContentType: contentType, Size: size}, nil
}

func (s *fakeStore) Delete(ctx context.Context, bucket, key string) error {
	s.deletes = append(s.deletes, key)
	return nil
}

func (s *fakeStore) URL(bucket, key string) string {
	return "https://cdn.test/" + bucket + "/" + key
}

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   task.Service
	repo      *taskMock.MockRepository
	inventory *inventorytest.MemoryRepository
	redismock redismock.ClientMock
	store     *fakeStore
	outbox    *recordingOutbox
}

func setupServiceTest(t *testing.T, items ...inventory.Item) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dbRedis, redisMock := redismock.NewClientMock()
	repo := taskMock.NewMockRepository(ctrl)
	repo.EXPECT().WithTx(gomock.Any()).Return(repo).AnyTimes()
	inv := inventorytest.NewMemoryRepository(items...)
	store := &fakeStore{}
	outbox := &recordingOutbox{}

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   task.NewService(db, repo, inv, store, dbRedis, outbox),
		repo:      repo,
		inventory: inv,
		redismock: redisMock,
		store:     store,
		outbox:    outbox,
	}
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

func newTask(status task.Status, assignee, creator string) *task.Task {
	return &task.Task{
		ID:         uuid.New(),
		Title:      "Replace core switch",
		Category:   task.CategoryStandard,
		Priority:   "high",
		AssignedTo: uuid.MustParse(assignee),
		CreatedBy:  uuid.MustParse(creator),
		Status:     status,
		CreatedAt:  time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
	}
}

func TestCheckTransition(t *testing.T) {
	assignee := uuid.NewString()
	creator := uuid.NewString()
	worker := task.Actor{ID: assignee, Role: domain.RoleEmployee}
	stranger := task.Actor{ID: uuid.NewString(), Role: domain.RoleEmployee}
	manager := task.Actor{ID: creator, Role: domain.RoleNetworkManager}

	tests := []struct {
		name  string
		from  task.Status
		to    task.Status
		actor task.Actor
		want  error
	}{
		{"assignee starts work", task.StatusPending, task.StatusInProgress, worker, nil},
		{"manager starts work", task.StatusPending, task.StatusInProgress, manager, nil},
		{"stranger cannot start", task.StatusPending, task.StatusInProgress, stranger, taskerrors.ErrNotAssignee},
		{"assignee submits", task.StatusInProgress, task.StatusUnderReview, worker, nil},
		{"manager cannot submit for someone", task.StatusInProgress, task.StatusUnderReview, manager, taskerrors.ErrNotAssignee},
		{"manager completes", task.StatusUnderReview, task.StatusCompleted, manager, nil},
		{"assignee cannot complete", task.StatusUnderReview, task.StatusCompleted, worker, taskerrors.ErrManagerOnly},
		{"manager sends back", task.StatusUnderReview, task.StatusInProgress, manager, nil},
		{"assignee cannot send back", task.StatusUnderReview, task.StatusInProgress, worker, taskerrors.ErrManagerOnly},
		{"assignee cannot cancel", task.StatusPending, task.StatusCancelled, worker, taskerrors.ErrManagerOnly},
		{"skip review", task.StatusInProgress, task.StatusCompleted, manager, taskerrors.ErrInvalidTransition},
		{"reopen completed", task.StatusCompleted, task.StatusInProgress, manager, taskerrors.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := task.CheckTransition(*newTask(tt.from, assignee, creator), tt.actor, tt.to)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()
	managerID := uuid.NewString()
	employeeID := uuid.NewString()

	t.Run("manager assigns with defaults", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		resp, err := deps.service.Create(ctx, task.Actor{ID: managerID, Role: domain.RoleHRManager}, task.CreateTaskRequest{
			Title:      "  Audit laptops ",
			AssignedTo: employeeID,
		})
		require.NoError(t, err)
		assert.Equal(t, "Audit laptops", resp.Title)
		assert.Equal(t, "standard", resp.Category)
		assert.Equal(t, "medium", resp.Priority)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, []string{"tasks.insert"}, deps.outbox.types())
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("employee may only assign to self", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		_, err := deps.service.Create(ctx, task.Actor{ID: employeeID, Role: domain.RoleEmployee}, task.CreateTaskRequest{
			Title:      "Fix printer",
			AssignedTo: managerID,
		})
		assert.ErrorIs(t, err, taskerrors.ErrManagerOnly)
	})

	t.Run("bad due date", func(t *testing.T) {
		deps := setupServiceTest(t)
		due := "03/04/2026"

		_, err := deps.service.Create(ctx, task.Actor{ID: managerID, Role: domain.RoleSuperAdmin}, task.CreateTaskRequest{
			Title:      "Fix printer",
			AssignedTo: employeeID,
			DueDate:    &due,
		})
		assert.ErrorIs(t, err, taskerrors.ErrInvalidDueDate)
	})
}

func TestTaskService_ChangeStatus(t *testing.T) {
	ctx := context.Background()
	assignee := uuid.NewString()
	manager := uuid.NewString()

	t.Run("submit stamps submitted_at", func(t *testing.T) {
		deps := setupServiceTest(t)
		current := newTask(task.StatusInProgress, assignee, manager)
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().FindByIDForUpdate(gomock.Any(), current.ID.String()).Return(current, nil)
		deps.repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, tk *task.Task) error {
			assert.Equal(t, task.StatusUnderReview, tk.Status)
			assert.NotNil(t, tk.SubmittedAt)
			return nil
		})

		resp, err := deps.service.ChangeStatus(ctx, task.Actor{ID: assignee, Role: domain.RoleEmployee}, current.ID.String(), task.ChangeStatusRequest{Status: "under_review"})
		require.NoError(t, err)
		assert.Equal(t, "under_review", resp.Status)
		assert.NotNil(t, resp.SubmittedAt)
		assert.Equal(t, []string{"tasks.update"}, deps.outbox.types())
	})

	t.Run("employee cannot complete", func(t *testing.T) {
		deps := setupServiceTest(t)
		current := newTask(task.StatusUnderReview, assignee, manager)
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().FindByIDForUpdate(gomock.Any(), current.ID.String()).Return(current, nil)
		deps.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Times(0)

		_, err := deps.service.ChangeStatus(ctx, task.Actor{ID: assignee, Role: domain.RoleEmployee}, current.ID.String(), task.ChangeStatusRequest{Status: "completed"})
		assert.ErrorIs(t, err, taskerrors.ErrManagerOnly)
		assert.Empty(t, deps.outbox.events)
	})

	t.Run("outsider is not a participant", func(t *testing.T) {
		deps := setupServiceTest(t)
		current := newTask(task.StatusPending, assignee, manager)
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().FindByIDForUpdate(gomock.Any(), current.ID.String()).Return(current, nil)

		_, err := deps.service.ChangeStatus(ctx, task.Actor{ID: uuid.NewString(), Role: domain.RoleEmployee}, current.ID.String(), task.ChangeStatusRequest{Status: "in_progress"})
		assert.ErrorIs(t, err, taskerrors.ErrNotParticipant)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.NewString()
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().FindByIDForUpdate(gomock.Any(), id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.ChangeStatus(ctx, task.Actor{ID: manager, Role: domain.RoleSuperAdmin}, id, task.ChangeStatusRequest{Status: "cancelled"})
		assert.ErrorIs(t, err, taskerrors.ErrTaskNotFound)
	})

	t.Run("unknown status", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.ChangeStatus(ctx, task.Actor{ID: manager, Role: domain.RoleSuperAdmin}, uuid.NewString(), task.ChangeStatusRequest{Status: "done"})
		assert.ErrorIs(t, err, taskerrors.ErrInvalidStatus)
	})
}

func TestTaskService_GetAll_EmployeeSeesOwnTasks(t *testing.T) {
	deps := setupServiceTest(t)
	me := uuid.NewString()

	deps.repo.EXPECT().
		FindAll(gomock.Any(), task.ListFilter{Status: "pending", AssignedTo: me}).
		Return([]task.Task{*newTask(task.StatusPending, me, uuid.NewString())}, nil)

	resp, err := deps.service.GetAll(context.Background(), task.Actor{ID: me, Role: domain.RoleEmployee}, task.ListFilter{
		Status:     "pending",
		AssignedTo: uuid.NewString(),
	})
	require.NoError(t, err)
	assert.Len(t, resp, 1)
}

func TestTaskService_Bin(t *testing.T) {
	ctx := context.Background()
	superAdmin := task.Actor{ID: uuid.NewString(), Role: domain.RoleSuperAdmin}
	hr := task.Actor{ID: uuid.NewString(), Role: domain.RoleHRManager}

	t.Run("employee cannot bin", func(t *testing.T) {
		deps := setupServiceTest(t)
		err := deps.service.MoveToBin(ctx, task.Actor{ID: uuid.NewString(), Role: domain.RoleEmployee}, uuid.NewString())
		assert.ErrorIs(t, err, taskerrors.ErrManagerOnly)
	})

	t.Run("manager bins with deleted_by", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.NewString()
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().MoveToBin(gomock.Any(), id, uuid.MustParse(hr.ID)).Return(nil)

		require.NoError(t, deps.service.MoveToBin(ctx, hr, id))
		assert.Equal(t, []string{"tasks.delete"}, deps.outbox.types())
	})

	t.Run("restore is super admin only", func(t *testing.T) {
		deps := setupServiceTest(t)
		_, err := deps.service.Restore(ctx, hr, uuid.NewString())
		assert.ErrorIs(t, err, taskerrors.ErrSuperAdminOnly)
	})

	t.Run("restore a live task", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.NewString()
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().FindInBin(gomock.Any(), id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Restore(ctx, superAdmin, id)
		assert.ErrorIs(t, err, taskerrors.ErrNotInBin)
	})

	t.Run("purge removes stored attachments", func(t *testing.T) {
		deps := setupServiceTest(t)
		binned := newTask(task.StatusCancelled, uuid.NewString(), hr.ID)
		id := binned.ID.String()
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().FindInBin(gomock.Any(), id).Return(binned, nil)
		deps.repo.EXPECT().FindAttachments(gomock.Any(), id).Return([]task.Attachment{
			{Bucket: storage.BucketTaskImages, ObjectKey: id + "/2026/03/a-photo.jpg"},
		}, nil)
		deps.repo.EXPECT().Purge(gomock.Any(), id).Return(nil)
		deps.redismock.ExpectDel(task.MessagesCacheKey(id)).SetVal(1)

		require.NoError(t, deps.service.Purge(ctx, superAdmin, id))
		assert.Equal(t, []string{id + "/2026/03/a-photo.jpg"}, deps.store.deletes)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})
}

func TestTaskService_Messages(t *testing.T) {
	ctx := context.Background()
	assignee := uuid.NewString()
	current := newTask(task.StatusInProgress, assignee, uuid.NewString())
	id := current.ID.String()
	actor := task.Actor{ID: assignee, Role: domain.RoleEmployee}

	t.Run("list fills cache on miss", func(t *testing.T) {
		deps := setupServiceTest(t)
		msg := task.Message{
			ID:        uuid.New(),
			TaskID:    current.ID,
			SenderID:  uuid.MustParse(assignee),
			Body:      "cable ordered",
			CreatedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		}
		expected, _ := json.Marshal([]task.MessageResponse{{
			ID:        msg.ID.String(),
			TaskID:    id,
			SenderID:  assignee,
			Body:      "cable ordered",
			CreatedAt: "2026-03-02T09:00:00Z",
		}})

		deps.repo.EXPECT().FindByID(gomock.Any(), id).Return(current, nil)
		deps.redismock.ExpectGet(task.MessagesCacheKey(id)).RedisNil()
		deps.repo.EXPECT().FindMessages(gomock.Any(), id).Return([]task.Message{msg}, nil)
		deps.redismock.ExpectSet(task.MessagesCacheKey(id), string(expected), 10*time.Minute).SetVal("OK")

		resp, err := deps.service.ListMessages(ctx, actor, id)
		require.NoError(t, err)
		require.Len(t, resp, 1)
		assert.Equal(t, "cable ordered", resp[0].Body)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("list served from cache", func(t *testing.T) {
		deps := setupServiceTest(t)
		cached, _ := json.Marshal([]task.MessageResponse{{ID: "m-1", Body: "on site"}})

		deps.repo.EXPECT().FindByID(gomock.Any(), id).Return(current, nil)
		deps.redismock.ExpectGet(task.MessagesCacheKey(id)).SetVal(string(cached))
		deps.repo.EXPECT().FindMessages(gomock.Any(), gomock.Any()).Times(0)

		resp, err := deps.service.ListMessages(ctx, actor, id)
		require.NoError(t, err)
		assert.Equal(t, "on site", resp[0].Body)
	})

	t.Run("post invalidates cache", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByID(gomock.Any(), id).Return(current, nil)
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).Return(nil)
		deps.redismock.ExpectDel(task.MessagesCacheKey(id)).SetVal(1)

		resp, err := deps.service.PostMessage(ctx, actor, id, task.PostMessageRequest{Body: " done, please review "})
		require.NoError(t, err)
		assert.Equal(t, "done, please review", resp.Body)
		require.Len(t, deps.outbox.events, 1)
		assert.Equal(t, "task_messages.insert", deps.outbox.events[0].EventType)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("blank body", func(t *testing.T) {
		deps := setupServiceTest(t)
		_, err := deps.service.PostMessage(ctx, actor, id, task.PostMessageRequest{Body: "   "})
		assert.ErrorIs(t, err, taskerrors.ErrEmptyMessage)
	})
}

func TestTaskService_UploadAttachment(t *testing.T) {
	ctx := context.Background()
	assignee := uuid.NewString()
	current := newTask(task.StatusInProgress, assignee, uuid.NewString())
	id := current.ID.String()
	actor := task.Actor{ID: assignee, Role: domain.RoleEmployee}
	upload := func(size int64) storage.Upload {
		return storage.Upload{Filename: "rack photo.jpg", ContentType: "image/jpeg", Size: size, Body: bytes.NewReader([]byte("jpeg"))}
	}

	t.Run("stores object and row", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByID(gomock.Any(), id).Return(current, nil)
		deps.repo.EXPECT().CreateAttachment(gomock.Any(), gomock.Any()).Return(nil)

		resp, err := deps.service.UploadAttachment(ctx, actor, id, upload(4))
		require.NoError(t, err)
		require.Len(t, deps.store.puts, 1)
		assert.Contains(t, deps.store.puts[0], "rack_photo.jpg")
		assert.Equal(t, "https://cdn.test/task-images/"+deps.store.puts[0], resp.URL)
	})

	t.Run("row failure removes object", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByID(gomock.Any(), id).Return(current, nil)
		deps.repo.EXPECT().CreateAttachment(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		_, err := deps.service.UploadAttachment(ctx, actor, id, upload(4))
		assert.Error(t, err)
		assert.Equal(t, deps.store.puts, deps.store.deletes)
	})

	t.Run("too large", func(t *testing.T) {
		deps := setupServiceTest(t)
		_, err := deps.service.UploadAttachment(ctx, actor, id, upload(storage.MaxUploadSize+1))
		assert.ErrorIs(t, err, taskerrors.ErrAttachmentTooLarge)
		assert.Empty(t, deps.store.puts)
	})
}

func TestTaskService_DeductInventory(t *testing.T) {
	ctx := context.Background()
	assignee := uuid.NewString()
	actor := task.Actor{ID: assignee, Role: domain.RoleEmployee}
	cable := inventory.Item{ID: uuid.New(), SKU: "CAB-01", Name: "Cat6 cable", Quantity: 10}
	rj45 := inventory.Item{ID: uuid.New(), SKU: "RJ45", Name: "RJ45 plug", Quantity: 3}

	t.Run("deducts every line", func(t *testing.T) {
		deps := setupServiceTest(t, cable, rj45)
		current := newTask(task.StatusInProgress, assignee, uuid.NewString())
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().FindByIDForUpdate(gomock.Any(), current.ID.String()).Return(current, nil)
		deps.repo.EXPECT().CreateUsages(gomock.Any(), gomock.Len(2)).Return(nil)

		resp, err := deps.service.DeductInventory(ctx, actor, current.ID.String(), task.DeductInventoryRequest{Items: []task.UsageLine{
			{ItemID: cable.ID.String(), Quantity: 4},
			{ItemID: rj45.ID.String(), Quantity: 2},
			{ItemID: cable.ID.String(), Quantity: 1},
		}})
		require.NoError(t, err)
		assert.Len(t, resp.Items, 2)

		got, _ := deps.inventory.Get(cable.ID)
		assert.Equal(t, 5, got.Quantity)
		got, _ = deps.inventory.Get(rj45.ID)
		assert.Equal(t, 1, got.Quantity)
		assert.Equal(t, []string{"inventory_items.update", "inventory_items.update"}, deps.outbox.types())
	})

	t.Run("one short line rolls back all", func(t *testing.T) {
		deps := setupServiceTest(t, cable, rj45)
		current := newTask(task.StatusInProgress, assignee, uuid.NewString())
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().FindByIDForUpdate(gomock.Any(), current.ID.String()).Return(current, nil)
		deps.repo.EXPECT().CreateUsages(gomock.Any(), gomock.Any()).Times(0)

		_, err := deps.service.DeductInventory(ctx, actor, current.ID.String(), task.DeductInventoryRequest{Items: []task.UsageLine{
			{ItemID: cable.ID.String(), Quantity: 4},
			{ItemID: rj45.ID.String(), Quantity: 5},
		}})
		assert.ErrorIs(t, err, taskerrors.ErrInsufficientStock)

		got, _ := deps.inventory.Get(cable.ID)
		assert.Equal(t, 10, got.Quantity)
		assert.Zero(t, deps.inventory.Updates)
		assert.Empty(t, deps.outbox.events)
	})

	t.Run("unknown item", func(t *testing.T) {
		deps := setupServiceTest(t, cable)
		current := newTask(task.StatusInProgress, assignee, uuid.NewString())
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().FindByIDForUpdate(gomock.Any(), current.ID.String()).Return(current, nil)

		_, err := deps.service.DeductInventory(ctx, actor, current.ID.String(), task.DeductInventoryRequest{Items: []task.UsageLine{
			{ItemID: uuid.NewString(), Quantity: 1},
		}})
		assert.ErrorIs(t, err, taskerrors.ErrItemNotFound)
	})

	t.Run("cancelled task", func(t *testing.T) {
		deps := setupServiceTest(t, cable)
		current := newTask(task.StatusCancelled, assignee, uuid.NewString())
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().FindByIDForUpdate(gomock.Any(), current.ID.String()).Return(current, nil)

		_, err := deps.service.DeductInventory(ctx, actor, current.ID.String(), task.DeductInventoryRequest{Items: []task.UsageLine{
			{ItemID: cable.ID.String(), Quantity: 1},
		}})
		assert.ErrorIs(t, err, taskerrors.ErrTaskClosed)
	})

	t.Run("zero quantity", func(t *testing.T) {
		deps := setupServiceTest(t, cable)
		_, err := deps.service.DeductInventory(ctx, actor, uuid.NewString(), task.DeductInventoryRequest{Items: []task.UsageLine{
			{ItemID: cable.ID.String(), Quantity: 0},
		}})
		assert.ErrorIs(t, err, taskerrors.ErrInvalidUsage)
	})
}
