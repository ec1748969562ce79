package project_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-hrops/internal/project"
	projecterrors "go-hrops/internal/project/errors"
	projectMock "go-hrops/internal/project/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   project.Service
	repo      *projectMock.MockRepository
	redismock redismock.ClientMock
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	dbRedis, redisMock := redismock.NewClientMock()
	repo := projectMock.NewMockRepository(ctrl)

	svc := project.NewService(db, repo, dbRedis, nil)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		redismock: redisMock,
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

func TestCanTransition(t *testing.T) {
	assert.True(t, project.CanTransition(project.StatusPlanning, project.StatusActive))
	assert.True(t, project.CanTransition(project.StatusActive, project.StatusOnHold))
	assert.True(t, project.CanTransition(project.StatusOnHold, project.StatusActive))
	assert.False(t, project.CanTransition(project.StatusPlanning, project.StatusCompleted))
	assert.False(t, project.CanTransition(project.StatusCompleted, project.StatusActive))
	assert.False(t, project.CanTransition(project.StatusCancelled, project.StatusPlanning))
}

func TestProjectService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		cached, _ := json.Marshal([]project.ProjectResponse{{ID: "p-1", Name: "Fiber rollout"}})
		deps.redismock.ExpectGet(project.AllCacheKey).SetVal(string(cached))
		deps.repo.EXPECT().FindAll(gomock.Any()).Times(0)

		resp, err := deps.service.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, resp, 1)
		assert.Equal(t, "Fiber rollout", resp[0].Name)
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		creator := uuid.New()
		deps.redismock.ExpectGet(project.AllCacheKey).RedisNil()
		deps.repo.EXPECT().FindAll(ctx).Return([]project.Project{
			{ID: id, Name: "Tower audit", Status: project.StatusActive, CreatedBy: creator},
		}, nil).Times(1)

		want, _ := json.Marshal([]project.ProjectResponse{
			{ID: id.String(), Name: "Tower audit", Status: "active", CreatedBy: creator.String()},
		})
		deps.redismock.ExpectSet(project.AllCacheKey, string(want), 30*time.Minute).SetVal("OK")

		resp, err := deps.service.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, resp, 1)
		assert.Equal(t, "active", resp[0].Status)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("repository error", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.redismock.ExpectGet(project.AllCacheKey).RedisNil()
		deps.repo.EXPECT().FindAll(ctx).Return(nil, errors.New("db down"))

		_, err := deps.service.GetAll(ctx)
		assert.Error(t, err)
	})
}

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()
	actor := uuid.NewString()

	t.Run("starts in planning and clears the cache", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.redismock.ExpectDel(project.AllCacheKey).SetVal(1)

		start, end := "2026-01-01", "2026-06-30"
		resp, err := deps.service.Create(ctx, actor, project.CreateProjectRequest{Name: " Backbone ", StartDate: &start, EndDate: &end})
		require.NoError(t, err)
		assert.Equal(t, "Backbone", resp.Name)
		assert.Equal(t, "planning", resp.Status)
		assert.Equal(t, actor, resp.CreatedBy)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("end before start", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		start, end := "2026-06-30", "2026-01-01"
		_, err := deps.service.Create(ctx, actor, project.CreateProjectRequest{Name: "x", StartDate: &start, EndDate: &end})
		assert.ErrorIs(t, err, projecterrors.ErrInvalidDateRange)
	})
}

func TestProjectService_ChangeStatus(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("allowed transition", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDForUpdate(ctx, id.String()).Return(&project.Project{ID: id, Status: project.StatusPlanning}, nil)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, p *project.Project) error {
				assert.Equal(t, project.StatusActive, p.Status)
				return nil
			})
		deps.redismock.ExpectDel(project.AllCacheKey).SetVal(1)

		resp, err := deps.service.ChangeStatus(ctx, "", id.String(), project.ChangeStatusRequest{Status: "active"})
		require.NoError(t, err)
		assert.Equal(t, "active", resp.Status)
	})

	t.Run("transition outside the table", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDForUpdate(ctx, id.String()).Return(&project.Project{ID: id, Status: project.StatusCompleted}, nil)
		deps.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Times(0)

		_, err := deps.service.ChangeStatus(ctx, "", id.String(), project.ChangeStatusRequest{Status: "active"})
		assert.ErrorIs(t, err, projecterrors.ErrInvalidTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown status", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.ChangeStatus(ctx, "", id.String(), project.ChangeStatusRequest{Status: "archived"})
		assert.ErrorIs(t, err, projecterrors.ErrInvalidStatus)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDForUpdate(ctx, id.String()).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.ChangeStatus(ctx, "", id.String(), project.ChangeStatusRequest{Status: "active"})
		assert.ErrorIs(t, err, projecterrors.ErrProjectNotFound)
	})
}
