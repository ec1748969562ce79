package auth_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-hrops/internal/audit"
	"go-hrops/internal/auth"
	autherrors "go-hrops/internal/auth/errors"
	authMock "go-hrops/internal/auth/mock"
	"go-hrops/internal/profile"
	"go-hrops/internal/profile/profiletest"
	"go-hrops/internal/salary/salarytest"
	"go-hrops/internal/shared/counter"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

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

type serviceDeps struct {
	service  auth.Service
	sqlMock  sqlmock.Sqlmock
	repo     *authMock.MockRepository
	profiles *profiletest.MemoryRepository
	salaries *salarytest.MemoryRepository
	audits   *fakeAuditRepository
}

func setupServiceTest(t *testing.T, people ...profile.Profile) *serviceDeps {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	ctrl := gomock.NewController(t)
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := authMock.NewMockRepository(ctrl)
	repo.EXPECT().WithTx(gomock.Any()).Return(repo).AnyTimes()
	deps := &serviceDeps{
		sqlMock:  mock,
		repo:     repo,
		profiles: profiletest.NewMemoryRepository(people...),
		salaries: salarytest.NewMemoryRepository(),
		audits:   &fakeAuditRepository{},
	}
	deps.service = auth.NewService(db, repo, deps.profiles, deps.salaries, deps.audits, &fakeCounterRepository{})
	return deps
}

func account(t *testing.T, profileID uuid.UUID, password, role string) *auth.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &auth.Account{
		ID:           uuid.New(),
		ProfileID:    profileID,
		Email:        "dewi@example.com",
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	person := profile.Profile{ID: uuid.New(), FullName: "Dewi", Email: "dewi@example.com", Role: "hr_manager"}

	t.Run("issues access and refresh tokens", func(t *testing.T) {
		deps := setupServiceTest(t, person)
		acc := account(t, person.ID, "s3cret-pass", "hr_manager")
		deps.repo.EXPECT().FindByEmail(gomock.Any(), "dewi@example.com").Return(acc, nil)
		deps.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		resp, err := deps.service.Login(ctx, auth.LoginRequest{Email: "dewi@example.com", Password: "s3cret-pass"})
		require.NoError(t, err)
		assert.Equal(t, "hr_manager", resp.User.Role)
		assert.Equal(t, int64(900), resp.ExpiresIn)

		parsed, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) { return []byte("test-secret"), nil })
		require.NoError(t, err)
		claims := parsed.Claims.(jwt.MapClaims)
		assert.Equal(t, person.ID.String(), claims["profile_id"])
		assert.Equal(t, "access", claims["typ"])
	})

	t.Run("wrong password", func(t *testing.T) {
		deps := setupServiceTest(t, person)
		deps.repo.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(account(t, person.ID, "s3cret-pass", "hr_manager"), nil)

		_, err := deps.service.Login(ctx, auth.LoginRequest{Email: "dewi@example.com", Password: "nope"})
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Login(ctx, auth.LoginRequest{Email: "ghost@example.com", Password: "x"})
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("terminated profile is refused", func(t *testing.T) {
		gone := person
		gone.IsTerminated = true
		deps := setupServiceTest(t, gone)
		deps.repo.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(account(t, gone.ID, "s3cret-pass", "employee"), nil)

		_, err := deps.service.Login(ctx, auth.LoginRequest{Email: "dewi@example.com", Password: "s3cret-pass"})
		assert.ErrorIs(t, err, autherrors.ErrAccountDisabled)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	person := profile.Profile{ID: uuid.New(), FullName: "Dewi", Email: "dewi@example.com", Role: "employee"}

	t.Run("rotates with the stored role", func(t *testing.T) {
		deps := setupServiceTest(t, person)
		acc := account(t, person.ID, "s3cret-pass", "employee")
		deps.repo.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(acc, nil)
		deps.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		first, err := deps.service.Login(ctx, auth.LoginRequest{Email: acc.Email, Password: "s3cret-pass"})
		require.NoError(t, err)

		promoted := *acc
		promoted.Role = "network_manager"
		deps.repo.EXPECT().FindByID(gomock.Any(), acc.ID.String()).Return(&promoted, nil)

		next, err := deps.service.Refresh(ctx, first.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, "network_manager", next.User.Role)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		deps := setupServiceTest(t, person)
		acc := account(t, person.ID, "s3cret-pass", "employee")
		deps.repo.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(acc, nil)
		deps.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		first, err := deps.service.Login(ctx, auth.LoginRequest{Email: acc.Email, Password: "s3cret-pass"})
		require.NoError(t, err)

		_, err = deps.service.Refresh(ctx, first.AccessToken)
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("expired", func(t *testing.T) {
		deps := setupServiceTest(t)
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": uuid.NewString(),
			"typ":     "refresh",
			"exp":     time.Now().Add(-time.Minute).Unix(),
		})
		raw, _ := token.SignedString([]byte("test-secret"))

		_, err := deps.service.Refresh(ctx, raw)
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}

func TestAuthService_CreateUser(t *testing.T) {
	ctx := context.Background()
	actor := uuid.NewString()

	t.Run("profile salary and account in one tx", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, a *auth.Account) error {
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("welcome-123")))
			return nil
		})

		resp, err := deps.service.CreateUser(ctx, actor, auth.CreateUserRequest{
			FullName:   "Budi Santoso",
			Email:      "Budi@Example.com",
			Password:   "welcome-123",
			Role:       "employee",
			BaseSalary: "5000000",
			DailyRate:  "200000",
		})
		require.NoError(t, err)
		assert.Equal(t, "budi@example.com", resp.Email)

		pid := uuid.MustParse(resp.ProfileID)
		p, ok := deps.profiles.Get(pid)
		require.True(t, ok)
		assert.Equal(t, "EMP-000001", p.EmployeeCode)

		sal, ok := deps.salaries.Get(pid)
		require.True(t, ok)
		assert.Equal(t, "5000000", sal.CurrentSalary.String())
		assert.Equal(t, "200000", sal.DailyRate.String())
		require.Len(t, deps.audits.entries, 1)
		assert.Equal(t, audit.ActionProfileCreated, deps.audits.entries[0].Action)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate email rolls back", func(t *testing.T) {
		deps := setupServiceTest(t, profile.Profile{ID: uuid.New(), Email: "budi@example.com"})
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		_, err := deps.service.CreateUser(ctx, actor, auth.CreateUserRequest{
			FullName: "Budi", Email: "budi@example.com", Password: "welcome-123", Role: "employee",
		})
		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})

	t.Run("negative salary", func(t *testing.T) {
		deps := setupServiceTest(t)
		_, err := deps.service.CreateUser(ctx, actor, auth.CreateUserRequest{
			FullName: "Budi", Email: "budi@example.com", Password: "welcome-123", Role: "employee", BaseSalary: "-1",
		})
		assert.Error(t, err)
	})
}

func TestAuthService_BootstrapAdmin(t *testing.T) {
	ctx := context.Background()
	req := auth.BootstrapAdminRequest{FullName: "Root", Email: "root@example.com", Password: "first-admin-pass"}

	t.Run("first admin", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.repo.EXPECT().CountByRole(gomock.Any(), "super_admin").Return(int64(0), nil)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		resp, err := deps.service.BootstrapAdmin(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "super_admin", resp.Role)
	})

	t.Run("refused once an admin exists", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		deps.repo.EXPECT().CountByRole(gomock.Any(), "super_admin").Return(int64(1), nil)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		_, err := deps.service.BootstrapAdmin(ctx, req)
		assert.ErrorIs(t, err, autherrors.ErrAdminExists)
	})
}

func TestAuthService_UpdateEmail(t *testing.T) {
	ctx := context.Background()
	person := profile.Profile{ID: uuid.New(), FullName: "Dewi", Email: "dewi@example.com", Role: "employee"}
	deps := setupServiceTest(t, person)
	acc := account(t, person.ID, "s3cret-pass", "employee")

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()
	deps.repo.EXPECT().FindByProfileID(gomock.Any(), person.ID.String()).Return(acc, nil)
	deps.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := deps.service.UpdateEmail(ctx, uuid.NewString(), person.ID.String(), auth.UpdateEmailRequest{Email: "Dewi.New@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "dewi.new@example.com", resp.Email)

	p, _ := deps.profiles.Get(person.ID)
	assert.Equal(t, "dewi.new@example.com", p.Email)
	require.Len(t, deps.audits.entries, 1)
	assert.Equal(t, audit.ActionEmailChanged, deps.audits.entries[0].Action)
}

func TestAuthService_DeleteUser(t *testing.T) {
	ctx := context.Background()
	actor := uuid.NewString()

	t.Run("self delete refused", func(t *testing.T) {
		deps := setupServiceTest(t)
		err := deps.service.DeleteUser(ctx, actor, actor)
		assert.ErrorIs(t, err, autherrors.ErrCannotDeleteSelf)
	})

	t.Run("unknown account", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.NewString()
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		deps.repo.EXPECT().DeleteByProfileID(gomock.Any(), id).Return(gorm.ErrRecordNotFound)

		err := deps.service.DeleteUser(ctx, actor, id)
		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
	})
}
