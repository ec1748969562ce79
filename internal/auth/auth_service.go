package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-hrops/internal/audit"
	autherrors "go-hrops/internal/auth/errors"
	"go-hrops/internal/domain"
	"go-hrops/internal/profile"
	"go-hrops/internal/salary"
	"go-hrops/internal/shared/apperror"
	"go-hrops/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (LoginResponse, error)
	Me(ctx context.Context, userID string) (AccountResponse, error)

	CreateUser(ctx context.Context, actorID string, req CreateUserRequest) (AccountResponse, error)
	DeleteUser(ctx context.Context, actorID, profileID string) error
	UpdateEmail(ctx context.Context, actorID, profileID string, req UpdateEmailRequest) (AccountResponse, error)
	BootstrapAdmin(ctx context.Context, req BootstrapAdminRequest) (AccountResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	profiles profile.Repository
	salaries salary.Repository
	audits   audit.Repository
	counters counter.Repository
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	profiles profile.Repository,
	salaries salary.Repository,
	audits audit.Repository,
	counters counter.Repository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		profiles: profiles,
		salaries: salaries,
		audits:   audits,
		counters: counters,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   l,
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	acc, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("login lookup failed", zap.Error(err))
			return LoginResponse{}, err
		}
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("login rejected", zap.String("user_id", acc.ID.String()))
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}
	if err := s.checkActive(ctx, acc); err != nil {
		return LoginResponse{}, err
	}

	now := s.now()
	acc.LastLoginAt = &now
	if err := s.repo.Update(ctx, acc); err != nil {
		s.logger.Warn("login timestamp not saved", zap.String("user_id", acc.ID.String()), zap.Error(err))
	}

	resp, err := s.issue(acc, now)
	if err != nil {
		return LoginResponse{}, err
	}
	s.logger.Info("login success", zap.String("user_id", acc.ID.String()), zap.String("role", acc.Role))
	return resp, nil
}

// Refresh re-reads the account so a role change or termination takes
// effect on the next rotation.
func (s *service) Refresh(ctx context.Context, refreshToken string) (LoginResponse, error) {
	claims, err := parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return LoginResponse{}, autherrors.ErrInvalidRefreshToken
	}
	acc, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return LoginResponse{}, autherrors.ErrInvalidRefreshToken
	}
	if err := s.checkActive(ctx, acc); err != nil {
		return LoginResponse{}, err
	}
	return s.issue(acc, s.now())
}

func (s *service) Me(ctx context.Context, userID string) (AccountResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return AccountResponse{}, autherrors.ErrInvalidUserID
	}
	acc, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return AccountResponse{}, apperror.FromDB(err, autherrors.ErrUserNotFound, nil)
	}
	return mapToResponse(*acc), nil
}

func (s *service) checkActive(ctx context.Context, acc *Account) error {
	if !acc.IsActive {
		return autherrors.ErrAccountDisabled
	}
	p, err := s.profiles.FindByID(ctx, acc.ProfileID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return autherrors.ErrAccountDisabled
		}
		return err
	}
	if p.IsTerminated {
		s.logger.Warn("terminated profile tried to sign in", zap.String("profile_id", p.ID.String()))
		return autherrors.ErrAccountDisabled
	}
	return nil
}

func (s *service) issue(acc *Account, now time.Time) (LoginResponse, error) {
	c := tokenClaims{UserID: acc.ID.String(), ProfileID: acc.ProfileID.String(), Role: acc.Role}

	c.Type = tokenTypeAccess
	access, err := signToken(c, AccessTokenTTL, now)
	if err != nil {
		s.logger.Error("sign access token failed", zap.Error(err))
		return LoginResponse{}, autherrors.ErrTokenGenerationFailed
	}
	c.Type = tokenTypeRefresh
	refresh, err := signToken(c, RefreshTokenTTL, now)
	if err != nil {
		s.logger.Error("sign refresh token failed", zap.Error(err))
		return LoginResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return LoginResponse{
		User: mapToResponse(*acc),
		TokenPair: TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    int64(AccessTokenTTL.Seconds()),
		},
	}, nil
}

// CreateUser writes the profile, an opening salary row and the account in
// one transaction.
func (s *service) CreateUser(ctx context.Context, actorID string, req CreateUserRequest) (AccountResponse, error) {
	s.logger.Debug("create user requested", zap.String("actor_id", actorID), zap.String("email", req.Email), zap.String("role", req.Role))

	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return AccountResponse{}, autherrors.ErrInvalidRole
	}
	base, daily, err := parseMoney(req.BaseSalary, req.DailyRate)
	if err != nil {
		return AccountResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AccountResponse{}, err
	}
	defer tx.Rollback()

	acc, err := s.createAccount(ctx, tx, actorID, profile.CreateProfileRequest{
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		Department: req.Department,
		Position:   req.Position,
		Role:       role.String(),
		HireDate:   req.HireDate,
	}, req.Password, base, daily)
	if err != nil {
		return AccountResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create user commit failed", zap.Error(err))
		return AccountResponse{}, err
	}
	s.logger.Info("create user success", zap.String("profile_id", acc.ProfileID.String()), zap.String("role", acc.Role))
	return mapToResponse(*acc), nil
}

func (s *service) createAccount(
	ctx context.Context,
	tx *sql.Tx,
	actorID string,
	req profile.CreateProfileRequest,
	password string,
	base, daily decimal.Decimal,
) (*Account, error) {
	if len(password) < 8 {
		return nil, autherrors.ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	code, err := profile.NextEmployeeCode(ctx, s.counters.WithTx(tx))
	if err != nil {
		return nil, err
	}
	p, err := profile.NewProfile(req, code)
	if err != nil {
		return nil, err
	}
	if err := s.profiles.WithTx(tx).Create(ctx, p); err != nil {
		s.logger.Warn("create user profile failed", zap.Error(err))
		return nil, apperror.FromDB(err, nil, autherrors.ErrEmailAlreadyRegistered)
	}

	if err := s.salaries.WithTx(tx).Create(ctx, &salary.SalaryInfo{
		ID:              uuid.New(),
		UserID:          p.ID,
		BaseSalary:      base,
		CurrentSalary:   base,
		TotalDeductions: decimal.Zero,
		DailyRate:       daily,
	}); err != nil {
		s.logger.Error("create user salary row failed", zap.Error(err))
		return nil, err
	}

	acc := &Account{
		ID:           uuid.New(),
		ProfileID:    p.ID,
		Email:        p.Email,
		PasswordHash: string(hash),
		Role:         p.Role,
		IsActive:     true,
	}
	if err := s.repo.WithTx(tx).Create(ctx, acc); err != nil {
		s.logger.Warn("create user account failed", zap.Error(err))
		return nil, apperror.FromDB(err, nil, autherrors.ErrEmailAlreadyRegistered)
	}

	if err := s.writeAudit(ctx, tx, actorID, p.ID, audit.ActionProfileCreated, map[string]any{
		"email": p.Email,
		"role":  p.Role,
	}); err != nil {
		return nil, err
	}
	return acc, nil
}

func (s *service) DeleteUser(ctx context.Context, actorID, profileID string) error {
	target, err := uuid.Parse(profileID)
	if err != nil {
		return autherrors.ErrInvalidUserID
	}
	if actorID == profileID {
		return autherrors.ErrCannotDeleteSelf
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).DeleteByProfileID(ctx, profileID); err != nil {
		return apperror.FromDB(err, autherrors.ErrUserNotFound, nil)
	}
	if err := s.profiles.WithTx(tx).Delete(ctx, profileID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("delete user profile failed", zap.String("profile_id", profileID), zap.Error(err))
		return err
	}
	if err := s.writeAudit(ctx, tx, actorID, target, audit.ActionProfileDeleted, nil); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("delete user commit failed", zap.String("profile_id", profileID), zap.Error(err))
		return err
	}
	s.logger.Info("delete user success", zap.String("profile_id", profileID))
	return nil
}

// UpdateEmail keeps the login email and the profile email identical.
func (s *service) UpdateEmail(ctx context.Context, actorID, profileID string, req UpdateEmailRequest) (AccountResponse, error) {
	target, err := uuid.Parse(profileID)
	if err != nil {
		return AccountResponse{}, autherrors.ErrInvalidUserID
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AccountResponse{}, err
	}
	defer tx.Rollback()

	acc, err := s.repo.WithTx(tx).FindByProfileID(ctx, profileID)
	if err != nil {
		return AccountResponse{}, apperror.FromDB(err, autherrors.ErrUserNotFound, nil)
	}
	p, err := s.profiles.WithTx(tx).FindByIDForUpdate(ctx, profileID)
	if err != nil {
		return AccountResponse{}, apperror.FromDB(err, autherrors.ErrUserNotFound, nil)
	}
	old := acc.Email
	if old == email {
		return mapToResponse(*acc), nil
	}

	acc.Email = email
	p.Email = email
	if err := s.repo.WithTx(tx).Update(ctx, acc); err != nil {
		return AccountResponse{}, apperror.FromDB(err, nil, autherrors.ErrEmailAlreadyRegistered)
	}
	if err := s.profiles.WithTx(tx).Update(ctx, p); err != nil {
		return AccountResponse{}, apperror.FromDB(err, nil, autherrors.ErrEmailAlreadyRegistered)
	}
	if err := s.writeAudit(ctx, tx, actorID, target, audit.ActionEmailChanged, map[string]any{
		"from": old,
		"to":   email,
	}); err != nil {
		return AccountResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AccountResponse{}, err
	}
	s.logger.Info("update email success", zap.String("profile_id", profileID))
	return mapToResponse(*acc), nil
}

// BootstrapAdmin only succeeds while no super_admin account exists.
func (s *service) BootstrapAdmin(ctx context.Context, req BootstrapAdminRequest) (AccountResponse, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return AccountResponse{}, err
	}
	defer tx.Rollback()

	n, err := s.repo.WithTx(tx).CountByRole(ctx, domain.RoleSuperAdmin.String())
	if err != nil {
		return AccountResponse{}, err
	}
	if n > 0 {
		s.logger.Warn("bootstrap admin refused, super admin exists")
		return AccountResponse{}, autherrors.ErrAdminExists
	}

	acc, err := s.createAccount(ctx, tx, "", profile.CreateProfileRequest{
		FullName: req.FullName,
		Email:    req.Email,
		Role:     domain.RoleSuperAdmin.String(),
	}, req.Password, decimal.Zero, decimal.Zero)
	if err != nil {
		return AccountResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AccountResponse{}, err
	}
	s.logger.Info("bootstrap admin created", zap.String("profile_id", acc.ProfileID.String()))
	return mapToResponse(*acc), nil
}

func (s *service) writeAudit(ctx context.Context, tx *sql.Tx, actorID string, target uuid.UUID, action string, changes any) error {
	entry, err := audit.NewEntry(actorID, target, action, changes)
	if err != nil {
		return err
	}
	if err := s.audits.WithTx(tx).Create(ctx, entry); err != nil {
		s.logger.Error("write employee audit failed", zap.String("action", action), zap.Error(err))
		return err
	}
	return nil
}

func parseMoney(base, daily string) (decimal.Decimal, decimal.Decimal, error) {
	b, d := decimal.Zero, decimal.Zero
	var err error
	if base != "" {
		if b, err = decimal.NewFromString(base); err != nil || b.IsNegative() {
			return b, d, apperror.ErrInvalidInput
		}
	}
	if daily != "" {
		if d, err = decimal.NewFromString(daily); err != nil || d.IsNegative() {
			return b, d, apperror.ErrInvalidInput
		}
	}
	return b.Round(2), d.Round(2), nil
}

func mapToResponse(a Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID.String(),
		ProfileID: a.ProfileID.String(),
		Email:     a.Email,
		Role:      a.Role,
		IsActive:  a.IsActive,
	}
}
