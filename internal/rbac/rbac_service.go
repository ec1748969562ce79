package rbac

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go-hrops/internal/domain"
	rbacerrors "go-hrops/internal/rbac/errors"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req domain.EnforceRequest) (bool, error)
	Reload(ctx context.Context) error

	ListRoles(ctx context.Context) []domain.RolePermissionsResponse
	RolePermissions(ctx context.Context, role string) (domain.RolePermissionsResponse, error)
	UpdateRolePermissions(ctx context.Context, role string, perms []domain.PermissionResponse) (domain.RolePermissionsResponse, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	current  map[domain.Role][]permission
	logger   *zap.Logger
}

// NewService returns a service with the built-in policy loaded. Call Reload
// to apply rows stored in role_permissions.
func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	s := &service{repo: repo, enforcer: enforcer, logger: l}
	if err := s.apply(defaultPolicy()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *service) Reload(ctx context.Context) error {
	rows, err := s.repo.ListGrants(ctx)
	if err != nil {
		s.logger.Error("load role grants failed", zap.Error(err))
		return err
	}

	policy := defaultPolicy()
	overridden := map[domain.Role]bool{}
	for _, row := range rows {
		role, ok := domain.ParseRole(row.Role)
		if !ok || role == domain.RoleSuperAdmin || !validPermission(row.Resource, row.Action) {
			s.logger.Warn("ignoring role grant", zap.String("role", row.Role), zap.String("resource", row.Resource), zap.String("action", row.Action))
			continue
		}
		if !overridden[role] {
			policy[role] = nil
			overridden[role] = true
		}
		policy[role] = append(policy[role], permission{row.Resource, row.Action})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.applyLocked(policy); err != nil {
		return err
	}
	s.logger.Info("rbac policy loaded", zap.Int("stored_grants", len(rows)), zap.Int("overridden_roles", len(overridden)))
	return nil
}

func (s *service) apply(policy map[domain.Role][]permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(policy)
}

func (s *service) applyLocked(policy map[domain.Role][]permission) error {
	s.enforcer.ClearPolicy()
	var rules [][]string
	for role, perms := range policy {
		for _, p := range perms {
			rules = append(rules, []string{role.String(), p.resource, p.action})
		}
	}
	if len(rules) > 0 {
		if _, err := s.enforcer.AddPolicies(rules); err != nil {
			s.logger.Error("apply rbac policy failed", zap.Error(err))
			return err
		}
	}
	s.current = policy
	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed, err := s.enforcer.Enforce(req.Role, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed", zap.String("role", req.Role), zap.String("resource", req.Resource), zap.String("action", req.Action), zap.Error(err))
		return false, err
	}
	if !allowed {
		s.logger.Debug("rbac denied", zap.String("role", req.Role), zap.String("resource", req.Resource), zap.String("action", req.Action))
	}
	return allowed, nil
}

func (s *service) ListRoles(ctx context.Context) []domain.RolePermissionsResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.RolePermissionsResponse, 0, len(domain.AllRoles))
	for _, role := range domain.AllRoles {
		out = append(out, toResponse(role, s.current[role]))
	}
	return out
}

func (s *service) RolePermissions(ctx context.Context, role string) (domain.RolePermissionsResponse, error) {
	r, ok := domain.ParseRole(role)
	if !ok {
		return domain.RolePermissionsResponse{}, rbacerrors.ErrInvalidRole
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return toResponse(r, s.current[r]), nil
}

// UpdateRolePermissions stores the full permission set of a role. An empty
// set restores the built-in grants.
func (s *service) UpdateRolePermissions(ctx context.Context, role string, perms []domain.PermissionResponse) (domain.RolePermissionsResponse, error) {
	r, ok := domain.ParseRole(role)
	if !ok {
		return domain.RolePermissionsResponse{}, rbacerrors.ErrInvalidRole
	}
	if r == domain.RoleSuperAdmin {
		return domain.RolePermissionsResponse{}, rbacerrors.ErrRoleLocked
	}

	seen := map[permission]bool{}
	grants := make([]RoleGrant, 0, len(perms))
	for _, p := range perms {
		key := permission{strings.TrimSpace(p.Resource), strings.TrimSpace(p.Action)}
		if !validPermission(key.resource, key.action) {
			s.logger.Warn("update role permissions rejected", zap.String("role", role), zap.String("resource", p.Resource), zap.String("action", p.Action))
			return domain.RolePermissionsResponse{}, rbacerrors.ErrUnknownPermission
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		grants = append(grants, RoleGrant{Role: r.String(), Resource: key.resource, Action: key.action})
	}

	if err := s.repo.ReplaceGrants(ctx, r.String(), grants); err != nil {
		s.logger.Error("store role grants failed", zap.String("role", role), zap.Error(err))
		return domain.RolePermissionsResponse{}, err
	}
	if err := s.Reload(ctx); err != nil {
		return domain.RolePermissionsResponse{}, err
	}
	s.logger.Info("role permissions updated", zap.String("role", role), zap.Int("grants", len(grants)))
	return s.RolePermissions(ctx, role)
}

func toResponse(role domain.Role, perms []permission) domain.RolePermissionsResponse {
	out := domain.RolePermissionsResponse{Role: role.String(), Permissions: make([]domain.PermissionResponse, 0, len(perms))}
	for _, p := range perms {
		out.Permissions = append(out.Permissions, domain.PermissionResponse{Resource: p.resource, Action: p.action})
	}
	sort.Slice(out.Permissions, func(i, j int) bool {
		if out.Permissions[i].Resource != out.Permissions[j].Resource {
			return out.Permissions[i].Resource < out.Permissions[j].Resource
		}
		return out.Permissions[i].Action < out.Permissions[j].Action
	})
	return out
}
