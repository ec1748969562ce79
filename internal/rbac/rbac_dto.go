package rbac

import "go-hrops/internal/domain"

// CheckRequest asks about the caller's own role unless a super_admin names
// another one.
type CheckRequest struct {
	Role     string `json:"role"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type UpdatePermissionsRequest struct {
	Permissions []domain.PermissionResponse `json:"permissions" binding:"dive"`
}
