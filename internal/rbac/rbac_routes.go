package rbac

import (
	"go-hrops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, service Service) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("/enforce", handler.Enforce)

		group.GET("/roles", middleware.RBACAuthorize(service, "rbac", "read"), handler.ListRoles)
		group.GET("/roles/:role/permissions", middleware.RBACAuthorize(service, "rbac", "read"), handler.RolePermissions)
		group.PUT("/roles/:role/permissions",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(service, "rbac", "update"),
			handler.UpdateRolePermissions,
		)
	}
}
