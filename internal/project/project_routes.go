package project

import (
	"go-hrops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	projects := r.Group("/projects")
	projects.Use(middleware.AuthMiddleware())
	{
		projects.GET("", middleware.RBACAuthorize(rbacService, "project", "read"), h.GetAll)
		projects.GET("/:id", middleware.RBACAuthorize(rbacService, "project", "read"), h.GetByID)
		projects.POST("", middleware.RBACAuthorize(rbacService, "project", "create"), h.Create)
		projects.PUT("/:id", middleware.RBACAuthorize(rbacService, "project", "update"), h.Update)
		projects.PATCH("/:id/status", middleware.RBACAuthorize(rbacService, "project", "update"), h.ChangeStatus)
		projects.DELETE("/:id", middleware.RBACAuthorize(rbacService, "project", "delete"), h.Delete)
	}
}
