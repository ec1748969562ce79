package profile

import (
	"go-hrops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	profiles := r.Group("/profiles")
	profiles.Use(middleware.AuthMiddleware())
	{
		profiles.GET("/me", handler.Me)
		profiles.GET("", middleware.RBACAuthorize(rbacService, "profile", "read"), handler.GetAll)
		profiles.GET("/:id", middleware.RBACAuthorize(rbacService, "profile", "read"), handler.GetByID)
		profiles.POST("", middleware.RBACAuthorize(rbacService, "profile", "create"), handler.Create)
		profiles.PATCH("/:id", middleware.RBACAuthorize(rbacService, "profile", "update"), handler.Update)
		profiles.POST("/:id/terminate", middleware.RBACAuthorize(rbacService, "profile", "terminate"), handler.Terminate)
		profiles.DELETE("/:id", middleware.RBACAuthorize(rbacService, "profile", "delete"), handler.Delete)
		profiles.GET("/:id/documents", middleware.RBACAuthorize(rbacService, "profile", "read"), handler.ListDocuments)
		profiles.POST("/:id/documents", middleware.RBACAuthorize(rbacService, "profile", "update"), handler.UploadDocument)
	}
}
