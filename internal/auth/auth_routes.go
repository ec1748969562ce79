package auth

import (
	"go-hrops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.08, 5), handler.Login)
		auth.POST("/refresh", middleware.RateLimitByIP(0.5, 5), handler.Refresh)
		auth.POST("/logout", handler.Logout)
		auth.POST("/bootstrap-admin", middleware.RateLimitByIP(0.02, 1), handler.BootstrapAdmin)
		auth.GET("/me", middleware.AuthMiddleware(), middleware.RateLimitByUser(2, 5), handler.Me)
	}

	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.POST("", middleware.RBACAuthorize(rbacService, "user", "create"), handler.CreateUser)
		users.PATCH("/:id/email", middleware.RBACAuthorize(rbacService, "user", "update"), handler.UpdateEmail)
		users.DELETE("/:id", middleware.RBACAuthorize(rbacService, "user", "delete"), handler.DeleteUser)
	}
}
