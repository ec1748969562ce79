package task

import (
	"go-hrops/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	rbacService middleware.RBACService,
	redisClient *redis.Client,
) {
	tasks := r.Group("/tasks")
	tasks.Use(middleware.AuthMiddleware())
	{
		tasks.GET("", middleware.RBACAuthorize(rbacService, "task", "read"), h.GetAll)
		tasks.POST("", middleware.RBACAuthorize(rbacService, "task", "create"), h.Create)

		tasks.GET("/bin", middleware.RBACAuthorize(rbacService, "task_bin", "read"), h.ListBin)
		tasks.POST("/bin/:id/restore", middleware.RBACAuthorize(rbacService, "task_bin", "restore"), h.Restore)
		tasks.DELETE("/bin/:id", middleware.RBACAuthorize(rbacService, "task_bin", "purge"), h.Purge)

		tasks.GET("/:id", middleware.RBACAuthorize(rbacService, "task", "read"), h.GetByID)
		tasks.PUT("/:id", middleware.RBACAuthorize(rbacService, "task", "update"), h.Update)
		tasks.PATCH("/:id/status", middleware.RBACAuthorize(rbacService, "task", "update"), h.ChangeStatus)
		tasks.DELETE("/:id", middleware.RBACAuthorize(rbacService, "task", "delete"), h.MoveToBin)

		tasks.GET("/:id/messages", middleware.RBACAuthorize(rbacService, "task", "read"), h.ListMessages)
		tasks.POST("/:id/messages",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "task", "read"),
			h.PostMessage,
		)
		tasks.GET("/:id/attachments", middleware.RBACAuthorize(rbacService, "task", "read"), h.ListAttachments)
		tasks.POST("/:id/attachments",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, "task", "update"),
			h.UploadAttachment,
		)
		tasks.POST("/:id/inventory",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "task", "update"),
			middleware.Idempotency(redisClient),
			h.DeductInventory,
		)
	}
}
