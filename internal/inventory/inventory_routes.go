package inventory

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
	items := r.Group("/inventory")
	items.Use(middleware.AuthMiddleware())
	{
		items.GET("", middleware.RBACAuthorize(rbacService, "inventory", "read"), h.GetAll)
		items.GET("/low-stock", middleware.RBACAuthorize(rbacService, "inventory", "read"), h.LowStock)
		items.GET("/:id", middleware.RBACAuthorize(rbacService, "inventory", "read"), h.GetByID)
		items.POST("", middleware.RBACAuthorize(rbacService, "inventory", "create"), h.Create)
		items.PUT("/:id", middleware.RBACAuthorize(rbacService, "inventory", "update"), h.Update)
		items.POST("/:id/adjust",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "inventory", "update"),
			middleware.Idempotency(redisClient),
			h.Adjust,
		)
		items.DELETE("/:id", middleware.RBACAuthorize(rbacService, "inventory", "delete"), h.Delete)
	}
}
