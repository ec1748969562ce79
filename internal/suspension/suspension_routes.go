package suspension

import (
	"go-hrops/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	redisClient *redis.Client,
) {
	suspensions := r.Group("/suspensions")
	suspensions.Use(middleware.AuthMiddleware())
	{
		suspensions.GET("/me", handler.Mine)
		suspensions.GET("", middleware.RBACAuthorize(rbacService, "suspension", "read"), handler.GetAll)
		suspensions.GET("/:id", middleware.RBACAuthorize(rbacService, "suspension", "read"), handler.GetByID)
		suspensions.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "suspension", "create"),
			middleware.Idempotency(redisClient),
			handler.Create,
		)
		suspensions.POST("/:id/approve",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "suspension", "approve"),
			middleware.Idempotency(redisClient),
			handler.Approve,
		)
		suspensions.POST("/:id/reject",
			middleware.RBACAuthorize(rbacService, "suspension", "approve"),
			middleware.Idempotency(redisClient),
			handler.Reject,
		)
	}
}
