package salary

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
	salaries := r.Group("/salaries")
	salaries.Use(middleware.AuthMiddleware())
	{
		salaries.GET("/me", handler.Me)
		salaries.GET("/me/statement", middleware.RateLimitByUser(0.2, 2), handler.MyStatement)
		salaries.GET("",
			middleware.RBACAuthorize(rbacService, "salary", "read"),
			handler.GetAll,
		)
		salaries.GET("/:user_id",
			middleware.RBACAuthorize(rbacService, "salary", "read"),
			handler.GetByUserID,
		)
		salaries.GET("/:user_id/statement",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, "salary", "read"),
			handler.Statement,
		)
		salaries.PUT("/:user_id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "salary", "update"),
			handler.Upsert,
		)
		salaries.POST("/recalculate",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "salary", "update"),
			middleware.Idempotency(redisClient),
			handler.Recalculate,
		)
	}
}
