package attendance

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
	attendance := r.Group("/attendance")
	attendance.Use(middleware.AuthMiddleware())
	{
		attendance.GET("/me", h.Mine)
		attendance.GET("",
			middleware.RBACAuthorize(rbacService, "attendance", "read"),
			h.GetAll,
		)
		attendance.GET("/report",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, "attendance", "report"),
			h.Report,
		)
		attendance.POST("/clock-in",
			middleware.RateLimitByUser(0.2, 3),
			middleware.RBACAuthorize(rbacService, "attendance", "create"),
			h.ClockIn,
		)
		attendance.POST("/clock-out",
			middleware.RateLimitByUser(0.2, 3),
			middleware.RBACAuthorize(rbacService, "attendance", "create"),
			h.ClockOut,
		)
		attendance.POST("/process-daily",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "attendance", "process"),
			middleware.Idempotency(redisClient),
			h.ProcessDaily,
		)
	}
}
