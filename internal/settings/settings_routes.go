package settings

import (
	"go-hrops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	settings := r.Group("/settings")
	settings.Use(middleware.AuthMiddleware())
	{
		settings.GET("",
			middleware.RBACAuthorize(rbacService, "settings", "read"),
			handler.GetAll,
		)
		settings.GET("/:key",
			middleware.RBACAuthorize(rbacService, "settings", "read"),
			handler.Get,
		)
		settings.PUT("/:key",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "settings", "update"),
			handler.Upsert,
		)
	}
}
