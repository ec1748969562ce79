package biodata

import (
	"go-hrops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	r.POST("/biodata/intake", middleware.RateLimitByIP(0.05, 3), h.Submit)

	biodata := r.Group("/biodata")
	biodata.Use(middleware.AuthMiddleware())
	{
		biodata.POST("", middleware.RateLimitByUser(0.1, 2), h.Submit)
		biodata.GET("", middleware.RBACAuthorize(rbacService, "biodata", "read"), h.GetAll)
		biodata.GET("/:id", middleware.RBACAuthorize(rbacService, "biodata", "read"), h.GetByID)
		biodata.POST("/:id/review", middleware.RBACAuthorize(rbacService, "biodata", "review"), h.Review)
	}
}
