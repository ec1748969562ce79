package audit

import (
	"go-hrops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	audits := r.Group("/employee-audits")
	audits.Use(middleware.AuthMiddleware())
	{
		audits.GET("", middleware.RBACAuthorize(rbacService, "audit", "read"), handler.GetAll)
	}
}
