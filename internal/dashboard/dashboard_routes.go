package dashboard

import (
	"go-hrops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	r.GET("/dashboard",
		middleware.AuthMiddleware(),
		middleware.RateLimitByUser(1, 5),
		middleware.RBACAuthorize(rbacService, "dashboard", "read"),
		h.Get,
	)
}
