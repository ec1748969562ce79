package notification

import (
	"go-hrops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	r.POST("/notifications/email",
		middleware.AuthMiddleware(),
		middleware.RateLimitByUser(0.1, 3),
		middleware.RBACAuthorize(rbacService, "notification", "send"),
		h.SendEmail,
	)
}
