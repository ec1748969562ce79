package dashboard

import (
	"net/http"

	dashboarderrors "go-hrops/internal/dashboard/errors"
	"go-hrops/internal/domain"
	"go-hrops/internal/shared/apperror"
	"go-hrops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("dashboard.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) Get(c *gin.Context) {
	role, ok := domain.ParseRole(c.GetString("role"))
	if !ok {
		e := dashboarderrors.ErrUnknownRole
		response.Error(c, e.HTTPStatus, e.Code, e.Message, nil)
		return
	}
	resp, err := h.service.Get(c.Request.Context(), role, c.GetString("profile_id"))
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("dashboard request failed", zap.String("role", role.String()), zap.Int("status", httpErr.Status), zap.Error(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
