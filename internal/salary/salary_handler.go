package salary

import (
	"fmt"
	"net/http"
	"time"

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
	l := zap.L().Named("salary.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salary.handler")
	}
	return &Handler{service: service, logger: l}
}

func getActorID(c *gin.Context) string {
	return c.GetString("profile_id")
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("salary request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	page, pageSize := response.PageParams(c)
	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) GetByUserID(c *gin.Context) {
	resp, err := h.service.GetByUserID(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Me(c *gin.Context) {
	resp, err := h.service.GetByUserID(c.Request.Context(), getActorID(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Upsert(c *gin.Context) {
	var req UpsertSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Upsert(c.Request.Context(), getActorID(c), c.Param("user_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Recalculate(c *gin.Context) {
	var req RecalculateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			appErr := apperror.MapValidationError(err)
			httpErr := apperror.ToHTTP(appErr)
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, err.Error())
			return
		}
	}
	month, err := ParseMonth(c.Query("month"), time.Now())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.RecalculateDeductions(c.Request.Context(), req.UserID, month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Statement(c *gin.Context) {
	h.statement(c, c.Param("user_id"))
}

func (h *Handler) MyStatement(c *gin.Context) {
	h.statement(c, getActorID(c))
}

func (h *Handler) statement(c *gin.Context, userID string) {
	month, err := ParseMonth(c.Query("month"), time.Now())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	pdf, err := h.service.Statement(c.Request.Context(), userID, month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	filename := fmt.Sprintf("salary-statement-%s.pdf", month.Format(monthLayout))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
