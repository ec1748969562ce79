package attendance

import (
	"fmt"
	"net/http"
	"time"

	"go-hrops/internal/shared/apperror"
	"go-hrops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var reportContentTypes = map[string]string{
	FormatCSV:  "text/csv",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) bindClock(c *gin.Context) (ClockRequest, bool) {
	var req ClockRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperror.MapValidationError(err)
		httpErr := apperror.ToHTTP(appErr)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, err.Error())
		return req, false
	}
	return req, true
}

func (h *Handler) ClockIn(c *gin.Context) {
	req, ok := h.bindClock(c)
	if !ok {
		return
	}
	resp, err := h.service.ClockIn(c.Request.Context(), c.GetString("profile_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ClockOut(c *gin.Context) {
	req, ok := h.bindClock(c)
	if !ok {
		return
	}
	resp, err := h.service.ClockOut(c.Request.Context(), c.GetString("profile_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	h.list(c, ListFilter{
		From:   c.Query("from"),
		To:     c.Query("to"),
		UserID: c.Query("user_id"),
		Status: c.Query("status"),
	})
}

func (h *Handler) Mine(c *gin.Context) {
	h.list(c, ListFilter{
		From:   c.Query("from"),
		To:     c.Query("to"),
		UserID: c.GetString("profile_id"),
		Status: c.Query("status"),
	})
}

func (h *Handler) list(c *gin.Context, filter ListFilter) {
	resp, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	page, pageSize := response.PageParams(c)
	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) ProcessDaily(c *gin.Context) {
	var req ProcessDailyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			appErr := apperror.MapValidationError(err)
			httpErr := apperror.ToHTTP(appErr)
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, err.Error())
			return
		}
	}
	date, err := ParseDate(req.Date, time.Now())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.ProcessDaily(c.Request.Context(), date)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Report(c *gin.Context) {
	now := time.Now()
	from, err := ParseDate(c.Query("from"), time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	to, err := ParseDate(c.Query("to"), now)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	format := c.DefaultQuery("format", FormatCSV)

	data, err := h.service.ExportReport(c.Request.Context(), from, to, format)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	filename := fmt.Sprintf("attendance-%s-%s.%s", from.Format(dateLayout), to.Format(dateLayout), format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, reportContentTypes[format], data)
}
