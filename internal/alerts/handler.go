package alerts

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/richxcame/review-guard/pkg/common"
	"github.com/richxcame/review-guard/pkg/logger"
	"github.com/richxcame/review-guard/pkg/middleware"
	"github.com/richxcame/review-guard/pkg/models"
	"github.com/richxcame/review-guard/pkg/pagination"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for alerts
type Handler struct {
	service *Service
}

// NewHandler creates a new alert handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListAlerts lists alerts, optionally filtered by status
func (h *Handler) ListAlerts(c *gin.Context) {
	var query ListQuery
	if !middleware.ValidateAndBindQuery(c, &query) {
		return
	}

	params := pagination.ParseParams(c)
	alerts, total, err := h.service.ListAlerts(c.Request.Context(), models.AlertStatus(query.Status), params.Limit, params.Offset)
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("failed to list alerts", zap.Error(err))
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list alerts")
		return
	}

	common.SuccessResponseWithMeta(c, alerts, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// GetAlert returns one alert
func (h *Handler) GetAlert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid alert id")
		return
	}

	alert, err := h.service.GetAlert(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	common.SuccessResponse(c, alert)
}

// UpdateStatus moves an alert to a new status
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid alert id")
		return
	}

	var req UpdateStatusRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	alert, err := h.service.UpdateStatus(c.Request.Context(), id, models.AlertStatus(req.Status), req.Notes)
	if err != nil {
		h.respondError(c, err)
		return
	}

	common.SuccessResponse(c, alert)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrAlertNotFound):
		common.ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlertClosed):
		common.ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidTransition):
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
	default:
		logger.WithContext(c.Request.Context()).Error("alert request failed", zap.Error(err))
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to process alert")
	}
}

// RegisterRoutes registers alert routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	alerts := rg.Group("/alerts")
	{
		alerts.GET("", h.ListAlerts)
		alerts.GET("/:id", h.GetAlert)
		alerts.PUT("/:id/status", h.UpdateStatus)
	}
}
