package sellerrisk

import (
	"errors"
	"fmt"
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

const maxSellerIDLength = 128

// Handler handles HTTP requests for seller risk
type Handler struct {
	service    *Service
	maxReviews int
}

// NewHandler creates a new seller risk handler. maxReviews caps one assessment request.
func NewHandler(service *Service, maxReviews int) *Handler {
	return &Handler{service: service, maxReviews: maxReviews}
}

func sellerIDParam(c *gin.Context) (string, bool) {
	id := c.Param("seller_id")
	if id == "" || len(id) > maxSellerIDLength {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid seller id")
		return "", false
	}
	return id, true
}

func respondStorageError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrStorageDisabled), errors.Is(err, ErrArchiveDisabled):
		common.ErrorResponse(c, http.StatusServiceUnavailable, err.Error())
		return
	case errors.Is(err, ErrReportNotFound):
		common.ErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}
	logger.WithContext(c.Request.Context()).Error(message, zap.Error(err))
	common.ErrorResponse(c, http.StatusInternalServerError, message)
}

// AssessSeller scores a seller's review set
func (h *Handler) AssessSeller(c *gin.Context) {
	sellerID, ok := sellerIDParam(c)
	if !ok {
		return
	}

	var req AssessRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}
	if h.maxReviews > 0 && len(req.Reviews) > h.maxReviews {
		common.ErrorResponse(c, http.StatusBadRequest,
			fmt.Sprintf("batch of %d reviews exceeds limit of %d", len(req.Reviews), h.maxReviews))
		return
	}

	inputs := make([]models.ReviewInput, len(req.Reviews))
	for i := range req.Reviews {
		inputs[i] = req.Reviews[i].ToInput()
	}

	common.SuccessResponse(c, h.service.AssessSeller(c.Request.Context(), sellerID, inputs))
}

// GetRiskHistory lists past assessments
func (h *Handler) GetRiskHistory(c *gin.Context) {
	sellerID, ok := sellerIDParam(c)
	if !ok {
		return
	}

	params := pagination.ParseParams(c)
	history, total, err := h.service.GetRiskHistory(c.Request.Context(), sellerID, params.Limit, params.Offset)
	if err != nil {
		respondStorageError(c, err, "failed to get risk history")
		return
	}

	common.SuccessResponseWithMeta(c, history, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// ProfileRisk scores a seller from profile metadata
func (h *Handler) ProfileRisk(c *gin.Context) {
	sellerID, ok := sellerIDParam(c)
	if !ok {
		return
	}

	var req ProfileInput
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	common.SuccessResponse(c, h.service.ProfileRisk(sellerID, req))
}

// RecordViolation stores a delivery violation
func (h *Handler) RecordViolation(c *gin.Context) {
	sellerID, ok := sellerIDParam(c)
	if !ok {
		return
	}

	var req ViolationRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	violation, err := h.service.RecordViolation(c.Request.Context(), sellerID, &req)
	if err != nil {
		respondStorageError(c, err, "failed to record violation")
		return
	}

	common.CreatedResponse(c, violation)
}

// ListViolations lists a seller's violations
func (h *Handler) ListViolations(c *gin.Context) {
	sellerID, ok := sellerIDParam(c)
	if !ok {
		return
	}

	params := pagination.ParseParams(c)
	violations, total, err := h.service.ListViolations(c.Request.Context(), sellerID, params.Limit, params.Offset)
	if err != nil {
		respondStorageError(c, err, "failed to list violations")
		return
	}

	common.SuccessResponseWithMeta(c, violations, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// ViolationRisk returns the delivery risk summary
func (h *Handler) ViolationRisk(c *gin.Context) {
	sellerID, ok := sellerIDParam(c)
	if !ok {
		return
	}

	risk, err := h.service.ViolationRisk(c.Request.Context(), sellerID)
	if err != nil {
		respondStorageError(c, err, "failed to compute violation risk")
		return
	}

	common.SuccessResponse(c, risk)
}

// GetReport returns a presigned link to an archived assessment report
func (h *Handler) GetReport(c *gin.Context) {
	sellerID, ok := sellerIDParam(c)
	if !ok {
		return
	}
	assessmentID, err := uuid.Parse(c.Param("assessment_id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid assessment id")
		return
	}

	link, err := h.service.ReportURL(c.Request.Context(), sellerID, assessmentID)
	if err != nil {
		respondStorageError(c, err, "failed to get report")
		return
	}

	common.SuccessResponse(c, link)
}

// RegisterRoutes registers seller risk routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	sellers := rg.Group("/sellers/:seller_id")
	{
		sellers.POST("/risk", h.AssessSeller)
		sellers.GET("/risk/history", h.GetRiskHistory)
		sellers.GET("/risk/reports/:assessment_id", h.GetReport)
		sellers.POST("/profile-risk", h.ProfileRisk)
		sellers.POST("/violations", h.RecordViolation)
		sellers.GET("/violations", h.ListViolations)
		sellers.GET("/violations/risk", h.ViolationRisk)
	}
}
