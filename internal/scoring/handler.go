package scoring

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/review-guard/pkg/common"
	"github.com/richxcame/review-guard/pkg/middleware"
	"github.com/richxcame/review-guard/pkg/models"
)

// Handler handles HTTP requests for review scoring
type Handler struct {
	service *Service
}

// NewHandler creates a new scoring handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ScoreReview scores a single review
func (h *Handler) ScoreReview(c *gin.Context) {
	var req ReviewRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	result := h.service.ScoreReview(c.Request.Context(), req.ToInput())
	common.SuccessResponse(c, result)
}

// ScoreBatch scores up to MaxBatchSize reviews in one call
func (h *Handler) ScoreBatch(c *gin.Context) {
	var req BatchRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	if len(req.Reviews) > h.service.MaxBatchSize() {
		common.ErrorResponse(c, http.StatusBadRequest,
			fmt.Sprintf("batch of %d reviews exceeds limit of %d", len(req.Reviews), h.service.MaxBatchSize()))
		return
	}

	inputs := make([]models.ReviewInput, len(req.Reviews))
	for i := range req.Reviews {
		inputs[i] = req.Reviews[i].ToInput()
	}

	results := h.service.ScoreBatch(c.Request.Context(), inputs)

	resp := BatchResponse{Results: results, Count: len(results)}
	for _, r := range results {
		if r.IsFake {
			resp.Flagged++
		}
		if r.Degraded {
			resp.Degraded++
		}
	}
	common.SuccessResponse(c, resp)
}

// RegisterRoutes registers scoring routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	reviews := rg.Group("/reviews")
	{
		reviews.POST("/score", h.ScoreReview)
		reviews.POST("/batch", h.ScoreBatch)
	}
}
