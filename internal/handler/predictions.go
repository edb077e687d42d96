package handler

import (
	"errors"
	"net/http"
	"strconv"

	"medpremium/internal/model"
	"medpremium/internal/service"

	"github.com/gin-gonic/gin"
)

// HistoryHandler serves the optional prediction log
type HistoryHandler struct {
	predictionService *service.PredictionService
	defaultLimit      int
	maxLimit          int
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(predictionService *service.PredictionService, defaultLimit, maxLimit int) *HistoryHandler {
	return &HistoryHandler{
		predictionService: predictionService,
		defaultLimit:      defaultLimit,
		maxLimit:          maxLimit,
	}
}

func (h *HistoryHandler) limit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return h.defaultLimit
	}
	if limit > h.maxLimit {
		return h.maxLimit
	}
	return limit
}

// Recent handles GET /api/v1/predictions/recent
func (h *HistoryHandler) Recent(c *gin.Context) {
	logs, err := h.predictionService.RecentPredictions(c.Request.Context(), h.limit(c))
	if err != nil {
		writeHistoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"predictions": logs})
}

// Similar handles GET /api/v1/predictions/:id/similar
func (h *HistoryHandler) Similar(c *gin.Context) {
	logs, err := h.predictionService.SimilarPredictions(c.Request.Context(), c.Param("id"), h.limit(c))
	if err != nil {
		writeHistoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"predictions": logs})
}

func writeHistoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPredictionLogDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrPredictionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Prediction not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load predictions: " + err.Error()})
	}
}
