package handler

import (
	"errors"
	"net/http"

	"medpremium/internal/model"
	"medpremium/internal/service"

	"github.com/gin-gonic/gin"
)

// PredictHandler handles premium prediction and BMI requests
type PredictHandler struct {
	predictionService *service.PredictionService
}

// NewPredictHandler creates a new predict handler
func NewPredictHandler(predictionService *service.PredictionService) *PredictHandler {
	return &PredictHandler{predictionService: predictionService}
}

// Predict handles POST /api/v1/predict
func (h *PredictHandler) Predict(c *gin.Context) {
	var req model.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.predictionService.Predict(c.Request.Context(), &req)
	if err != nil {
		writeInputError(c, err, "Prediction failed: ")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Tiers handles GET /api/v1/tiers
func (h *PredictHandler) Tiers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tiers": model.TierTable()})
}

// BMI handles POST /api/v1/bmi
func (h *PredictHandler) BMI(c *gin.Context) {
	var req model.BMIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.predictionService.CheckBMI(&req)
	if err != nil {
		writeInputError(c, err, "BMI check failed: ")
		return
	}

	c.JSON(http.StatusOK, result)
}

// BMICategories handles GET /api/v1/bmi/categories
func (h *PredictHandler) BMICategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": model.BMIBands()})
}

// writeInputError maps assembler and tier errors to client responses.
// A missing tier is a warning, not a failure.
func writeInputError(c *gin.Context, err error, prefix string) {
	var inputErr *service.InputError
	switch {
	case errors.Is(err, model.ErrTierRequired):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"warning": err.Error()})
	case errors.Is(err, model.ErrUnknownTier):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "tiers": model.TierTable()})
	case errors.As(err, &inputErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "fields": inputErr.Fields})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": prefix + err.Error()})
	}
}
