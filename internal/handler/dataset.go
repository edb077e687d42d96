package handler

import (
	"errors"
	"net/http"
	"strconv"

	"medpremium/internal/model"
	"medpremium/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultHistogramBins = 30
	maxHistogramBins     = 200
	xlsxContentType      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// DatasetHandler serves dataset exploration and chart data
type DatasetHandler struct {
	dataset    *service.Dataset
	previewMax int
	logger     *zap.Logger
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(dataset *service.Dataset, previewMax int, logger *zap.Logger) *DatasetHandler {
	return &DatasetHandler{
		dataset:    dataset,
		previewMax: previewMax,
		logger:     logger,
	}
}

// Preview handles GET /api/v1/dataset?limit=N
func (h *DatasetHandler) Preview(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}
	if limit < 0 {
		limit = 0
	}
	if limit > h.previewMax {
		limit = h.previewMax
	}

	c.JSON(http.StatusOK, h.dataset.Head(limit))
}

// Summary handles GET /api/v1/dataset/summary
func (h *DatasetHandler) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rows": h.dataset.Len(), "summary": h.dataset.Describe()})
}

// Correlation handles GET /api/v1/dataset/correlation
func (h *DatasetHandler) Correlation(c *gin.Context) {
	c.JSON(http.StatusOK, h.dataset.Correlation())
}

// Histogram handles GET /api/v1/dataset/histogram?column=&bins=
func (h *DatasetHandler) Histogram(c *gin.Context) {
	column := c.DefaultQuery("column", model.ColumnPremiumPrice)
	bins, err := strconv.Atoi(c.DefaultQuery("bins", strconv.Itoa(defaultHistogramBins)))
	if err != nil || bins <= 0 || bins > maxHistogramBins {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bins must be between 1 and " + strconv.Itoa(maxHistogramBins)})
		return
	}

	hist, err := h.dataset.Histogram(column, bins)
	if err != nil {
		h.writeColumnError(c, err)
		return
	}
	c.JSON(http.StatusOK, hist)
}

// Scatter handles GET /api/v1/dataset/scatter?x=&y=
func (h *DatasetHandler) Scatter(c *gin.Context) {
	x := c.DefaultQuery("x", model.FeatureAge)
	y := c.DefaultQuery("y", model.ColumnPremiumPrice)

	points, err := h.dataset.Scatter(x, y)
	if err != nil {
		h.writeColumnError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

// Counts handles GET /api/v1/dataset/counts?label=&group=
func (h *DatasetHandler) Counts(c *gin.Context) {
	label := c.DefaultQuery("label", model.ColumnPremiumPrice)
	group := c.DefaultQuery("group", model.FeatureAnyTransplants)

	counts, err := h.dataset.LabelCounts(label, group)
	if err != nil {
		h.writeColumnError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// Export handles GET /api/v1/dataset/export
func (h *DatasetHandler) Export(c *gin.Context) {
	data, err := service.ExportWorkbook(h.dataset)
	if err != nil {
		h.logger.Error("failed to export dataset", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed: " + err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="medical_premium.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *DatasetHandler) writeColumnError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrUnknownColumn) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "columns": h.dataset.Columns()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
