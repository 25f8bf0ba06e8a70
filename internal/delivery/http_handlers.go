package delivery

import (
	"context"
	"net/http"
	"time"

	"solaretl/internal/domain"
	"solaretl/internal/usecase"
	"solaretl/pkg/config"
	"solaretl/pkg/logger"
	"solaretl/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// handles HTTP requests
type HTTPHandlers struct {
	pipeline *usecase.Pipeline
	runs     domain.RunRepository
	cfg      *config.Config
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

// creates new HTTP handlers
func NewHTTPHandlers(
	pipeline *usecase.Pipeline,
	runs domain.RunRepository,
	cfg *config.Config,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *HTTPHandlers {
	return &HTTPHandlers{
		pipeline: pipeline,
		runs:     runs,
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
	}
}

// PipelineRun triggers a single-date pipeline run; date defaults to yesterday
func (h *HTTPHandlers) PipelineRun(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := uuid.New().String()
	ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)

	date := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			h.metrics.RecordHTTPRequest("POST", "/pipeline/run", "400", time.Since(start))
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      "Invalid date format",
				"message":    "Date must be in YYYY-MM-DD format",
				"request_id": requestID,
			})
			return
		}
		date = parsed
	}

	if err := h.pipeline.RunDate(ctx, date); err != nil {
		h.metrics.RecordHTTPRequest("POST", "/pipeline/run", "500", time.Since(start))
		h.logger.WithContext(ctx).WithError(err).Error("Pipeline run failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Pipeline run failed",
			"message":    err.Error(),
			"date":       date.Format("2006-01-02"),
			"request_id": requestID,
		})
		return
	}

	h.metrics.RecordHTTPRequest("POST", "/pipeline/run", "200", time.Since(start))
	c.JSON(http.StatusOK, gin.H{
		"message":    "Pipeline run completed successfully",
		"date":       date.Format("2006-01-02"),
		"request_id": requestID,
	})
}

// BackfillRun triggers a sequential historical backfill
func (h *HTTPHandlers) BackfillRun(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := uuid.New().String()
	ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)

	from := h.cfg.Backfill.StartDate
	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			h.metrics.RecordHTTPRequest("POST", "/pipeline/backfill", "400", time.Since(start))
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      "Invalid date format",
				"message":    "from must be in YYYY-MM-DD format",
				"request_id": requestID,
			})
			return
		}
		from = parsed
	}

	to := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			h.metrics.RecordHTTPRequest("POST", "/pipeline/backfill", "400", time.Since(start))
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      "Invalid date format",
				"message":    "to must be in YYYY-MM-DD format",
				"request_id": requestID,
			})
			return
		}
		to = parsed
	}

	summary, err := h.pipeline.RunBackfill(ctx, from, to)
	if err != nil {
		h.metrics.RecordHTTPRequest("POST", "/pipeline/backfill", "500", time.Since(start))
		h.logger.WithContext(ctx).WithError(err).Error("Backfill failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Backfill failed",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	h.metrics.RecordHTTPRequest("POST", "/pipeline/backfill", "200", time.Since(start))
	c.JSON(http.StatusOK, gin.H{
		"summary":    summary,
		"request_id": requestID,
	})
}

// ListRuns returns recorded per-date run outcomes
func (h *HTTPHandlers) ListRuns(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := uuid.New().String()
	ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)

	results, err := h.runs.List(ctx)
	if err != nil {
		h.metrics.RecordHTTPRequest("GET", "/runs", "500", time.Since(start))
		h.logger.WithContext(ctx).WithError(err).Error("Failed to list runs")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to list runs",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	h.metrics.RecordHTTPRequest("GET", "/runs", "200", time.Since(start))
	c.JSON(http.StatusOK, gin.H{
		"data":       results,
		"total":      len(results),
		"request_id": requestID,
	})
}

// HealthCheck returns the health status of the service
func (h *HTTPHandlers) HealthCheck(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	health := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "solaretl",
		"version":   "1.0.0",
	}

	h.metrics.RecordHTTPRequest("GET", "/health", "200", time.Since(start))
	c.JSON(http.StatusOK, health)
}
