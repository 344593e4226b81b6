package handlers

import (
	"net/http"
	"time"

	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/monitoring"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// SystemHandlers serve health and operator endpoints.
type SystemHandlers struct {
	scores      *stores.ScoreStore
	reports     *stores.ReportStore
	monitor     *monitoring.CachePerformanceMonitor
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewSystemHandlers creates system handlers with injected dependencies
func NewSystemHandlers(
	scores *stores.ScoreStore,
	reports *stores.ReportStore,
	monitor *monitoring.CachePerformanceMonitor,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *SystemHandlers {
	return &SystemHandlers{
		scores:      scores,
		reports:     reports,
		monitor:     monitor,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetHealth handles GET /health
func (h *SystemHandlers) GetHealth(c *gin.Context) {
	body := gin.H{
		"status":        "ok",
		"scoresLoaded":  false,
		"cachedReports": h.reports.Len(),
	}
	if corpus, ok := h.scores.Peek(); ok {
		age, _ := h.scores.Age()
		body["scoresLoaded"] = true
		body["scoresAge"] = age.Round(time.Second).String()
		body["items"] = len(corpus.Scores)
		body["synthetic"] = corpus.Synthetic
	}
	c.JSON(http.StatusOK, body)
}

// GetPerformance handles GET /api/v1/seo/admin/performance
func (h *SystemHandlers) GetPerformance(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"performance": h.perfTracker.GetOverallStats(),
		"cache":       h.monitor.GetCacheHealth(),
	})
}

// GetLogLevels handles GET /api/v1/seo/admin/logs/levels
func (h *SystemHandlers) GetLogLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"levels": h.logger.GetChannelLevels()})
}

// PostLogLevel handles POST /api/v1/seo/admin/logs/levels
func (h *SystemHandlers) PostLogLevel(c *gin.Context) {
	var req struct {
		Channel string `json:"channel" binding:"required"`
		Level   string `json:"level" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.logger.SetChannelLevel(logging.Channel(req.Channel), logging.ParseLevel(req.Level)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"levels": h.logger.GetChannelLevels()})
}
