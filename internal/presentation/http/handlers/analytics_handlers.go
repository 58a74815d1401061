package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartengage/smartengage-go/internal/application/services"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/performance"
)

// AnalyticsHandlers contains the analytics reporting HTTP handlers
type AnalyticsHandlers struct {
	analyticsService *services.AnalyticsService
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
}

// NewAnalyticsHandlers creates analytics handlers with injected dependencies
func NewAnalyticsHandlers(analyticsService *services.AnalyticsService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		analyticsService: analyticsService,
		logger:           logger,
		perfTracker:      perfTracker,
	}
}

// GetReport handles GET /api/v1/analytics/report
//
// Query params: popupId (optional), startDate, endDate as YYYY-MM-DD
// (optional, defaults to the configured trailing window).
func (h *AnalyticsHandlers) GetReport(c *gin.Context) {
	start, ok := parseDateParam(c, "startDate")
	if !ok {
		return
	}
	end, ok := parseDateParam(c, "endDate")
	if !ok {
		return
	}

	report, err := h.analyticsService.GetAnalytics(c.Query("popupId"), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetSummary handles GET /api/v1/analytics/summary. Totals across all
// popups over the default trailing window.
func (h *AnalyticsHandlers) GetSummary(c *gin.Context) {
	report, err := h.analyticsService.GetAnalytics("", nil, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "summary generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"startDate":   report.StartDate,
		"endDate":     report.EndDate,
		"impressions": report.Impressions,
		"conversions": report.Conversions,
		"rate":        report.Rate,
		"popupCount":  len(report.Popups),
	})
}

// DeleteAnalytics handles DELETE /api/v1/analytics
func (h *AnalyticsHandlers) DeleteAnalytics(c *gin.Context) {
	cleared, err := h.analyticsService.ClearAnalytics()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear analytics"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"eventsRemoved": cleared})
}

func parseDateParam(c *gin.Context, name string) (*time.Time, bool) {
	value := c.Query(name)
	if value == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be YYYY-MM-DD"})
		return nil, false
	}
	return &t, true
}
