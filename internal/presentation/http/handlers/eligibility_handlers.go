package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartengage/smartengage-go/internal/application/services"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/performance"
	"github.com/smartengage/smartengage-go/internal/presentation/http/middleware"
)

// EligibilityHandlers contains the popup eligibility HTTP handlers
type EligibilityHandlers struct {
	eligibilityService *services.EligibilityService
	logger             *logging.ChanneledLogger
	perfTracker        *performance.Tracker
}

// NewEligibilityHandlers creates eligibility handlers with injected dependencies
func NewEligibilityHandlers(eligibilityService *services.EligibilityService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *EligibilityHandlers {
	return &EligibilityHandlers{
		eligibilityService: eligibilityService,
		logger:             logger,
		perfTracker:        perfTracker,
	}
}

// EligibilityRequest carries the page-level context the client observes.
// Boundary-level fields (device, cookies, identity) come from the request
// itself via middleware.
type EligibilityRequest struct {
	URL      string `json:"url" binding:"required"`
	Referrer string `json:"referrer,omitempty"`
	PostType string `json:"postType,omitempty"`
}

// PostEligibility handles POST /api/v1/eligibility
func (h *EligibilityHandlers) PostEligibility(c *gin.Context) {
	var req EligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	ctx := middleware.GetRequestContext(c)
	ctx.URL = req.URL
	ctx.PostType = req.PostType
	if req.Referrer != "" {
		ctx.Referrer = req.Referrer
	}

	candidates, err := h.eligibilityService.Evaluate(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "evaluation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"popups": candidates})
}
