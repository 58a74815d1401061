package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartengage/smartengage-go/internal/application/services"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/performance"
	"github.com/smartengage/smartengage-go/internal/presentation/http/middleware"
)

// VisitHandlers contains the visit and session HTTP handlers
type VisitHandlers struct {
	sessionService *services.SessionService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewVisitHandlers creates visit handlers with injected dependencies
func NewVisitHandlers(sessionService *services.SessionService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *VisitHandlers {
	return &VisitHandlers{
		sessionService: sessionService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// VisitRequest represents the structure for visit requests. Identifiers may
// also arrive via headers; the body wins when both are present.
type VisitRequest struct {
	VisitorID string `json:"visitorId,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// PostVisit handles POST /api/v1/visit
func (h *VisitHandlers) PostVisit(c *gin.Context) {
	marker := h.perfTracker.StartOperation("visit")
	defer marker.Complete()

	ctx := middleware.GetRequestContext(c)

	var req VisitRequest
	_ = c.ShouldBindJSON(&req)
	if req.VisitorID == "" {
		req.VisitorID = ctx.VisitorID
	}
	if req.SessionID == "" {
		req.SessionID = ctx.SessionID
	}

	result := h.sessionService.Visit(req.VisitorID, req.SessionID)

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, result)
}
