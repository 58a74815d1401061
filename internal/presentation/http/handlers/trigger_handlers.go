package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartengage/smartengage-go/internal/application/services"
	"github.com/smartengage/smartengage-go/internal/domain/popup"
	"github.com/smartengage/smartengage-go/internal/domain/visitor"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/performance"
	"github.com/smartengage/smartengage-go/internal/presentation/http/middleware"
)

// TriggerHandlers contains the trigger signal HTTP handlers
type TriggerHandlers struct {
	triggerService *services.TriggerService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewTriggerHandlers creates trigger handlers with injected dependencies
func NewTriggerHandlers(triggerService *services.TriggerService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *TriggerHandlers {
	return &TriggerHandlers{
		triggerService: triggerService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// SignalRequest carries one trigger observation from the client.
type SignalRequest struct {
	PopupID    string         `json:"popupId" binding:"required"`
	PageLoadID string         `json:"pageLoadId" binding:"required"`
	Signal     visitor.Signal `json:"signal"`
}

// PostSignal handles POST /api/v1/triggers/signal
func (h *TriggerHandlers) PostSignal(c *gin.Context) {
	var req SignalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "popupId and pageLoadId are required"})
		return
	}

	ctx := middleware.GetRequestContext(c)
	if ctx.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session id is required"})
		return
	}

	show, err := h.triggerService.HandleSignal(ctx, req.PopupID, req.PageLoadID, req.Signal)
	if err != nil {
		if errors.Is(err, popup.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "popup not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signal processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"show": show})
}
