package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartengage/smartengage-go/internal/application/services"
	"github.com/smartengage/smartengage-go/internal/domain/analytics"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/performance"
)

// EventHandlers contains the event ingestion HTTP handlers
type EventHandlers struct {
	eventService *services.EventService
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// NewEventHandlers creates event handlers with injected dependencies
func NewEventHandlers(eventService *services.EventService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *EventHandlers {
	return &EventHandlers{
		eventService: eventService,
		logger:       logger,
		perfTracker:  perfTracker,
	}
}

// EventRequest represents one impression or conversion submission.
type EventRequest struct {
	PopupID   string `json:"popupId" binding:"required"`
	EventType string `json:"eventType" binding:"required"`
}

// PostEvent handles POST /api/v1/events. The append itself is
// fire-and-forget; a 202 means the event passed validation, not that it
// reached the store.
func (h *EventHandlers) PostEvent(c *gin.Context) {
	marker := h.perfTracker.StartOperation("event_ingest")
	defer marker.Complete()

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "popupId and eventType are required"})
		return
	}

	meta := services.RequestMeta{
		RemoteAddr: c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
		Referrer:   c.GetHeader("Referer"),
	}

	err := h.eventService.RecordEvent(req.PopupID, analytics.EventType(req.EventType), meta)
	if err != nil {
		marker.SetError(err)
		switch {
		case errors.Is(err, analytics.ErrInvalidEventType):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event type"})
		case errors.Is(err, analytics.ErrUnknownPopup):
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown popup"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "event rejected"})
		}
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusAccepted, gin.H{"accepted": true})
}
