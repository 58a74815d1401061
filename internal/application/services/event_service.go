package services

import (
	"time"

	"github.com/smartengage/smartengage-go/internal/domain/analytics"
	"github.com/smartengage/smartengage-go/internal/domain/visitor"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
	"github.com/smartengage/smartengage-go/internal/infrastructure/security"
	"github.com/smartengage/smartengage-go/pkg/config"
)

// RequestMeta is the implicit request metadata captured at the ingestion
// boundary alongside an event submission.
type RequestMeta struct {
	RemoteAddr string
	UserAgent  string
	Referrer   string
}

// EventService records impression and conversion events. Writes are
// fire-and-forget: validation happens on the caller's path, the append
// happens on a background goroutine and failures are logged, never
// surfaced to the visitor. Duplicate submissions are counted twice.
type EventService struct {
	repo   analytics.EventRepository
	popups *PopupService
	logger *logging.ChanneledLogger
}

// NewEventService creates an event service.
func NewEventService(repo analytics.EventRepository, popups *PopupService, logger *logging.ChanneledLogger) *EventService {
	return &EventService{
		repo:   repo,
		popups: popups,
		logger: logger,
	}
}

// RecordEvent validates and enqueues one event. It returns
// analytics.ErrUnknownPopup for an unknown popup id and
// analytics.ErrInvalidEventType for a bad event type; the store append
// itself never blocks the caller.
func (s *EventService) RecordEvent(popupID string, eventType analytics.EventType, meta RequestMeta) error {
	if !eventType.IsValid() {
		return analytics.ErrInvalidEventType
	}

	known, err := s.popups.Exists(popupID)
	if err != nil {
		// Store unreachable: drop and log, do not block rendering.
		s.logger.Events().Warn("Popup lookup failed, dropping event",
			"popupId", popupID, "eventType", eventType, "error", err.Error())
		return nil
	}
	if !known {
		s.logger.Events().Warn("Event for unknown popup rejected", "popupId", popupID, "eventType", eventType)
		return analytics.ErrUnknownPopup
	}

	event := s.buildEvent(popupID, eventType, meta, time.Now().UTC())

	go func() {
		if err := s.repo.StoreEvent(event); err != nil {
			s.logger.Events().Error("Event store append failed",
				"popupId", popupID, "eventType", eventType, "error", err.Error())
		}
	}()
	return nil
}

func (s *EventService) buildEvent(popupID string, eventType analytics.EventType, meta RequestMeta, now time.Time) *analytics.Event {
	event := &analytics.Event{
		ID:        security.GenerateULID(),
		PopupID:   popupID,
		EventType: eventType,
		CreatedAt: now,
		Referrer:  meta.Referrer,
	}
	if config.AnonymizeEvents {
		event.AnonymizedIP = security.AnonymizeIP(meta.RemoteAddr)
		event.UserAgent = visitor.TruncateUserAgent(meta.UserAgent)
	} else {
		event.AnonymizedIP = meta.RemoteAddr
		event.UserAgent = meta.UserAgent
	}
	return event
}
