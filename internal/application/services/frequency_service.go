package services

import (
	"time"

	"github.com/smartengage/smartengage-go/internal/domain/popup"
	"github.com/smartengage/smartengage-go/internal/domain/visitor"
	"github.com/smartengage/smartengage-go/internal/infrastructure/caching"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
)

// StateStore is the durable half of the frequency state. The session half
// lives in the visitor state manager.
type StateStore interface {
	Get(visitorID, popupID string) (*visitor.FrequencyState, error)
	Save(state *visitor.FrequencyState) error
}

// FrequencyService applies the per-popup suppression rule against a
// visitor's frequency state. Storage failures degrade to fail-open: it is
// better to over-show than to let an unreachable store suppress everything.
type FrequencyService struct {
	states   StateStore
	sessions *caching.VisitorStateManager
	logger   *logging.ChanneledLogger
}

// NewFrequencyService creates a frequency service.
func NewFrequencyService(states StateStore, sessions *caching.VisitorStateManager, logger *logging.ChanneledLogger) *FrequencyService {
	return &FrequencyService{
		states:   states,
		sessions: sessions,
		logger:   logger,
	}
}

// MayShow reports whether the popup's frequency rule permits showing it to
// this visitor now.
func (s *FrequencyService) MayShow(cfg *popup.Config, ctx *visitor.RequestContext, now time.Time) bool {
	state, err := s.loadState(ctx, cfg.ID)
	if err != nil {
		s.logger.Popup().Warn("Frequency state unavailable, failing open",
			"popupId", cfg.ID, "visitorId", ctx.VisitorID, "error", err.Error())
		return true
	}
	return EvaluateFrequency(cfg.Frequency, state, now)
}

// RecordShown advances the visitor's frequency state after a popup was
// actually displayed. The update is independent of whether the matching
// impression event reaches the event store.
func (s *FrequencyService) RecordShown(cfg *popup.Config, ctx *visitor.RequestContext, now time.Time) {
	if session, ok := s.sessions.Session(ctx.SessionID); ok {
		session.MarkShown(cfg.ID)
	}

	state, err := s.states.Get(ctx.VisitorID, cfg.ID)
	if err != nil {
		s.logger.Popup().Warn("Frequency state load failed, impression not counted",
			"popupId", cfg.ID, "visitorId", ctx.VisitorID, "error", err.Error())
		return
	}
	AdvanceFrequency(state, now)
	if err := s.states.Save(state); err != nil {
		s.logger.Popup().Warn("Frequency state save failed",
			"popupId", cfg.ID, "visitorId", ctx.VisitorID, "error", err.Error())
	}
}

func (s *FrequencyService) loadState(ctx *visitor.RequestContext, popupID string) (*visitor.FrequencyState, error) {
	state, err := s.states.Get(ctx.VisitorID, popupID)
	if err != nil {
		return nil, err
	}
	if session, ok := s.sessions.Session(ctx.SessionID); ok {
		state.SessionShown = session.WasShown(popupID)
	}
	return state, nil
}

// EvaluateFrequency is the pure rule check: may this popup be shown given
// the visitor's state at time now.
func EvaluateFrequency(freq popup.Frequency, state *visitor.FrequencyState, now time.Time) bool {
	switch freq.Rule {
	case popup.FreqOncePerSession:
		return !state.SessionShown
	case popup.FreqEveryNDays:
		if state.LastShownAt == nil {
			return true
		}
		return now.Sub(*state.LastShownAt) >= time.Duration(freq.N)*24*time.Hour
	case popup.FreqMaxImpressions:
		return state.ImpressionCount < freq.N
	default:
		// every_time
		return true
	}
}

// AdvanceFrequency applies a shown event to the state in place. Every rule
// keeps the impression counter and last-shown timestamp current so that
// switching a popup's rule later still sees accurate history.
func AdvanceFrequency(state *visitor.FrequencyState, now time.Time) {
	shownAt := now
	state.SessionShown = true
	state.LastShownAt = &shownAt
	state.ImpressionCount++
}
