package services

import (
	"time"

	"github.com/smartengage/smartengage-go/internal/domain/visitor"
	"github.com/smartengage/smartengage-go/internal/infrastructure/caching"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/performance"
)

// TriggerService folds client-observed signals into each popup's per-page
// trigger machine and decides the display moment. A popup fires at most
// once per page load; the frequency gate is re-applied at fire time so a
// popup shown elsewhere in the meantime stays suppressed.
type TriggerService struct {
	popups    *PopupService
	frequency *FrequencyService
	sessions  *caching.VisitorStateManager
	logger    *logging.ChanneledLogger
	tracker   *performance.Tracker
}

// NewTriggerService creates a trigger service.
func NewTriggerService(
	popups *PopupService,
	frequency *FrequencyService,
	sessions *caching.VisitorStateManager,
	logger *logging.ChanneledLogger,
	tracker *performance.Tracker,
) *TriggerService {
	return &TriggerService{
		popups:    popups,
		frequency: frequency,
		sessions:  sessions,
		logger:    logger,
		tracker:   tracker,
	}
}

// HandleSignal processes one signal for a popup on a page load and reports
// whether the popup should be shown now. After the first true result the
// machine is fired and every later signal is a no-op.
func (s *TriggerService) HandleSignal(ctx *visitor.RequestContext, popupID, pageLoadID string, sig visitor.Signal) (bool, error) {
	marker := s.tracker.StartOperation("trigger_signal")
	defer marker.Complete()

	cfg, err := s.popups.GetByID(popupID)
	if err != nil {
		marker.SetError(err)
		return false, err
	}
	if !cfg.IsEnabled() {
		marker.SetSuccess(true)
		return false, nil
	}

	session := s.sessions.GetOrCreateSession(ctx.SessionID, ctx.VisitorID)
	machine := session.Machine(popupID, pageLoadID)

	fired := machine.Apply(cfg.Triggers, sig)
	if !fired {
		marker.SetSuccess(true)
		return false, nil
	}

	now := time.Now().UTC()
	if !s.frequency.MayShow(cfg, ctx, now) {
		marker.SetSuccess(true)
		s.logger.Popup().Debug("Trigger fired but frequency gate suppressed",
			"popupId", popupID, "visitorId", ctx.VisitorID)
		return false, nil
	}

	s.frequency.RecordShown(cfg, ctx, now)
	marker.SetSuccess(true)
	s.logger.Popup().Debug("Popup display fired",
		"popupId", popupID, "sessionId", ctx.SessionID, "pageLoadId", pageLoadID)
	return true, nil
}
