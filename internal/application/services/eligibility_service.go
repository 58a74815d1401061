package services

import (
	"time"

	"github.com/smartengage/smartengage-go/internal/domain/popup"
	"github.com/smartengage/smartengage-go/internal/domain/visitor"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/performance"
)

// CandidatePopup is one popup that passed targeting and frequency for a
// request. The client drives its trigger machine from the triggers block.
type CandidatePopup struct {
	ID       string         `json:"id"`
	Display  popup.Display  `json:"display"`
	Triggers popup.Triggers `json:"triggers"`
	Content  string         `json:"content,omitempty"`
}

// EligibilityService builds the candidate popup set for one page view:
// enabled popups, filtered by targeting, then by the frequency gate.
type EligibilityService struct {
	popups    *PopupService
	targeting *TargetingService
	frequency *FrequencyService
	logger    *logging.ChanneledLogger
	tracker   *performance.Tracker
}

// NewEligibilityService creates an eligibility service.
func NewEligibilityService(
	popups *PopupService,
	targeting *TargetingService,
	frequency *FrequencyService,
	logger *logging.ChanneledLogger,
	tracker *performance.Tracker,
) *EligibilityService {
	return &EligibilityService{
		popups:    popups,
		targeting: targeting,
		frequency: frequency,
		logger:    logger,
		tracker:   tracker,
	}
}

// Evaluate returns the popups that may be offered to this page view. An
// empty result is normal, not an error.
func (s *EligibilityService) Evaluate(ctx *visitor.RequestContext) ([]CandidatePopup, error) {
	marker := s.tracker.StartOperation("eligibility_evaluate")
	defer marker.Complete()

	configs, err := s.popups.GetEnabled()
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	now := time.Now().UTC()
	candidates := make([]CandidatePopup, 0, len(configs))
	for _, cfg := range configs {
		if !s.targeting.IsEligible(cfg, ctx) {
			continue
		}
		if !s.frequency.MayShow(cfg, ctx, now) {
			continue
		}
		candidates = append(candidates, CandidatePopup{
			ID:       cfg.ID,
			Display:  cfg.Display,
			Triggers: cfg.Triggers,
			Content:  cfg.Content,
		})
	}

	marker.AddMetadata("evaluated", len(configs))
	marker.AddMetadata("candidates", len(candidates))
	marker.SetSuccess(true)

	s.logger.Popup().Debug("Eligibility evaluated",
		"visitorId", ctx.VisitorID, "url", ctx.URL,
		"evaluated", len(configs), "candidates", len(candidates))
	return candidates, nil
}
