package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/smartengage/smartengage-go/internal/domain/popup"
	"github.com/smartengage/smartengage-go/internal/domain/visitor"
	"github.com/smartengage/smartengage-go/internal/infrastructure/caching"
)

func newEligibilityFixture(t *testing.T, configs ...*popup.Config) (*EligibilityService, *FrequencyService, *caching.VisitorStateManager) {
	t.Helper()
	logger := newTestLogger()
	sessions := caching.NewVisitorStateManager(logger)
	frequency := NewFrequencyService(newFakeStateStore(), sessions, logger)
	popups := newTestPopupService(configs...)
	targeting := NewTargetingService(logger)
	svc := NewEligibilityService(popups, targeting, frequency, logger, newTestTracker())
	return svc, frequency, sessions
}

func TestEvaluateFiltersByTargetingAndFrequency(t *testing.T) {
	mobileOnly := &popup.Config{
		ID:        "mobile-only",
		Status:    popup.StatusEnabled,
		Targeting: popup.Targeting{DeviceType: popup.DeviceMobile},
	}
	desktopOnly := &popup.Config{
		ID:        "desktop-only",
		Status:    popup.StatusEnabled,
		Targeting: popup.Targeting{DeviceType: popup.DeviceDesktop},
	}
	disabled := &popup.Config{ID: "disabled", Status: popup.StatusDisabled}

	svc, _, sessions := newEligibilityFixture(t, mobileOnly, desktopOnly, disabled)
	sessions.GetOrCreateSession("s1", "v1")

	ctx := &visitor.RequestContext{
		Device:    visitor.DeviceMobile,
		URL:       "/home",
		VisitorID: "v1",
		SessionID: "s1",
	}

	candidates, err := svc.Evaluate(ctx)
	assert.NoError(t, err)
	assert.Len(t, candidates, 1)
	assert.Equal(t, "mobile-only", candidates[0].ID)
}

func TestEvaluateEndToEndOncePerSession(t *testing.T) {
	cfg := &popup.Config{
		ID:        "p1",
		Status:    popup.StatusEnabled,
		Targeting: popup.Targeting{DeviceType: popup.DeviceMobile},
		Frequency: popup.Frequency{Rule: popup.FreqOncePerSession},
	}
	svc, frequency, sessions := newEligibilityFixture(t, cfg)

	ctx := &visitor.RequestContext{
		Device:    visitor.DeviceMobile,
		URL:       "/landing",
		VisitorID: "v1",
		SessionID: "s1",
	}
	sessions.GetOrCreateSession("s1", "v1")

	// Fresh session: eligible.
	candidates, err := svc.Evaluate(ctx)
	assert.NoError(t, err)
	assert.Len(t, candidates, 1)

	// Shown once: suppressed for the rest of the session.
	cfg.Normalize()
	frequency.RecordShown(cfg, ctx, time.Now().UTC())
	candidates, err = svc.Evaluate(ctx)
	assert.NoError(t, err)
	assert.Empty(t, candidates)

	// New session: eligible again.
	ctx2 := &visitor.RequestContext{
		Device:    visitor.DeviceMobile,
		URL:       "/landing",
		VisitorID: "v1",
		SessionID: "s2",
	}
	sessions.GetOrCreateSession("s2", "v1")
	candidates, err = svc.Evaluate(ctx2)
	assert.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestEvaluateReturnsTriggerConfigToClient(t *testing.T) {
	cfg := &popup.Config{
		ID:     "p1",
		Status: popup.StatusEnabled,
		Triggers: popup.Triggers{
			Combinator: popup.CombinatorAll,
			Conditions: popup.TriggerConditions{TimeOnPageSec: intPtr(5), ScrollDepth: intPtr(50)},
		},
		Content: "<div>offer</div>",
	}
	svc, _, sessions := newEligibilityFixture(t, cfg)
	sessions.GetOrCreateSession("s1", "v1")

	candidates, err := svc.Evaluate(&visitor.RequestContext{
		Device: visitor.DeviceDesktop, URL: "/", VisitorID: "v1", SessionID: "s1",
	})
	assert.NoError(t, err)
	assert.Len(t, candidates, 1)
	assert.Equal(t, popup.CombinatorAll, candidates[0].Triggers.Combinator)
	assert.Equal(t, 5, *candidates[0].Triggers.Conditions.TimeOnPageSec)
	assert.Equal(t, "<div>offer</div>", candidates[0].Content)
}
