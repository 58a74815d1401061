package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smartengage/smartengage-go/internal/domain/popup"
	"github.com/smartengage/smartengage-go/internal/domain/visitor"
	"github.com/smartengage/smartengage-go/internal/infrastructure/caching"
)

func newTriggerFixture(t *testing.T, cfg *popup.Config) (*TriggerService, *caching.VisitorStateManager) {
	t.Helper()
	logger := newTestLogger()
	sessions := caching.NewVisitorStateManager(logger)
	frequency := NewFrequencyService(newFakeStateStore(), sessions, logger)
	popups := newTestPopupService(cfg)
	return NewTriggerService(popups, frequency, sessions, logger, newTestTracker()), sessions
}

func TestHandleSignalFiresOncePerPageLoad(t *testing.T) {
	cfg := &popup.Config{
		ID:     "p1",
		Status: popup.StatusEnabled,
		Triggers: popup.Triggers{
			Combinator: popup.CombinatorAny,
			Conditions: popup.TriggerConditions{ScrollDepth: intPtr(50)},
		},
		Frequency: popup.Frequency{Rule: popup.FreqEveryTime},
	}
	svc, _ := newTriggerFixture(t, cfg)
	ctx := &visitor.RequestContext{VisitorID: "v1", SessionID: "s1"}

	show, err := svc.HandleSignal(ctx, "p1", "pl1", visitor.Signal{ScrollDepth: intPtr(20)})
	assert.NoError(t, err)
	assert.False(t, show)

	show, err = svc.HandleSignal(ctx, "p1", "pl1", visitor.Signal{ScrollDepth: intPtr(75)})
	assert.NoError(t, err)
	assert.True(t, show)

	// Further signals on the same page load are no-ops.
	show, err = svc.HandleSignal(ctx, "p1", "pl1", visitor.Signal{ScrollDepth: intPtr(100)})
	assert.NoError(t, err)
	assert.False(t, show)
}

func TestHandleSignalNewPageLoadGetsFreshMachine(t *testing.T) {
	cfg := &popup.Config{
		ID:     "p1",
		Status: popup.StatusEnabled,
		Triggers: popup.Triggers{
			Combinator: popup.CombinatorAny,
			Conditions: popup.TriggerConditions{ExitIntent: true},
		},
		Frequency: popup.Frequency{Rule: popup.FreqEveryTime},
	}
	svc, _ := newTriggerFixture(t, cfg)
	ctx := &visitor.RequestContext{VisitorID: "v1", SessionID: "s1"}

	show, _ := svc.HandleSignal(ctx, "p1", "pl1", visitor.Signal{ExitIntent: true})
	assert.True(t, show)

	show, _ = svc.HandleSignal(ctx, "p1", "pl2", visitor.Signal{ExitIntent: true})
	assert.True(t, show, "a new page load starts a fresh machine")
}

func TestHandleSignalRespectsFrequencyGate(t *testing.T) {
	cfg := &popup.Config{
		ID:     "p1",
		Status: popup.StatusEnabled,
		Triggers: popup.Triggers{
			Combinator: popup.CombinatorAny,
			Conditions: popup.TriggerConditions{ExitIntent: true},
		},
		Frequency: popup.Frequency{Rule: popup.FreqOncePerSession},
	}
	svc, sessions := newTriggerFixture(t, cfg)
	ctx := &visitor.RequestContext{VisitorID: "v1", SessionID: "s1"}
	sessions.GetOrCreateSession("s1", "v1")

	show, _ := svc.HandleSignal(ctx, "p1", "pl1", visitor.Signal{ExitIntent: true})
	assert.True(t, show)

	// Next page load in the same session: trigger fires, gate suppresses.
	show, _ = svc.HandleSignal(ctx, "p1", "pl2", visitor.Signal{ExitIntent: true})
	assert.False(t, show)
}

func TestHandleSignalUnknownPopup(t *testing.T) {
	svc, _ := newTriggerFixture(t, &popup.Config{ID: "p1", Status: popup.StatusEnabled})
	ctx := &visitor.RequestContext{VisitorID: "v1", SessionID: "s1"}

	_, err := svc.HandleSignal(ctx, "ghost", "pl1", visitor.Signal{})
	assert.ErrorIs(t, err, popup.ErrNotFound)
}

func TestHandleSignalDisabledPopupNeverShows(t *testing.T) {
	svc, _ := newTriggerFixture(t, &popup.Config{ID: "p1", Status: popup.StatusDisabled})
	ctx := &visitor.RequestContext{VisitorID: "v1", SessionID: "s1"}

	show, err := svc.HandleSignal(ctx, "p1", "pl1", visitor.Signal{ExitIntent: true})
	assert.NoError(t, err)
	assert.False(t, show)
}
