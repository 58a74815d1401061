package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/smartengage/smartengage-go/internal/domain/popup"
	"github.com/smartengage/smartengage-go/internal/domain/visitor"
	"github.com/smartengage/smartengage-go/internal/infrastructure/caching"
)

type fakeStateStore struct {
	states  map[string]*visitor.FrequencyState
	failing bool
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{states: make(map[string]*visitor.FrequencyState)}
}

func (f *fakeStateStore) Get(visitorID, popupID string) (*visitor.FrequencyState, error) {
	if f.failing {
		return nil, errors.New("store unreachable")
	}
	if state, ok := f.states[visitorID+"|"+popupID]; ok {
		copied := *state
		return &copied, nil
	}
	return &visitor.FrequencyState{VisitorID: visitorID, PopupID: popupID}, nil
}

func (f *fakeStateStore) Save(state *visitor.FrequencyState) error {
	if f.failing {
		return errors.New("store unreachable")
	}
	copied := *state
	f.states[state.VisitorID+"|"+state.PopupID] = &copied
	return nil
}

func TestEvaluateFrequencyMaxImpressions(t *testing.T) {
	freq := popup.Frequency{Rule: popup.FreqMaxImpressions, N: 3}
	now := time.Now().UTC()

	assert.True(t, EvaluateFrequency(freq, &visitor.FrequencyState{ImpressionCount: 2}, now))
	assert.False(t, EvaluateFrequency(freq, &visitor.FrequencyState{ImpressionCount: 3}, now))
}

func TestEvaluateFrequencyEveryNDays(t *testing.T) {
	freq := popup.Frequency{Rule: popup.FreqEveryNDays, N: 7}
	now := time.Now().UTC()

	sixDaysAgo := now.Add(-6 * 24 * time.Hour)
	sevenDaysAgo := now.Add(-7 * 24 * time.Hour)
	eightDaysAgo := now.Add(-8 * 24 * time.Hour)

	assert.False(t, EvaluateFrequency(freq, &visitor.FrequencyState{LastShownAt: &sixDaysAgo}, now))
	assert.True(t, EvaluateFrequency(freq, &visitor.FrequencyState{LastShownAt: &sevenDaysAgo}, now))
	assert.True(t, EvaluateFrequency(freq, &visitor.FrequencyState{LastShownAt: &eightDaysAgo}, now))
	assert.True(t, EvaluateFrequency(freq, &visitor.FrequencyState{}, now), "never shown passes")
}

func TestEvaluateFrequencyEveryTimeAndSession(t *testing.T) {
	now := time.Now().UTC()

	everyTime := popup.Frequency{Rule: popup.FreqEveryTime}
	assert.True(t, EvaluateFrequency(everyTime, &visitor.FrequencyState{ImpressionCount: 999, SessionShown: true}, now))

	oncePerSession := popup.Frequency{Rule: popup.FreqOncePerSession}
	assert.True(t, EvaluateFrequency(oncePerSession, &visitor.FrequencyState{}, now))
	assert.False(t, EvaluateFrequency(oncePerSession, &visitor.FrequencyState{SessionShown: true}, now))
}

func TestAdvanceFrequency(t *testing.T) {
	now := time.Now().UTC()
	state := &visitor.FrequencyState{ImpressionCount: 1}

	AdvanceFrequency(state, now)

	assert.True(t, state.SessionShown)
	assert.Equal(t, 2, state.ImpressionCount)
	assert.Equal(t, now, *state.LastShownAt)
}

func TestMayShowFailsOpenOnStorageError(t *testing.T) {
	store := newFakeStateStore()
	store.failing = true
	sessions := caching.NewVisitorStateManager(newTestLogger())
	svc := NewFrequencyService(store, sessions, newTestLogger())

	cfg := &popup.Config{ID: "p1", Status: popup.StatusEnabled, Frequency: popup.Frequency{Rule: popup.FreqMaxImpressions, N: 1}}
	cfg.Normalize()
	ctx := &visitor.RequestContext{VisitorID: "v1", SessionID: "s1"}

	assert.True(t, svc.MayShow(cfg, ctx, time.Now().UTC()),
		"unreachable state store must not suppress popups")
}

func TestOncePerSessionAcrossSessions(t *testing.T) {
	store := newFakeStateStore()
	sessions := caching.NewVisitorStateManager(newTestLogger())
	svc := NewFrequencyService(store, sessions, newTestLogger())

	cfg := &popup.Config{ID: "p1", Status: popup.StatusEnabled, Frequency: popup.Frequency{Rule: popup.FreqOncePerSession}}
	cfg.Normalize()
	now := time.Now().UTC()

	firstSession := &visitor.RequestContext{VisitorID: "v1", SessionID: "s1"}
	sessions.GetOrCreateSession("s1", "v1")

	assert.True(t, svc.MayShow(cfg, firstSession, now), "fresh session may show")

	svc.RecordShown(cfg, firstSession, now)
	assert.False(t, svc.MayShow(cfg, firstSession, now), "same session suppressed after showing")

	secondSession := &visitor.RequestContext{VisitorID: "v1", SessionID: "s2"}
	sessions.GetOrCreateSession("s2", "v1")
	assert.True(t, svc.MayShow(cfg, secondSession, now), "new session resets the session flag")
}

func TestRecordShownPersistsDurableState(t *testing.T) {
	store := newFakeStateStore()
	sessions := caching.NewVisitorStateManager(newTestLogger())
	svc := NewFrequencyService(store, sessions, newTestLogger())

	cfg := &popup.Config{ID: "p1", Status: popup.StatusEnabled, Frequency: popup.Frequency{Rule: popup.FreqMaxImpressions, N: 2}}
	cfg.Normalize()
	ctx := &visitor.RequestContext{VisitorID: "v1", SessionID: "s1"}
	now := time.Now().UTC()

	svc.RecordShown(cfg, ctx, now)
	svc.RecordShown(cfg, ctx, now)

	assert.False(t, svc.MayShow(cfg, ctx, now), "impression cap reached")

	state, err := store.Get("v1", "p1")
	assert.NoError(t, err)
	assert.Equal(t, 2, state.ImpressionCount)
	assert.NotNil(t, state.LastShownAt)
}
