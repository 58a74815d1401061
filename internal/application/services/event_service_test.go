package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/smartengage/smartengage-go/internal/domain/analytics"
	"github.com/smartengage/smartengage-go/internal/domain/popup"
)

type fakePopupRepo struct {
	popups map[string]*popup.Config
}

func newFakePopupRepo(configs ...*popup.Config) *fakePopupRepo {
	repo := &fakePopupRepo{popups: make(map[string]*popup.Config)}
	for _, cfg := range configs {
		cfg.Normalize()
		repo.popups[cfg.ID] = cfg
	}
	return repo
}

func (f *fakePopupRepo) Create(cfg *popup.Config) error {
	f.popups[cfg.ID] = cfg
	return nil
}

func (f *fakePopupRepo) Update(cfg *popup.Config) error {
	if _, ok := f.popups[cfg.ID]; !ok {
		return popup.ErrNotFound
	}
	f.popups[cfg.ID] = cfg
	return nil
}

func (f *fakePopupRepo) Delete(id string) error {
	if _, ok := f.popups[id]; !ok {
		return popup.ErrNotFound
	}
	delete(f.popups, id)
	return nil
}

func (f *fakePopupRepo) GetByID(id string) (*popup.Config, error) {
	cfg, ok := f.popups[id]
	if !ok {
		return nil, popup.ErrNotFound
	}
	return cfg, nil
}

func (f *fakePopupRepo) GetAll() ([]*popup.Config, error) {
	var out []*popup.Config
	for _, cfg := range f.popups {
		out = append(out, cfg)
	}
	return out, nil
}

func (f *fakePopupRepo) GetEnabled() ([]*popup.Config, error) {
	var out []*popup.Config
	for _, cfg := range f.popups {
		if cfg.IsEnabled() {
			out = append(out, cfg)
		}
	}
	return out, nil
}

func (f *fakePopupRepo) Exists(id string) (bool, error) {
	_, ok := f.popups[id]
	return ok, nil
}

func newTestPopupService(configs ...*popup.Config) *PopupService {
	return NewPopupService(newFakePopupRepo(configs...), newTestLogger(), newTestTracker())
}

func TestRecordEventRejectsInvalidType(t *testing.T) {
	svc := NewEventService(&fakeEventRepo{}, newTestPopupService(), newTestLogger())

	err := svc.RecordEvent("p1", analytics.EventType("hover"), RequestMeta{})
	assert.ErrorIs(t, err, analytics.ErrInvalidEventType)
}

func TestRecordEventRejectsUnknownPopup(t *testing.T) {
	svc := NewEventService(&fakeEventRepo{}, newTestPopupService(), newTestLogger())

	err := svc.RecordEvent("ghost", analytics.EventImpression, RequestMeta{})
	assert.ErrorIs(t, err, analytics.ErrUnknownPopup)
}

func TestRecordEventAppendsInBackground(t *testing.T) {
	repo := &fakeEventRepo{stored: make(chan *analytics.Event, 1)}
	svc := NewEventService(repo, newTestPopupService(&popup.Config{ID: "p1", Status: popup.StatusEnabled}), newTestLogger())

	meta := RequestMeta{
		RemoteAddr: "203.0.113.77:1234",
		UserAgent:  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		Referrer:   "https://news.example.com/article",
	}
	err := svc.RecordEvent("p1", analytics.EventImpression, meta)
	assert.NoError(t, err)

	select {
	case event := <-repo.stored:
		assert.Equal(t, "p1", event.PopupID)
		assert.Equal(t, analytics.EventImpression, event.EventType)
		assert.Equal(t, "203.0.113.0", event.AnonymizedIP, "last octet stripped")
		assert.Equal(t, "Chrome/Windows", event.UserAgent, "user agent truncated to browser/OS")
		assert.Equal(t, "https://news.example.com/article", event.Referrer)
		assert.NotEmpty(t, event.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("event never reached the store")
	}
}

func TestDuplicateEventsAreNotDeduplicated(t *testing.T) {
	repo := &fakeEventRepo{stored: make(chan *analytics.Event, 2)}
	svc := NewEventService(repo, newTestPopupService(&popup.Config{ID: "p1", Status: popup.StatusEnabled}), newTestLogger())

	assert.NoError(t, svc.RecordEvent("p1", analytics.EventConversion, RequestMeta{}))
	assert.NoError(t, svc.RecordEvent("p1", analytics.EventConversion, RequestMeta{}))

	for i := 0; i < 2; i++ {
		select {
		case <-repo.stored:
		case <-time.After(2 * time.Second):
			t.Fatalf("expected 2 stored events, got %d", i)
		}
	}
	assert.Len(t, repo.events, 2, "retried submissions double-count by design")
}
