// Package caching holds the in-process session state for active visitors.
// Session state is ephemeral by definition: it disappears when the session
// TTL lapses, which is exactly the reset the once-per-session frequency
// rule and the per-page-load trigger machines rely on.
package caching

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/smartengage/smartengage-go/internal/domain/visitor"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
	"github.com/smartengage/smartengage-go/pkg/config"
)

// SessionState is the per-session working set: which popups were already
// shown this session, the per-page-load trigger machines, and the running
// page view count.
type SessionState struct {
	SessionID string
	VisitorID string
	CreatedAt time.Time

	mu        sync.Mutex
	shown     map[string]bool
	machines  map[string]*visitor.TriggerMachine
	pageViews int
}

func newSessionState(sessionID, visitorID string) *SessionState {
	return &SessionState{
		SessionID: sessionID,
		VisitorID: visitorID,
		CreatedAt: time.Now().UTC(),
		shown:     make(map[string]bool),
		machines:  make(map[string]*visitor.TriggerMachine),
	}
}

// WasShown reports whether a popup was already shown during this session.
func (s *SessionState) WasShown(popupID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shown[popupID]
}

// MarkShown records that a popup was shown during this session.
func (s *SessionState) MarkShown(popupID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown[popupID] = true
}

// Machine returns the trigger machine for a popup on a specific page load,
// creating it on first use. A new page load gets a fresh machine.
func (s *SessionState) Machine(popupID, pageLoadID string) *visitor.TriggerMachine {
	key := popupID + "|" + pageLoadID
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.machines[key]
	if !ok {
		m = visitor.NewTriggerMachine()
		s.machines[key] = m
	}
	return m
}

// RecordPageView bumps the session page view counter and returns the total.
func (s *SessionState) RecordPageView() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageViews++
	return s.pageViews
}

// PageViews returns the session page view count so far.
func (s *SessionState) PageViews() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageViews
}

// VisitorStateManager owns the TTL'd session store. Expired sessions are
// evicted by the cache janitor; no explicit cleanup worker is needed.
type VisitorStateManager struct {
	sessions *gocache.Cache
	logger   *logging.ChanneledLogger

	mu sync.Mutex
}

// NewVisitorStateManager creates the session store with the configured TTL.
func NewVisitorStateManager(logger *logging.ChanneledLogger) *VisitorStateManager {
	return &VisitorStateManager{
		sessions: gocache.New(config.SessionTTL, config.SessionCleanupInterval),
		logger:   logger,
	}
}

// GetOrCreateSession returns the live state for a session, creating it if
// the session is new or expired. Access refreshes the TTL.
func (m *VisitorStateManager) GetOrCreateSession(sessionID, visitorID string) *SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cached, ok := m.sessions.Get(sessionID); ok {
		state := cached.(*SessionState)
		m.sessions.Set(sessionID, state, gocache.DefaultExpiration)
		return state
	}

	if m.sessions.ItemCount() >= config.MaxVisitorStates {
		m.sessions.DeleteExpired()
		if m.sessions.ItemCount() >= config.MaxVisitorStates {
			m.evictOldestLocked()
		}
	}

	state := newSessionState(sessionID, visitorID)
	m.sessions.Set(sessionID, state, gocache.DefaultExpiration)
	m.logger.Cache().Debug("Session created",
		"sessionId", sessionID, "visitorId", visitorID, "activeSessions", m.sessions.ItemCount())
	return state
}

// evictOldestLocked drops the oldest live session to keep the store under
// the configured cap. Caller holds m.mu.
func (m *VisitorStateManager) evictOldestLocked() {
	var oldestID string
	var oldestAt time.Time
	for id, item := range m.sessions.Items() {
		state, ok := item.Object.(*SessionState)
		if !ok {
			continue
		}
		if oldestID == "" || state.CreatedAt.Before(oldestAt) {
			oldestID = id
			oldestAt = state.CreatedAt
		}
	}
	if oldestID == "" {
		return
	}
	m.sessions.Delete(oldestID)
	m.logger.Cache().Warn("Session cache at capacity, evicted oldest session",
		"sessionId", oldestID, "createdAt", oldestAt, "cap", config.MaxVisitorStates)
}

// Session returns the live state for a session without creating one.
func (m *VisitorStateManager) Session(sessionID string) (*SessionState, bool) {
	cached, ok := m.sessions.Get(sessionID)
	if !ok {
		return nil, false
	}
	return cached.(*SessionState), true
}

// EndSession drops a session's state immediately.
func (m *VisitorStateManager) EndSession(sessionID string) {
	m.sessions.Delete(sessionID)
}

// ActiveSessions reports the current session count, including items the
// janitor has not swept yet.
func (m *VisitorStateManager) ActiveSessions() int {
	return m.sessions.ItemCount()
}

// Status returns a snapshot for the status endpoint.
func (m *VisitorStateManager) Status() map[string]any {
	return map[string]any{
		"activeSessions": m.sessions.ItemCount(),
		"sessionTtl":     config.SessionTTL.String(),
	}
}
