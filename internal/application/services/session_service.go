package services

import (
	"github.com/smartengage/smartengage-go/internal/infrastructure/caching"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
	"github.com/smartengage/smartengage-go/internal/infrastructure/security"
)

// VisitResult is what the boundary hands back to the client after a visit:
// the (possibly freshly minted) identifiers and the session page view count.
type VisitResult struct {
	VisitorID  string `json:"visitorId"`
	SessionID  string `json:"sessionId"`
	PageLoadID string `json:"pageLoadId"`
	PageViews  int    `json:"pageViews"`
}

// SessionService mints visitor and session identity at the boundary and
// counts page views per session.
type SessionService struct {
	sessions *caching.VisitorStateManager
	logger   *logging.ChanneledLogger
}

// NewSessionService creates a session service.
func NewSessionService(sessions *caching.VisitorStateManager, logger *logging.ChanneledLogger) *SessionService {
	return &SessionService{
		sessions: sessions,
		logger:   logger,
	}
}

// Visit registers one page view. Empty identifiers are minted fresh; a
// known session is refreshed and its page view counter advanced. Each call
// also mints a page load id scoping that page's trigger machines.
func (s *SessionService) Visit(visitorID, sessionID string) *VisitResult {
	if visitorID == "" {
		visitorID = security.GenerateVisitorID()
	}
	if sessionID == "" {
		sessionID = security.GenerateSessionID()
	}

	session := s.sessions.GetOrCreateSession(sessionID, visitorID)
	pageViews := session.RecordPageView()

	return &VisitResult{
		VisitorID:  visitorID,
		SessionID:  sessionID,
		PageLoadID: security.GenerateULID(),
		PageViews:  pageViews,
	}
}
