package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/smartengage/smartengage-go/internal/application/services"
	"github.com/smartengage/smartengage-go/internal/infrastructure/caching"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/performance"
	"github.com/smartengage/smartengage-go/internal/presentation/http/middleware"
)

func newVisitRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	tracker := performance.NewTracker(performance.DefaultTrackerConfig())
	sessions := caching.NewVisitorStateManager(logger)
	handlers := NewVisitHandlers(services.NewSessionService(sessions, logger), logger, tracker)

	r := gin.New()
	r.Use(middleware.RequestContextMiddleware())
	r.POST("/api/v1/visit", handlers.PostVisit)
	return r
}

func postVisit(t *testing.T, r *gin.Engine, body string, headers map[string]string) services.VisitResult {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/visit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var result services.VisitResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return result
}

func TestPostVisitMintsIdentity(t *testing.T) {
	r := newVisitRouter()

	result := postVisit(t, r, "{}", nil)

	assert.NotEmpty(t, result.VisitorID)
	assert.NotEmpty(t, result.SessionID)
	assert.NotEmpty(t, result.PageLoadID)
	assert.Equal(t, 1, result.PageViews)
}

func TestPostVisitReusesSession(t *testing.T) {
	r := newVisitRouter()

	first := postVisit(t, r, "{}", nil)
	second := postVisit(t, r, "{}", map[string]string{
		middleware.HeaderVisitorID: first.VisitorID,
		middleware.HeaderSessionID: first.SessionID,
	})

	assert.Equal(t, first.VisitorID, second.VisitorID)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, 2, second.PageViews, "page view counter advances within a session")
	assert.NotEqual(t, first.PageLoadID, second.PageLoadID, "each visit gets a fresh page load id")
}

func TestPostVisitBodyWinsOverHeaders(t *testing.T) {
	r := newVisitRouter()

	seeded := postVisit(t, r, `{"visitorId":"v-body","sessionId":"s-body"}`, map[string]string{
		middleware.HeaderVisitorID: "v-header",
		middleware.HeaderSessionID: "s-header",
	})

	assert.Equal(t, "v-body", seeded.VisitorID)
	assert.Equal(t, "s-body", seeded.SessionID)
}
