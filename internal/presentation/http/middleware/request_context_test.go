package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/smartengage/smartengage-go/internal/domain/visitor"
)

func buildContext(t *testing.T, configure func(*http.Request)) *visitor.RequestContext {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var captured *visitor.RequestContext
	r := gin.New()
	r.Use(RequestContextMiddleware())
	r.GET("/probe", func(c *gin.Context) {
		captured = GetRequestContext(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	configure(req)
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.NotNil(t, captured)
	return captured
}

func TestRequestContextFromHeaders(t *testing.T) {
	ctx := buildContext(t, func(req *http.Request) {
		req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148 Safari/604.1")
		req.Header.Set("Referer", "https://news.example.com")
		req.Header.Set(HeaderVisitorID, "v-123")
		req.Header.Set(HeaderSessionID, "s-456")
		req.Header.Set(HeaderLoggedIn, "true")
		req.Header.Set(HeaderRoles, "editor, subscriber")
		req.AddCookie(&http.Cookie{Name: "returning", Value: "yes"})
	})

	assert.Equal(t, visitor.DeviceMobile, ctx.Device)
	assert.Equal(t, "v-123", ctx.VisitorID)
	assert.Equal(t, "s-456", ctx.SessionID)
	assert.True(t, ctx.IsLoggedIn)
	assert.Equal(t, []string{"editor", "subscriber"}, ctx.Roles)
	assert.Equal(t, "https://news.example.com", ctx.Referrer)
	assert.Equal(t, "yes", ctx.Cookies["returning"])
}

func TestRequestContextDefaults(t *testing.T) {
	ctx := buildContext(t, func(req *http.Request) {
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0.0.0 Safari/537.36")
	})

	assert.Equal(t, visitor.DeviceDesktop, ctx.Device)
	assert.False(t, ctx.IsLoggedIn)
	assert.Empty(t, ctx.Roles)
	assert.Empty(t, ctx.VisitorID)
	assert.Nil(t, ctx.Cookies)
}
