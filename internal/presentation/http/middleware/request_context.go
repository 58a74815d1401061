// Package middleware provides HTTP middleware for the presentation layer.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/smartengage/smartengage-go/internal/domain/visitor"
)

const requestContextKey = "smartengage_request_context"

// Identity and login-state headers set by the embedding site's backend or
// the popup client script.
const (
	HeaderVisitorID = "X-SmartEngage-Visitor-ID"
	HeaderSessionID = "X-SmartEngage-Session-ID"
	HeaderLoggedIn  = "X-SmartEngage-Logged-In"
	HeaderRoles     = "X-SmartEngage-Roles"
)

// RequestContextMiddleware builds the visitor request context once at the
// boundary. Evaluators downstream receive it explicitly and never read
// request state ambiently. Page-level fields (url, post type) arrive in
// request bodies and are merged by the handlers.
func RequestContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := &visitor.RequestContext{
			Device:     visitor.ClassifyDevice(c.GetHeader("User-Agent")),
			IsLoggedIn: c.GetHeader(HeaderLoggedIn) == "true",
			Roles:      splitRoles(c.GetHeader(HeaderRoles)),
			Referrer:   c.GetHeader("Referer"),
			Cookies:    cookieMap(c),
			VisitorID:  c.GetHeader(HeaderVisitorID),
			SessionID:  c.GetHeader(HeaderSessionID),
		}

		c.Set(requestContextKey, ctx)
		c.Next()
	}
}

// GetRequestContext returns the context built for this request. The zero
// context is returned when the middleware did not run.
func GetRequestContext(c *gin.Context) *visitor.RequestContext {
	if value, exists := c.Get(requestContextKey); exists {
		if ctx, ok := value.(*visitor.RequestContext); ok {
			return ctx
		}
	}
	return &visitor.RequestContext{}
}

func splitRoles(header string) []string {
	if header == "" {
		return nil
	}
	parts := strings.Split(header, ",")
	roles := make([]string, 0, len(parts))
	for _, part := range parts {
		if role := strings.TrimSpace(part); role != "" {
			roles = append(roles, role)
		}
	}
	return roles
}

func cookieMap(c *gin.Context) map[string]string {
	cookies := c.Request.Cookies()
	if len(cookies) == 0 {
		return nil
	}
	m := make(map[string]string, len(cookies))
	for _, cookie := range cookies {
		m[cookie.Name] = cookie.Value
	}
	return m
}
