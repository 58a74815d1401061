// Package services contains the application business logic for popup
// eligibility, triggering, frequency capping, event recording, and
// analytics aggregation.
package services

import (
	"regexp"
	"strings"
	"sync"

	"github.com/smartengage/smartengage-go/internal/domain/popup"
	"github.com/smartengage/smartengage-go/internal/domain/visitor"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
)

// TargetingService decides popup eligibility against a request context.
// Evaluation is pure: no I/O, no side effects, never an error. Malformed
// configs were already normalized at load time.
type TargetingService struct {
	logger *logging.ChanneledLogger

	mu       sync.RWMutex
	patterns map[string]*regexp.Regexp
}

// NewTargetingService creates a targeting service.
func NewTargetingService(logger *logging.ChanneledLogger) *TargetingService {
	return &TargetingService{
		logger:   logger,
		patterns: make(map[string]*regexp.Regexp),
	}
}

// IsEligible reports whether the popup's targeting rules match the request
// context. All configured dimensions must pass.
func (s *TargetingService) IsEligible(cfg *popup.Config, ctx *visitor.RequestContext) bool {
	if !cfg.IsEnabled() {
		return false
	}
	t := cfg.Targeting

	if !s.matchesDevice(t.DeviceType, ctx.Device) {
		return false
	}
	if !matchesLoginState(t.UserLoginState, ctx.IsLoggedIn) {
		return false
	}
	if t.UserLoginState == popup.LoginLoggedIn && len(t.UserRoles) > 0 && !ctx.HasRole(t.UserRoles) {
		return false
	}
	if !s.matchesURL(t.URLPatterns, ctx.URL) {
		return false
	}
	if !matchesPostType(t.PostTypes, ctx.PostType) {
		return false
	}
	if !s.matchesReferrer(t.ReferrerPattern, ctx.Referrer) {
		return false
	}
	if !matchesCookie(t.Cookie, ctx.Cookies) {
		return false
	}
	return true
}

func (s *TargetingService) matchesDevice(target popup.DeviceTarget, device visitor.Device) bool {
	switch target {
	case popup.DeviceDesktop:
		return device == visitor.DeviceDesktop
	case popup.DeviceMobile:
		return device == visitor.DeviceMobile
	default:
		return true
	}
}

func matchesLoginState(target popup.LoginTarget, isLoggedIn bool) bool {
	switch target {
	case popup.LoginLoggedIn:
		return isLoggedIn
	case popup.LoginLoggedOut:
		return !isLoggedIn
	default:
		return true
	}
}

func (s *TargetingService) matchesURL(patterns []string, url string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if s.matchWildcard(pattern, url) {
			return true
		}
	}
	return false
}

func matchesPostType(postTypes []string, postType string) bool {
	if len(postTypes) == 0 {
		return true
	}
	// A requirement on post type with no post type in context fails closed.
	if postType == "" {
		return false
	}
	for _, pt := range postTypes {
		if pt == postType {
			return true
		}
	}
	return false
}

func (s *TargetingService) matchesReferrer(pattern, referrer string) bool {
	if pattern == "" {
		return true
	}
	// A configured referrer rule with no referrer present fails closed.
	if referrer == "" {
		return false
	}
	return s.matchWildcard(pattern, referrer)
}

func matchesCookie(target *popup.CookieTarget, cookies map[string]string) bool {
	if target == nil {
		return true
	}
	value, present := cookies[target.Name]
	if !present {
		return false
	}
	if target.Value == "" {
		return true
	}
	return value == target.Value
}

// matchWildcard tests a `*`-wildcard pattern against a value. The pattern is
// matched case-insensitively anywhere in the value, so path patterns like
// `/product/*` match both bare paths and full URLs containing that path.
// Compiled patterns are cached; an uncompilable pattern matches nothing.
func (s *TargetingService) matchWildcard(pattern, value string) bool {
	s.mu.RLock()
	re, ok := s.patterns[pattern]
	s.mu.RUnlock()

	if !ok {
		compiled, err := compileWildcard(pattern)
		if err != nil {
			s.logger.Popup().Warn("Unmatchable wildcard pattern", "pattern", pattern, "error", err.Error())
			return false
		}
		s.mu.Lock()
		s.patterns[pattern] = compiled
		s.mu.Unlock()
		re = compiled
	}
	return re.MatchString(value)
}

func compileWildcard(pattern string) (*regexp.Regexp, error) {
	parts := strings.Split(pattern, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return regexp.Compile("(?i)" + strings.Join(parts, ".*"))
}
