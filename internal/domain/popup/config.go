// Package popup defines the typed popup configuration model.
//
// All defaulting and clamping of stored values happens here, once, at load
// time. Evaluators downstream can assume a normalized config and never fail
// on malformed data.
package popup

import "time"

// Status controls whether a popup participates in evaluation at all.
type Status string

const (
	StatusEnabled  Status = "enabled"
	StatusDisabled Status = "disabled"
)

// DisplayType selects the popup rendering mode.
type DisplayType string

const (
	DisplaySlideIn    DisplayType = "slide-in"
	DisplayFullScreen DisplayType = "full-screen"
)

// Position places a slide-in popup on screen. Ignored for full-screen.
type Position string

const (
	PositionBottomRight Position = "bottom-right"
	PositionBottomLeft  Position = "bottom-left"
	PositionCenter      Position = "center"
)

// DeviceTarget restricts a popup to a device class.
type DeviceTarget string

const (
	DeviceAll     DeviceTarget = "all"
	DeviceDesktop DeviceTarget = "desktop"
	DeviceMobile  DeviceTarget = "mobile"
)

// LoginTarget restricts a popup by visitor authentication state.
type LoginTarget string

const (
	LoginAll       LoginTarget = "all"
	LoginLoggedIn  LoginTarget = "logged_in"
	LoginLoggedOut LoginTarget = "logged_out"
)

// Combinator joins multiple trigger conditions.
type Combinator string

const (
	CombinatorAny Combinator = "any"
	CombinatorAll Combinator = "all"
)

// FrequencyRule selects the single active suppression rule for a popup.
type FrequencyRule string

const (
	FreqEveryTime      FrequencyRule = "every_time"
	FreqOncePerSession FrequencyRule = "once_per_session"
	FreqEveryNDays     FrequencyRule = "every_n_days"
	FreqMaxImpressions FrequencyRule = "max_impressions"
)

// Display describes how a popup is rendered.
type Display struct {
	Type     DisplayType `json:"type"`
	Position Position    `json:"position"`
}

// CookieTarget matches on a visitor cookie. An empty Value means
// presence-only check.
type CookieTarget struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// Targeting holds every targeting dimension for a popup. Empty collections
// mean "no restriction" for that dimension.
type Targeting struct {
	DeviceType      DeviceTarget  `json:"deviceType"`
	UserLoginState  LoginTarget   `json:"userLoginState"`
	UserRoles       []string      `json:"userRoles,omitempty"`
	URLPatterns     []string      `json:"urlPatterns,omitempty"`
	PostTypes       []string      `json:"postTypes,omitempty"`
	ReferrerPattern string        `json:"referrerPattern,omitempty"`
	Cookie          *CookieTarget `json:"cookieTargeting,omitempty"`
}

// TriggerConditions lists the client-observable conditions that can fire a
// popup. A nil pointer means the condition is not configured.
type TriggerConditions struct {
	TimeOnPageSec *int  `json:"timeOnPage,omitempty"`
	ScrollDepth   *int  `json:"scrollDepth,omitempty"`
	ExitIntent    bool  `json:"exitIntent,omitempty"`
	PageViews     *int  `json:"pageViews,omitempty"`
}

// Triggers combines the configured conditions with their combinator.
type Triggers struct {
	Conditions TriggerConditions `json:"conditions"`
	Combinator Combinator        `json:"combinator"`
}

// Frequency selects the active suppression rule. N carries the parameter for
// every_n_days and max_impressions; it is ignored otherwise.
type Frequency struct {
	Rule FrequencyRule `json:"rule"`
	N    int           `json:"n,omitempty"`
}

// Config represents one configured popup.
type Config struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	Display   Display   `json:"display"`
	Targeting Targeting `json:"targeting"`
	Triggers  Triggers  `json:"triggers"`
	Frequency Frequency `json:"frequency"`
	Content   string    `json:"content,omitempty"` // opaque rendering payload
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsEnabled reports whether this popup participates in evaluation.
func (c *Config) IsEnabled() bool {
	return c.Status == StatusEnabled
}

// Normalize clamps and defaults every field so that evaluation never has to
// handle malformed values. Invalid enum values resolve to their safest
// default (pass-everything), matching the fail-open policy for "all"-type
// settings.
func (c *Config) Normalize() {
	switch c.Status {
	case StatusEnabled, StatusDisabled:
	default:
		c.Status = StatusDisabled
	}

	switch c.Display.Type {
	case DisplaySlideIn, DisplayFullScreen:
	default:
		c.Display.Type = DisplaySlideIn
	}
	switch c.Display.Position {
	case PositionBottomRight, PositionBottomLeft, PositionCenter:
	default:
		c.Display.Position = PositionBottomRight
	}

	switch c.Targeting.DeviceType {
	case DeviceAll, DeviceDesktop, DeviceMobile:
	default:
		c.Targeting.DeviceType = DeviceAll
	}
	switch c.Targeting.UserLoginState {
	case LoginAll, LoginLoggedIn, LoginLoggedOut:
	default:
		c.Targeting.UserLoginState = LoginAll
	}
	if c.Targeting.Cookie != nil && c.Targeting.Cookie.Name == "" {
		c.Targeting.Cookie = nil
	}

	switch c.Triggers.Combinator {
	case CombinatorAny, CombinatorAll:
	default:
		c.Triggers.Combinator = CombinatorAny
	}
	if c.Triggers.Conditions.TimeOnPageSec != nil && *c.Triggers.Conditions.TimeOnPageSec < 0 {
		zero := 0
		c.Triggers.Conditions.TimeOnPageSec = &zero
	}
	if c.Triggers.Conditions.ScrollDepth != nil {
		depth := *c.Triggers.Conditions.ScrollDepth
		if depth < 0 {
			depth = 0
		}
		if depth > 100 {
			depth = 100
		}
		c.Triggers.Conditions.ScrollDepth = &depth
	}
	if c.Triggers.Conditions.PageViews != nil && *c.Triggers.Conditions.PageViews < 1 {
		one := 1
		c.Triggers.Conditions.PageViews = &one
	}

	switch c.Frequency.Rule {
	case FreqEveryTime, FreqOncePerSession:
		c.Frequency.N = 0
	case FreqEveryNDays, FreqMaxImpressions:
		if c.Frequency.N < 1 {
			c.Frequency.N = 1
		}
	default:
		c.Frequency.Rule = FreqEveryTime
		c.Frequency.N = 0
	}
}
