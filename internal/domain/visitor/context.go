// Package visitor defines the per-request visitor context and the persisted
// per-visitor frequency state.
//
// RequestContext is built once at the HTTP boundary and passed explicitly into
// the evaluators. Nothing in the evaluation path reads request state
// ambiently.
package visitor

import "time"

// Device is the device class derived from user-agent sniffing. Tablets
// classify as mobile.
type Device string

const (
	DeviceDesktop Device = "desktop"
	DeviceMobile  Device = "mobile"
)

// RequestContext is an immutable snapshot of one page view.
type RequestContext struct {
	Device     Device            `json:"device"`
	IsLoggedIn bool              `json:"isLoggedIn"`
	Roles      []string          `json:"roles,omitempty"`
	URL        string            `json:"url"`
	Referrer   string            `json:"referrer,omitempty"`
	Cookies    map[string]string `json:"cookies,omitempty"`
	PostType   string            `json:"postType,omitempty"`

	VisitorID string `json:"visitorId"`
	SessionID string `json:"sessionId"`
}

// HasRole reports whether the visitor holds any of the given roles.
func (ctx *RequestContext) HasRole(roles []string) bool {
	for _, required := range roles {
		for _, held := range ctx.Roles {
			if held == required {
				return true
			}
		}
	}
	return false
}

// FrequencyState is the persisted per-(visitor, popup) suppression state.
//
// The session flag lives in session-scoped storage and resets at session
// boundary; lastShownAt and impressionCount are durable. The state is
// visitor-local and trusted as-is.
type FrequencyState struct {
	VisitorID       string     `json:"visitorId"`
	PopupID         string     `json:"popupId"`
	SessionShown    bool       `json:"sessionShown"`
	LastShownAt     *time.Time `json:"lastShownAt,omitempty"`
	ImpressionCount int        `json:"impressionCount"`
}
