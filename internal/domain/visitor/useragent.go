package visitor

import "strings"

// mobileTokens are the user-agent substrings that classify a request as
// mobile. Tablet tokens are folded in deliberately: the targeting model is a
// two-way desktop/mobile split.
var mobileTokens = []string{
	"mobile", "android", "iphone", "ipod", "ipad", "tablet",
	"blackberry", "opera mini", "opera mobi", "windows phone", "silk",
}

// browserTokens map user-agent substrings to a browser family name, in
// priority order (more specific families first).
var browserTokens = []struct {
	token string
	name  string
}{
	{"edg", "Edge"},
	{"opr", "Opera"},
	{"opera", "Opera"},
	{"firefox", "Firefox"},
	{"chrome", "Chrome"},
	{"safari", "Safari"},
	{"msie", "IE"},
	{"trident", "IE"},
}

// osTokens map user-agent substrings to an OS family name.
var osTokens = []struct {
	token string
	name  string
}{
	{"windows phone", "Windows Phone"},
	{"windows", "Windows"},
	{"android", "Android"},
	{"iphone", "iOS"},
	{"ipad", "iOS"},
	{"ipod", "iOS"},
	{"mac os", "macOS"},
	{"macintosh", "macOS"},
	{"cros", "ChromeOS"},
	{"linux", "Linux"},
}

// ClassifyDevice derives the device class from a raw User-Agent header.
// An empty user agent classifies as desktop.
func ClassifyDevice(userAgent string) Device {
	ua := strings.ToLower(userAgent)
	for _, token := range mobileTokens {
		if strings.Contains(ua, token) {
			return DeviceMobile
		}
	}
	return DeviceDesktop
}

// TruncateUserAgent reduces a raw User-Agent header to a "Browser/OS" token
// so that no full fingerprintable string is persisted with events.
func TruncateUserAgent(userAgent string) string {
	if userAgent == "" {
		return "unknown"
	}
	ua := strings.ToLower(userAgent)

	browser := "unknown"
	for _, candidate := range browserTokens {
		if strings.Contains(ua, candidate.token) {
			browser = candidate.name
			break
		}
	}

	os := "unknown"
	for _, candidate := range osTokens {
		if strings.Contains(ua, candidate.token) {
			os = candidate.name
			break
		}
	}

	return browser + "/" + os
}
