// Package security provides privacy helpers for event recording.
package security

import "net"

// AnonymizeIP strips the host-identifying portion of an IP address before it
// is persisted: the last octet for IPv4, the trailing 80 bits for IPv6.
// Values that do not parse as an IP come back as an empty string.
func AnonymizeIP(remoteAddr string) string {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return ""
	}

	if v4 := ip.To4(); v4 != nil {
		masked := v4.Mask(net.CIDRMask(24, 32))
		return masked.String()
	}

	masked := ip.Mask(net.CIDRMask(48, 128))
	return masked.String()
}
