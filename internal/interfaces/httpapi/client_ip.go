package httpapi

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// clientIPHeaders are checked in order before falling back to RemoteAddr.
var clientIPHeaders = []string{
	"Fly-Client-IP",
	"CF-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

func resolveClientIP(r *http.Request) string {
	for _, header := range clientIPHeaders {
		if ip, ok := parseClientIP(r.Header.Get(header)); ok {
			return ip
		}
	}
	ip, _ := parseClientIP(r.RemoteAddr)
	return ip
}

// parseClientIP takes the first hop of a forwarded list and drops any port.
func parseClientIP(raw string) (string, bool) {
	value, _, _ := strings.Cut(raw, ",")
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	if host, _, err := net.SplitHostPort(value); err == nil {
		value = host
	}
	addr, err := netip.ParseAddr(strings.Trim(value, "[]"))
	if err != nil {
		return "", false
	}
	return addr.Unmap().String(), true
}
