package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mssola/useragent"
)

type clientIPKey struct{}
type userAgentKey struct{}

// ClientMetadata extracts the client IP address and User-Agent from the request
// and adds them to the context.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), clientIPKey{}, getClientIP(r))
		ctx = context.WithValue(ctx, userAgentKey{}, r.Header.Get("User-Agent"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientIP retrieves the client IP stored by ClientMetadata.
func GetClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}

// GetUserAgent retrieves the User-Agent stored by ClientMetadata.
func GetUserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(userAgentKey{}).(string); ok {
		return ua
	}
	return ""
}

// getClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then RemoteAddr
// without its port.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if idx := strings.LastIndex(r.RemoteAddr, ":"); idx != -1 {
		return r.RemoteAddr[:idx]
	}
	return r.RemoteAddr
}

// Device is the coarse client description derived from a User-Agent.
type Device struct {
	Browser string
	OS      string
	Mobile  bool
}

// ParseDevice extracts browser and OS names from a User-Agent string.
func ParseDevice(userAgentString string) Device {
	if userAgentString == "" {
		return Device{Browser: "unknown", OS: "unknown"}
	}

	ua := useragent.New(userAgentString)
	browser, _ := ua.Browser()
	os := ua.OS()
	if ua.Mobile() && os == "" {
		os = ua.Platform()
	}

	browser = strings.TrimSpace(browser)
	if browser == "" {
		browser = "unknown"
	}
	os = strings.TrimSpace(os)
	if os == "" {
		os = "unknown"
	}
	return Device{Browser: browser, OS: os, Mobile: ua.Mobile()}
}
