// Package metadata extracts client-facing request metadata (IP, User-Agent,
// gate reader ID) into the context for handlers and services.
package metadata

import (
	"net/http"
	"strings"

	"gatekeeper/pkg/requestcontext"
)

// ReaderIDHeader is set by gate reader firmware on scan requests.
const ReaderIDHeader = "X-Reader-Id"

// Middleware adds client IP, User-Agent, and reader ID to the context.
// Apply early in the chain.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(r.Context(), clientIP(r), r.Header.Get("User-Agent"))
		if readerID := r.Header.Get(ReaderIDHeader); readerID != "" {
			ctx = requestcontext.WithReaderID(ctx, readerID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP extracts the real client IP, handling proxies and load balancers.
func clientIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs; the first is the client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return host
}
