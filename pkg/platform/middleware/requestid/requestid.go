// Package requestid assigns a correlation ID to every request.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"gatekeeper/pkg/requestcontext"
)

// Header is the inbound/outbound correlation header. Gate readers and the
// mobile app may supply their own; otherwise one is generated.
const Header = "X-Request-Id"

// Middleware ensures every request carries a correlation ID in both context
// and response headers.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
