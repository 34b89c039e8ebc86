// Package ratelimit protects the public endpoints from misbehaving gate
// reader firmware and staff login guessing. Limits are per source: the
// reader ID when the request carries one, otherwise the client IP.
package ratelimit

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	dErrors "gatekeeper/pkg/domain-errors"
	"gatekeeper/pkg/platform/httputil"
	"gatekeeper/pkg/requestcontext"
)

// Result reports one admission decision.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Store tracks request counts per key over a sliding window. Timestamps
// rather than fixed buckets, so a burst cannot straddle a boundary.
type Store struct {
	mu      sync.Mutex
	window  time.Duration
	buckets map[string][]time.Time
}

// NewStore creates an empty sliding-window store.
func NewStore(window time.Duration) *Store {
	return &Store{window: window, buckets: make(map[string][]time.Time)}
}

// Allow records a request for key and reports whether it fit the limit.
func (s *Store) Allow(key string, limit int, now time.Time) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-s.window)
	stamps := s.buckets[key]
	i := 0
	for ; i < len(stamps); i++ {
		if stamps[i].After(cutoff) {
			break
		}
	}
	stamps = stamps[i:]

	if len(stamps) >= limit {
		s.buckets[key] = stamps
		return Result{Allowed: false, Limit: limit, ResetAt: stamps[0].Add(s.window)}
	}

	stamps = append(stamps, now)
	s.buckets[key] = stamps
	return Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - len(stamps),
		ResetAt:   stamps[0].Add(s.window),
	}
}

// Reset clears the counter for a key.
func (s *Store) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
}

// Middleware admits or rejects requests against a shared store.
type Middleware struct {
	store  *Store
	logger *slog.Logger
}

// New constructs the middleware.
func New(window time.Duration, logger *slog.Logger) *Middleware {
	return &Middleware{store: NewStore(window), logger: logger}
}

// Limit wraps a handler group with a per-source request limit over the
// middleware's window.
func (m *Middleware) Limit(limit int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := sourceKey(ctx)

			result := m.store.Allow(key, limit, requestcontext.Now(ctx))
			addHeaders(w, result)

			if !result.Allowed {
				if m.logger != nil {
					m.logger.WarnContext(ctx, "rate limit exceeded",
						"request_id", requestcontext.RequestID(ctx),
						"source", key,
						"path", r.URL.Path,
					)
				}
				retryAfter := int(time.Until(result.ResetAt).Seconds()) + 1
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				httputil.WriteError(w, dErrors.New(dErrors.CodeTooManyRequests,
					"too many requests, slow down"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func sourceKey(ctx context.Context) string {
	if readerID := requestcontext.ReaderID(ctx); readerID != "" {
		return "reader:" + readerID
	}
	return "ip:" + requestcontext.ClientIP(ctx)
}

func addHeaders(w http.ResponseWriter, result Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}
