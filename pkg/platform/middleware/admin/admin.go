// Package admin guards staff-only endpoints with bearer JWTs issued by the
// admin login flow.
package admin

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	dErrors "gatekeeper/pkg/domain-errors"
	"gatekeeper/pkg/platform/httputil"
)

// Subject is the fixed JWT subject for staff sessions.
const Subject = "gatekeeper-staff"

// RequireStaff verifies the Authorization bearer token was signed with the
// configured key and rejects everything else with 401.
func RequireStaff(signingKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "staff token required"))
				return
			}

			token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(signingKey), nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid staff token"))
				return
			}
			if sub, _ := token.Claims.GetSubject(); sub != Subject {
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "not a staff session"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}
