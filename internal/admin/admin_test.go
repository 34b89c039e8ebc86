package admin

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	adminmw "gatekeeper/pkg/platform/middleware/admin"
)

const (
	testPassword   = "museum-staff-2024"
	testSigningKey = "test-signing-key"
)

func newAdminRouter(t *testing.T) http.Handler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(NewService(string(hash), testSigningKey), logger)

	r := chi.NewRouter()
	h.Register(r)
	r.Group(func(r chi.Router) {
		r.Use(adminmw.RequireStaff(testSigningKey))
		r.Get("/admin/ping", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})
	return r
}

func login(t *testing.T, router http.Handler, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{"password": password})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	router := newAdminRouter(t)

	rec := login(t, router, testPassword)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "success", resp.Status)
	assert.NotEmpty(t, resp.Token)
	assert.WithinDuration(t, time.Now().Add(sessionTTL), resp.ExpiresAt, time.Minute)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router := newAdminRouter(t)

	t.Run("wrong password", func(t *testing.T) {
		rec := login(t, router, "guess")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("empty password", func(t *testing.T) {
		rec := login(t, router, "")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestIssuedTokenPassesStaffGuard(t *testing.T) {
	router := newAdminRouter(t)

	rec := login(t, router, testPassword)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	ping := httptest.NewRecorder()
	router.ServeHTTP(ping, req)
	assert.Equal(t, http.StatusNoContent, ping.Code)

	t.Run("no token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
