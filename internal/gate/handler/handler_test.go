package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"gatekeeper/internal/gate/handler/mocks"
	"gatekeeper/internal/gate/service"
	dErrors "gatekeeper/pkg/domain-errors"
)

func newGateRouter(t *testing.T) (http.Handler, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	h := New(svc, logger)
	r := chi.NewRouter()
	h.Register(r)
	return r, svc
}

func scan(t *testing.T, router http.Handler, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/gate/scan", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleScanGranted(t *testing.T) {
	router, svc := newGateRouter(t)
	svc.EXPECT().Scan(gomock.Any(), "D1").Return(&service.Result{
		Decision:       service.AccessGranted,
		UserName:       "Ann",
		WelcomeMessage: "Welcome, Ann! Enjoy your visit.",
	}, nil)

	rec := scan(t, router, map[string]string{"scannedToken": "D1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ScanResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ACCESS_GRANTED", resp.Status)
	assert.Equal(t, "Ann", resp.UserName)
	assert.Equal(t, "Welcome, Ann! Enjoy your visit.", resp.WelcomeMessage)
}

func TestHandleScanDenied(t *testing.T) {
	router, svc := newGateRouter(t)
	svc.EXPECT().Scan(gomock.Any(), "unknown").Return(&service.Result{
		Decision: service.AccessDenied,
	}, nil)

	rec := scan(t, router, map[string]string{"scannedToken": "unknown"})
	require.Equal(t, http.StatusOK, rec.Code, "a denial is a normal response")

	// The user fields must be absent on a denial, not empty strings.
	var raw map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	assert.Equal(t, "ACCESS_DENIED", raw["status"])
	assert.NotContains(t, raw, "user_name")
	assert.NotContains(t, raw, "welcome_message")
}

func TestHandleScanEmptyTokenReachesService(t *testing.T) {
	router, svc := newGateRouter(t)
	svc.EXPECT().Scan(gomock.Any(), "").Return(&service.Result{
		Decision: service.AccessDenied,
	}, nil)

	rec := scan(t, router, map[string]string{})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleScanStorageFailure(t *testing.T) {
	router, svc := newGateRouter(t)
	svc.EXPECT().Scan(gomock.Any(), "D1").Return(nil,
		dErrors.Wrap(errors.New("connection refused"), dErrors.CodeInternal, "failed to resolve token"))

	rec := scan(t, router, map[string]string{"scannedToken": "D1"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleScanMalformedBody(t *testing.T) {
	router, _ := newGateRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/gate/scan", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
