// Package journey drives a full visitor day through the composed router:
// registration, gate entry by phone and card, a photo submission, and the
// staff console.
package journey

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	adminauth "gatekeeper/internal/admin"
	"gatekeeper/internal/gate/events"
	gatehandler "gatekeeper/internal/gate/handler"
	gateservice "gatekeeper/internal/gate/service"
	photohandler "gatekeeper/internal/photo/handler"
	photoservice "gatekeeper/internal/photo/service"
	photostore "gatekeeper/internal/photo/store"
	roomhandler "gatekeeper/internal/room/handler"
	roomstore "gatekeeper/internal/room/store"
	visitorhandler "gatekeeper/internal/visitor/handler"
	visitorservice "gatekeeper/internal/visitor/service"
	visitorstore "gatekeeper/internal/visitor/store"
	adminmw "gatekeeper/pkg/platform/middleware/admin"
	"gatekeeper/pkg/platform/middleware/metadata"
	"gatekeeper/pkg/platform/middleware/requestid"
	"gatekeeper/pkg/platform/middleware/requesttime"
	"gatekeeper/pkg/testutil"
)

const (
	signingKey    = "journey-signing-key"
	staffPassword = "staff-password"
)

type world struct {
	router http.Handler
	sink   *events.MemorySink
	cancel context.CancelFunc
}

func newWorld(t *testing.T) *world {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	visitors := visitorstore.NewInMemory()
	rooms := roomstore.NewInMemory()
	photos := photostore.NewInMemory()
	require.NoError(t, roomstore.Seed(context.Background(), rooms))

	sink := events.NewMemorySink()
	publisher := events.NewPublisher(logger)
	worker := events.NewWorker(sink, publisher.Inbox(), logger)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = worker.Run(ctx) }()
	t.Cleanup(cancel)

	files, err := photoservice.NewDiskFiles(t.TempDir(), "/static/submissions")
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte(staffPassword), bcrypt.MinCost)
	require.NoError(t, err)

	visitorH := visitorhandler.New(visitorservice.New(visitors,
		visitorservice.WithLogger(logger)), logger)
	gateH := gatehandler.New(gateservice.New(visitors,
		gateservice.WithLogger(logger),
		gateservice.WithPublisher(publisher)), logger)
	photoH := photohandler.New(photoservice.New(photos, visitors, rooms, files,
		photoservice.WithLogger(logger)), logger)
	roomH := roomhandler.New(rooms, logger)
	adminH := adminauth.NewHandler(adminauth.NewService(string(hash), signingKey), logger)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.Middleware)
	visitorH.Register(r)
	gateH.Register(r)
	photoH.Register(r)
	roomH.Register(r)
	adminH.Register(r)
	r.Group(func(r chi.Router) {
		r.Use(adminmw.RequireStaff(signingKey))
		visitorH.RegisterAdmin(r)
		roomH.RegisterAdmin(r)
	})

	return &world{router: r, sink: sink, cancel: cancel}
}

func (w *world) scan(t *testing.T, token, readerID string) gatehandler.ScanResponse {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/gate/scan",
		map[string]string{"scannedToken": token})
	req.Header.Set(metadata.ReaderIDHeader, readerID)
	rr := testutil.DoRequest(w.router, req)
	require.Equal(t, http.StatusOK, rr.Code)
	return testutil.DecodeJSON[gatehandler.ScanResponse](t, rr)
}

func TestVisitorDay(t *testing.T) {
	w := newWorld(t)

	// A new visitor registers from the mobile app.
	rr := testutil.DoRequest(w.router, testutil.NewJSONRequest(t,
		http.MethodPost, "/visitors/login-or-register", map[string]string{
			"email":       "ann.smith@example.com",
			"name":        "Ann",
			"gender":      "female",
			"deviceToken": "HCE-TOKEN-1",
		}))
	require.Equal(t, http.StatusCreated, rr.Code)
	registered := testutil.DecodeJSON[visitorhandler.LoginOrRegisterResponse](t, rr)
	assert.True(t, registered.IsNewUser)
	assert.Equal(t, "HCE-TOKEN-1", registered.User.DeviceToken)
	visitorID := registered.User.ID

	// The same request later is a login, not a second account.
	rr = testutil.DoRequest(w.router, testutil.NewJSONRequest(t,
		http.MethodPost, "/visitors/login-or-register", map[string]string{
			"email":       "ann.smith@example.com",
			"deviceToken": "HCE-TOKEN-1",
		}))
	require.Equal(t, http.StatusOK, rr.Code)
	loggedIn := testutil.DecodeJSON[visitorhandler.LoginOrRegisterResponse](t, rr)
	assert.False(t, loggedIn.IsNewUser)
	assert.Equal(t, visitorID, loggedIn.User.ID)

	// She walks in with her phone.
	scan := w.scan(t, "HCE-TOKEN-1", "north-1")
	assert.Equal(t, "ACCESS_GRANTED", scan.Status)
	assert.Equal(t, "Ann", scan.UserName)
	assert.Equal(t, "Welcome, Ann! Enjoy your visit.", scan.WelcomeMessage)

	// At the desk she gets a physical card linked to her account.
	rr = testutil.DoRequest(w.router, testutil.NewJSONRequest(t,
		http.MethodPost, "/visitors/link-card", map[string]any{
			"accountId": visitorID,
			"cardUid":   "NFC-CARD-9",
		}))
	require.Equal(t, http.StatusOK, rr.Code)

	// The card opens the gate too.
	scan = w.scan(t, "NFC-CARD-9", "south-2")
	assert.Equal(t, "ACCESS_GRANTED", scan.Status)

	// A made-up token does not, and the response gives nothing away.
	scan = w.scan(t, "NO-SUCH-TOKEN", "north-1")
	assert.Equal(t, "ACCESS_DENIED", scan.Status)
	assert.Empty(t, scan.UserName)
	assert.Empty(t, scan.WelcomeMessage)

	// Every decision reached the entry event sink.
	require.Eventually(t, func() bool {
		return len(w.sink.Events()) == 3
	}, time.Second, 10*time.Millisecond)
	recorded := w.sink.Events()
	assert.Equal(t, events.DecisionGranted, recorded[0].Decision)
	assert.Equal(t, "north-1", recorded[0].ReaderID)
	assert.Equal(t, events.DecisionDenied, recorded[2].Decision)

	// The seeded rooms are listed publicly.
	rr = testutil.DoRequest(w.router,
		testutil.NewJSONRequest(t, http.MethodGet, "/rooms", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	roomList := testutil.DecodeJSON[roomhandler.ListResponse](t, rr)
	require.NotEmpty(t, roomList.Rooms)

	// Staff sign in and can see the visitor roster; anonymous callers cannot.
	rr = testutil.DoRequest(w.router, testutil.NewJSONRequest(t,
		http.MethodPost, "/admin/login", map[string]string{"password": staffPassword}))
	require.Equal(t, http.StatusOK, rr.Code)
	session := testutil.DecodeJSON[adminauth.LoginResponse](t, rr)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/admin/visitors", nil)
	rr = testutil.DoRequest(w.router, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = testutil.NewJSONRequest(t, http.MethodGet, "/admin/visitors", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rr = testutil.DoRequest(w.router, req)
	require.Equal(t, http.StatusOK, rr.Code)
	roster := testutil.DecodeJSON[visitorhandler.ListResponse](t, rr)
	require.Equal(t, 1, roster.Count)
	assert.Equal(t, "ann.smith@example.com", roster.Visitors[0].Email)
}

func TestTokenTheftIsRefused(t *testing.T) {
	w := newWorld(t)

	register := func(email, device string) int64 {
		t.Helper()
		rr := testutil.DoRequest(w.router, testutil.NewJSONRequest(t,
			http.MethodPost, "/visitors/login-or-register", map[string]string{
				"email":       email,
				"deviceToken": device,
			}))
		require.Equal(t, http.StatusCreated, rr.Code)
		return testutil.DecodeJSON[visitorhandler.LoginOrRegisterResponse](t, rr).User.ID
	}

	register("first@example.com", "DEVICE-1")
	secondID := register("second@example.com", "DEVICE-2")

	// Claiming a token that belongs to someone else is a conflict.
	rr := testutil.DoRequest(w.router, testutil.NewJSONRequest(t,
		http.MethodPost, "/visitors/link-card", map[string]any{
			"accountId": secondID,
			"cardUid":   "DEVICE-1",
		}))
	assert.Equal(t, http.StatusConflict, rr.Code)

	// DEVICE-1 still opens the gate as the first visitor.
	scan := w.scan(t, "DEVICE-1", "north-1")
	assert.Equal(t, "ACCESS_GRANTED", scan.Status)
	assert.Equal(t, "First", scan.UserName)
}
