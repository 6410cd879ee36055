//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"wedding-app-go/internal/client"
	"wedding-app-go/internal/config"
	"wedding-app-go/internal/db"
	budgetdomain "wedding-app-go/internal/domain/budget"
	contributionsdomain "wedding-app-go/internal/domain/contributions"
	guestsdomain "wedding-app-go/internal/domain/guests"
	seatingdomain "wedding-app-go/internal/domain/seating"
	syncdomain "wedding-app-go/internal/domain/sync"
	vendorsdomain "wedding-app-go/internal/domain/vendors"
	weddingdomain "wedding-app-go/internal/domain/wedding"
	"wedding-app-go/internal/live"
	"wedding-app-go/internal/realtime"
	"wedding-app-go/internal/realtime/wsfeed"
	"wedding-app-go/internal/repository/inmemory"
	budgetrepo "wedding-app-go/internal/repository/postgres/budget"
	contributionsrepo "wedding-app-go/internal/repository/postgres/contributions"
	guestsrepo "wedding-app-go/internal/repository/postgres/guests"
	seatingrepo "wedding-app-go/internal/repository/postgres/seating"
	syncrepo "wedding-app-go/internal/repository/postgres/sync"
	vendorsrepo "wedding-app-go/internal/repository/postgres/vendors"
	weddingrepo "wedding-app-go/internal/repository/postgres/wedding"
	"wedding-app-go/internal/transport/httpserver"
	"wedding-app-go/internal/transport/httpserver/handler"
	budgethandler "wedding-app-go/internal/transport/httpserver/handler/budget"
	commonhandler "wedding-app-go/internal/transport/httpserver/handler/common"
	contributionshandler "wedding-app-go/internal/transport/httpserver/handler/contributions"
	guestshandler "wedding-app-go/internal/transport/httpserver/handler/guests"
	realtimehandler "wedding-app-go/internal/transport/httpserver/handler/realtime"
	seatinghandler "wedding-app-go/internal/transport/httpserver/handler/seating"
	vendorshandler "wedding-app-go/internal/transport/httpserver/handler/vendors"
	"wedding-app-go/pkg/logger"
)

type testEnv struct {
	server     *httptest.Server
	authServer *httptest.Server
	hub        *realtime.Hub
	db         *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	log := logger.NewNop()
	authServer := newAuthServer(t)

	cfg := config.Config{
		DB: config.DBConfig{DSN: dsn},
		Supabase: config.SupabaseConfig{
			URL:            authServer.URL,
			PublishableKey: "test-key",
			AuthTimeout:    2 * time.Second,
		},
		OfflineSyncEnabled: true,
		WeddingCacheTTL:    time.Minute,
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	if err := db.Migrate(dbConn, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	hub := realtime.NewHub(64)
	events := realtime.NewBroadcaster(hub, log)

	weddings := weddingdomain.NewService(weddingrepo.NewPostgres(dbConn), inmemory.NewWeddingCache(), cfg.WeddingCacheTTL, events)
	guests := guestsdomain.NewService(guestsrepo.NewPostgres(dbConn), events, nil, "https://rsvp.example.com", log)
	seating := seatingdomain.NewService(seatingrepo.NewPostgres(dbConn), events)
	budget := budgetdomain.NewService(budgetrepo.NewPostgres(dbConn), events)
	vendors := vendorsdomain.NewService(vendorsrepo.NewPostgres(dbConn), events, nil, nil, log)
	contributions := contributionsdomain.NewService(contributionsrepo.NewPostgres(dbConn), events, nil, log)
	sync := syncdomain.NewService(syncrepo.NewPostgres(dbConn), guests, contributions, budget, log)

	handlers := &handler.Handlers{
		Common:        commonhandler.New(weddings, sync, log),
		Guests:        guestshandler.New(guests, log),
		Seating:       seatinghandler.New(seating, log),
		Budget:        budgethandler.New(budget, log),
		Vendors:       vendorshandler.New(vendors, commonhandler.DefaultMaxUploadBytes, log),
		Contributions: contributionshandler.New(contributions, commonhandler.DefaultMaxUploadBytes, log),
		Realtime:      realtimehandler.New(wsfeed.NewServer(hub, wsfeed.ServerOptions{PingInterval: time.Second}, log), log),
	}

	router := httpserver.NewRouter(cfg, handlers, weddings, log)
	server := httptest.NewServer(router)

	return &testEnv{server: server, authServer: authServer, hub: hub, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	e.authServer.Close()
	_ = e.hub.Close()
	_ = db.Close(e.db)
}

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
		if token == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":    token,
			"email": token + "@example.com",
			"user_metadata": map[string]interface{}{
				"name": "User " + token,
			},
		})
	}))
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE sync_operations, sync_batches, song_requests, photo_comments, photos, " +
			"vendor_review_votes, vendor_reviews, vendor_payments, vendor_contracts, vendor_appointments, vendors, " +
			"seats, seating_tables, expenses, budget_categories, guests, weddings CASCADE",
	).Error
}

func requestJSON(t *testing.T, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	httpClient := &http.Client{Timeout: 5 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, respBody
}

func expectStatus(t *testing.T, resp *http.Response, body []byte, status int) {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("expected %d, got %d: %s", status, resp.StatusCode, string(body))
	}
}

func decode(t *testing.T, body []byte, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(body, dst); err != nil {
		t.Fatalf("decode %s: %v", string(body), err)
	}
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func createWedding(t *testing.T, env *testEnv, user string) weddingdomain.Wedding {
	t.Helper()
	resp, body := requestJSON(t, http.MethodPost, env.server.URL+"/api/weddings", user, map[string]string{
		"title": "Ana & Bo",
		"date":  "2026-09-12",
	})
	expectStatus(t, resp, body, http.StatusCreated)
	var wedding weddingdomain.Wedding
	decode(t, body, &wedding)
	return wedding
}

func TestE2EHealthAndAuth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	resp, body := requestJSON(t, http.MethodGet, env.server.URL+"/api/health", "", nil)
	expectStatus(t, resp, body, http.StatusOK)

	resp, body = requestJSON(t, http.MethodGet, env.server.URL+"/api/auth/me", "", nil)
	expectStatus(t, resp, body, http.StatusUnauthorized)
	var errResp errorEnvelope
	decode(t, body, &errResp)
	if errResp.Error.Code != "invalid_token" {
		t.Fatalf("expected invalid_token, got %q", errResp.Error.Code)
	}

	user := "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	resp, body = requestJSON(t, http.MethodGet, env.server.URL+"/api/guests", user, nil)
	expectStatus(t, resp, body, http.StatusNotFound)
	decode(t, body, &errResp)
	if errResp.Error.Code != "wedding_not_found" {
		t.Fatalf("expected wedding_not_found, got %q", errResp.Error.Code)
	}
}

func TestE2ERSVPReachesLiveMirror(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	planner := "11111111-1111-1111-1111-111111111111"
	wedding := createWedding(t, env, planner)

	resp, body := requestJSON(t, http.MethodPost, env.server.URL+"/api/guests", planner, map[string]interface{}{
		"name":  "Ana",
		"email": "ana@example.com",
	})
	expectStatus(t, resp, body, http.StatusCreated)
	var guest guestsdomain.Guest
	decode(t, body, &guest)

	source, err := client.New(env.server.URL, planner, 5*time.Second)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	feed, err := wsfeed.NewClient(env.server.URL, source.Header(), 8, nil)
	if err != nil {
		t.Fatalf("ws client: %v", err)
	}

	toasts := make(chan realtime.Toast, 4)
	mirror := live.Guests(live.Deps{
		Feed:     feed,
		Source:   source,
		Notifier: realtime.NotifierFunc(func(toast realtime.Toast) { toasts <- toast }),
	}, live.Watch[guestsdomain.Guest]{Scope: wedding.ID})
	defer mirror.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := mirror.Start(ctx); err != nil {
		t.Fatalf("start mirror: %v", err)
	}
	if items := mirror.State().Items; len(items) != 1 || items[0].ID != guest.ID {
		t.Fatalf("unexpected snapshot: %+v", items)
	}

	resp, body = requestJSON(t, http.MethodPost, env.server.URL+"/api/public/rsvp/"+guest.RSVPToken, "", map[string]interface{}{
		"status":   "confirmed",
		"plus_one": true,
	})
	expectStatus(t, resp, body, http.StatusOK)

	select {
	case toast := <-toasts:
		if toast.Title != "New RSVP" || toast.Message != "Ana has confirmed" {
			t.Fatalf("unexpected toast: %+v", toast)
		}
	case <-ctx.Done():
		t.Fatalf("rsvp never reached the mirror")
	}
	if got := mirror.State().Items[0]; got.RSVPStatus != guestsdomain.RSVPConfirmed || !got.PlusOne {
		t.Fatalf("mirror not updated: %+v", got)
	}
}

func TestE2ESeatingFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	planner := "22222222-2222-2222-2222-222222222222"
	createWedding(t, env, planner)

	resp, body := requestJSON(t, http.MethodPost, env.server.URL+"/api/guests", planner, map[string]string{"name": "Bo"})
	expectStatus(t, resp, body, http.StatusCreated)
	var guest guestsdomain.Guest
	decode(t, body, &guest)

	resp, body = requestJSON(t, http.MethodPost, env.server.URL+"/api/tables", planner, map[string]interface{}{
		"name":     "Family",
		"capacity": 2,
		"shape":    "round",
	})
	expectStatus(t, resp, body, http.StatusCreated)
	var table seatingdomain.Table
	decode(t, body, &table)

	resp, body = requestJSON(t, http.MethodGet, env.server.URL+"/api/tables/"+table.ID+"/seats", planner, nil)
	expectStatus(t, resp, body, http.StatusOK)
	var seats []seatingdomain.Seat
	decode(t, body, &seats)
	if len(seats) != 2 {
		t.Fatalf("expected 2 seats, got %d", len(seats))
	}

	assign := map[string]string{"guest_id": guest.ID}
	resp, body = requestJSON(t, http.MethodPut, env.server.URL+"/api/seats/"+seats[0].ID+"/guest", planner, assign)
	expectStatus(t, resp, body, http.StatusOK)

	resp, body = requestJSON(t, http.MethodPut, env.server.URL+"/api/seats/"+seats[1].ID+"/guest", planner, assign)
	expectStatus(t, resp, body, http.StatusConflict)
	var errResp errorEnvelope
	decode(t, body, &errResp)
	if errResp.Error.Code != "guest_already_seated" {
		t.Fatalf("expected guest_already_seated, got %q", errResp.Error.Code)
	}

	other := "33333333-3333-3333-3333-333333333333"
	createWedding(t, env, other)
	resp, body = requestJSON(t, http.MethodGet, env.server.URL+"/api/tables/"+table.ID, other, nil)
	expectStatus(t, resp, body, http.StatusNotFound)
}

func TestE2EBudgetReport(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	planner := "44444444-4444-4444-4444-444444444444"
	createWedding(t, env, planner)

	resp, body := requestJSON(t, http.MethodPost, env.server.URL+"/api/budget/categories", planner, map[string]interface{}{
		"name":      "Venue",
		"allocated": 5000,
	})
	expectStatus(t, resp, body, http.StatusCreated)
	var category budgetdomain.Category
	decode(t, body, &category)

	for _, expense := range []map[string]interface{}{
		{"category_id": category.ID, "name": "Deposit", "amount": 1000, "status": "paid"},
		{"category_id": category.ID, "name": "Balance", "amount": 2500, "status": "pending", "due_date": "2026-08-01"},
		{"name": "Tips", "amount": 200, "status": "pending"},
	} {
		resp, body = requestJSON(t, http.MethodPost, env.server.URL+"/api/expenses", planner, expense)
		expectStatus(t, resp, body, http.StatusCreated)
	}

	resp, body = requestJSON(t, http.MethodGet, env.server.URL+"/api/budget/report", planner, nil)
	expectStatus(t, resp, body, http.StatusOK)
	var report budgetdomain.Report
	decode(t, body, &report)
	if len(report.Lines) != 1 || report.Lines[0].Remaining != 1500 {
		t.Fatalf("unexpected report lines: %+v", report.Lines)
	}
	if report.Uncategorized.Pending != 200 {
		t.Fatalf("unexpected uncategorized line: %+v", report.Uncategorized)
	}
}
