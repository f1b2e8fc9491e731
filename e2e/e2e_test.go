//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"lawpages-go/internal/config"
	"lawpages-go/internal/db"
	aptdomain "lawpages-go/internal/domain/appointment"
	clientdomain "lawpages-go/internal/domain/client"
	collabdomain "lawpages-go/internal/domain/collaboration"
	findomain "lawpages-go/internal/domain/finance"
	pagedomain "lawpages-go/internal/domain/page"
	aptrepo "lawpages-go/internal/repository/postgres/appointment"
	clientrepo "lawpages-go/internal/repository/postgres/client"
	collabrepo "lawpages-go/internal/repository/postgres/collaboration"
	finrepo "lawpages-go/internal/repository/postgres/finance"
	pagerepo "lawpages-go/internal/repository/postgres/page"
	"lawpages-go/internal/transport/httpserver"
	"lawpages-go/internal/transport/httpserver/handler"
	"lawpages-go/pkg/logger"
)

const (
	jwtSecret    = "e2e-secret"
	webhookToken = "e2e-webhook-token"
	ownerID      = "11111111-1111-1111-1111-111111111111"
	internID     = "22222222-2222-2222-2222-222222222222"
)

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	log := logger.New(io.Discard, slog.LevelError, "json")

	cfg := config.Config{
		DB:      config.DBConfig{DSN: dsn},
		Auth:    config.AuthConfig{JWTSecret: jwtSecret},
		Webhook: config.WebhookConfig{PaymentToken: webhookToken},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	if err := db.Migrate(dbConn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	resolver := collabdomain.NewResolver(collabrepo.NewPostgres(dbConn))
	pages := pagedomain.NewService(pagerepo.NewPostgres(dbConn))
	collaborations := collabdomain.NewService(collabrepo.NewPostgres(dbConn), resolver)
	clients := clientdomain.NewService(clientrepo.NewPostgres(dbConn), resolver)
	appointments := aptdomain.NewService(aptrepo.NewPostgres(dbConn), resolver, clients)
	finance := findomain.NewService(finrepo.NewPostgres(dbConn), resolver, findomain.Config{})

	handlers := handler.New(pages, collaborations, clients, appointments, finance, log)
	router := httpserver.NewRouter(cfg, handlers, log)

	return &testEnv{server: httptest.NewServer(router), db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func cleanDB(dbConn *gorm.DB) error {
	for _, table := range []string{"payment_records", "appointments", "clients", "collaborations", "pages"} {
		if err := dbConn.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func mintToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func decode(t *testing.T, data []byte, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, target); err != nil {
		t.Fatalf("decode %s: %v", string(data), err)
	}
}

func TestBookingToLedgerFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	ownerToken := mintToken(t, ownerID)

	// Owner publishes a page.
	resp, data := env.request(t, http.MethodPost, "/api/pages", ownerToken, map[string]string{
		"name": "Silva Advocacia",
		"slug": "silva-advocacia",
		"kind": "individual",
		"oab":  "SP123456",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create page: %d %s", resp.StatusCode, data)
	}
	var page struct {
		ID string `json:"id"`
	}
	decode(t, data, &page)

	// Anonymous visitor finds it and books.
	resp, data = env.request(t, http.MethodGet, "/api/p/silva-advocacia", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("public profile: %d %s", resp.StatusCode, data)
	}

	resp, data = env.request(t, http.MethodPost, "/api/bookings", "", map[string]interface{}{
		"page_id":          page.ID,
		"client_name":      "Maria Souza",
		"client_email":     "maria@example.com",
		"appointment_date": time.Now().Add(72 * time.Hour).Format(time.RFC3339),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("booking: %d %s", resp.StatusCode, data)
	}
	var apt struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, data, &apt)
	if apt.Status != "pendente" {
		t.Fatalf("expected pendente, got %s", apt.Status)
	}

	// Owner quotes a price.
	resp, data = env.request(t, http.MethodPost, "/api/appointments/"+apt.ID+"/price", ownerToken, map[string]interface{}{
		"final_price":     150.00,
		"video_call_link": "https://meet.example.com/abc",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set price: %d %s", resp.StatusCode, data)
	}

	// The gateway reports payment.
	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/webhooks/payments",
		bytes.NewReader([]byte(fmt.Sprintf(`{"appointment_id":%q,"transaction_id":"txn-001"}`, apt.ID))))
	if err != nil {
		t.Fatalf("webhook request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Token", webhookToken)
	webhookResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("webhook: %v", err)
	}
	webhookResp.Body.Close()
	if webhookResp.StatusCode != http.StatusOK {
		t.Fatalf("webhook: %d", webhookResp.StatusCode)
	}

	// Owner confirms and finalizes.
	resp, data = env.request(t, http.MethodPost, "/api/appointments/"+apt.ID+"/confirm", ownerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("confirm: %d %s", resp.StatusCode, data)
	}
	resp, data = env.request(t, http.MethodPost, "/api/appointments/"+apt.ID+"/finalize", ownerToken, map[string]bool{"confirmed": true})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("finalize: %d %s", resp.StatusCode, data)
	}

	// First sweep migrates, the rerun only skips.
	resp, data = env.request(t, http.MethodPost, "/api/finance/reconcile", ownerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reconcile: %d %s", resp.StatusCode, data)
	}
	var sweep struct {
		Migrated int `json:"migrated"`
		Skipped  int `json:"skipped"`
		Failed   int `json:"failed"`
	}
	decode(t, data, &sweep)
	if sweep.Migrated != 1 || sweep.Failed != 0 {
		t.Fatalf("unexpected sweep %+v", sweep)
	}

	resp, data = env.request(t, http.MethodPost, "/api/finance/reconcile", ownerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reconcile rerun: %d %s", resp.StatusCode, data)
	}
	decode(t, data, &sweep)
	if sweep.Migrated != 0 || sweep.Skipped != 1 {
		t.Fatalf("expected rerun to skip, got %+v", sweep)
	}

	// Summary reflects the finalized appointment.
	resp, data = env.request(t, http.MethodGet, "/api/pages/"+page.ID+"/finance/summary", ownerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary: %d %s", resp.StatusCode, data)
	}
	var summary struct {
		TotalPaid float64 `json:"total_paid"`
	}
	decode(t, data, &summary)
	if summary.TotalPaid != 150.00 {
		t.Fatalf("expected total paid 150.00, got %v", summary.TotalPaid)
	}
}

func TestInternCannotSeeFinancials(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	ownerToken := mintToken(t, ownerID)
	internToken := mintToken(t, internID)

	resp, data := env.request(t, http.MethodPost, "/api/pages", ownerToken, map[string]string{
		"name": "Silva Advocacia",
		"slug": "silva-advocacia",
		"kind": "individual",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create page: %d %s", resp.StatusCode, data)
	}
	var page struct {
		ID string `json:"id"`
	}
	decode(t, data, &page)

	resp, data = env.request(t, http.MethodPost, "/api/pages/"+page.ID+"/collaborations", ownerToken, map[string]string{
		"collaborator_id": internID,
		"role":            "intern",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("grant: %d %s", resp.StatusCode, data)
	}

	// Interns work the agenda but never the money.
	resp, data = env.request(t, http.MethodGet, "/api/pages/"+page.ID+"/appointments", internToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("intern appointments: %d %s", resp.StatusCode, data)
	}
	resp, data = env.request(t, http.MethodGet, "/api/pages/"+page.ID+"/finance/summary", internToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for intern summary, got %d %s", resp.StatusCode, data)
	}
}
