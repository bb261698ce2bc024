package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oakfield-labs/clinic-scheduler/internal/booking"
	"github.com/oakfield-labs/clinic-scheduler/internal/http/handlers"
	"github.com/oakfield-labs/clinic-scheduler/internal/mailroom"
	"github.com/oakfield-labs/clinic-scheduler/internal/schedule"
	"github.com/oakfield-labs/clinic-scheduler/pkg/logging"
)

const testAdminSecret = "router-test-secret"

type echoEngine struct{}

func (echoEngine) HandleMessage(_ context.Context, _ booking.Inbound) booking.Result {
	return booking.Result{Disposition: booking.DispositionClarification, Replied: true}
}

type emptyAvailability struct{}

func (emptyAvailability) Read(_ context.Context, _ string) []schedule.Window { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.Default()
	dispatcher := mailroom.NewDispatcher(echoEngine{}, mailroom.NewMemoryQueue(8), logger)
	t.Cleanup(func() { _ = dispatcher.Shutdown(context.Background()) })

	cfg := &Config{
		Logger:          logger,
		InboundEmail:    handlers.NewInboundEmailHandler(dispatcher, nil, nil, logger),
		Admin:           handlers.NewAdminHandler(handlers.AdminConfig{Availability: emptyAvailability{}}),
		AdminAuthSecret: testAdminSecret,
	}
	return New(cfg)
}

func adminToken(t *testing.T) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "ops",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testAdminSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestRouterInboundWebhook(t *testing.T) {
	router := newTestRouter(t)

	body := `{"from": "pat@example.com", "text_body": "do you have anything this week?"}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/inbound-email", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
}

func TestRouterAdminRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/availability", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestRouterAdminWithToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/availability", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
}

func TestRouterAdminSimulate(t *testing.T) {
	router := newTestRouter(t)

	body := `{"from": "pat@example.com", "text_body": "hm"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/messages/simulate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
}
