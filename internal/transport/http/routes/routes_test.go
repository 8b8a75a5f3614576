package routes_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-accounts/internal/infra/config"
	httproutes "github.com/arklim/social-platform-accounts/internal/transport/http/routes"
)

type stubChecker struct {
	err error
}

func (s stubChecker) Ping(ctx context.Context) error {
	return s.err
}

func newTestEngine(t *testing.T, checker httproutes.DatabaseChecker) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	return httproutes.Register(httproutes.Dependencies{
		Config:   &config.AppConfig{App: config.AppSettings{Env: "test"}},
		Logger:   zap.NewNop(),
		Database: checker,
	})
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestEngine(t, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestReadinessEndpointReportsHealthyDatabase(t *testing.T) {
	r := newTestEngine(t, stubChecker{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/readyz", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode readiness body: %v", err)
	}
	if body.Status != "ok" {
		t.Fatalf("expected overall status ok, got %q", body.Status)
	}
	if body.Checks["database"] != "ok" {
		t.Fatalf("expected database check ok, got %q", body.Checks["database"])
	}
}

func TestReadinessEndpointDegradesWhenDatabaseDown(t *testing.T) {
	r := newTestEngine(t, stubChecker{err: errors.New("connection refused")})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/readyz", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", w.Code)
	}
}

func TestProtectedRouteRejectsMissingToken(t *testing.T) {
	r := newTestEngine(t, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}
