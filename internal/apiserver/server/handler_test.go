package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"survey-admin/internal/apiserver/auth"
	"survey-admin/internal/shared/storage"
	sqlitedriver "survey-admin/internal/shared/storage/driver/sqlite"
	"survey-admin/internal/shared/storage/repository"
)

func newTestRouter(t *testing.T) (http.Handler, storage.PersistentStore) {
	t.Helper()
	db, err := sqlitedriver.Open(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	dialect := sqlitedriver.NewDialect()
	if err := dialect.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	store := repository.NewStore(db, dialect)
	t.Cleanup(func() { store.Close() })

	if err := auth.EnsureSeedUsers(store); err != nil {
		t.Fatalf("seed users: %v", err)
	}

	cfg := auth.Config{JWTSecret: "test-secret", AccessTokenTTL: 30 * time.Minute}
	return NewHandler(store, cfg, nil).Router(), store
}

// login 走完整登录流程换取访问令牌
func login(t *testing.T, router http.Handler, username, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest("POST", "/api/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp["token_type"] != "bearer" {
		t.Errorf("token_type = %q, want bearer", resp["token_type"])
	}
	return resp["access_token"]
}

func TestRouterPublicEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name     string
		path     string
		wantBody string
	}{
		{"liveness", "/", `"message":"Survey Dashboard API"`},
		{"health", "/health", `"status":"ok"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if !bytes.Contains(rec.Body.Bytes(), []byte(tt.wantBody)) {
				t.Errorf("body = %s, want contains %s", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestRouterRequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	paths := []string{"/api/survey-responses", "/api/stats", "/api/export-csv", "/api/users"}
	for _, path := range paths {
		req := httptest.NewRequest("GET", path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s status = %d, want %d", path, rec.Code, http.StatusUnauthorized)
		}
	}
}

func TestRouterAuthenticatedFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	token := login(t, router, "admin", "secret")

	// 带令牌访问问卷接口
	body, _ := json.Marshal(map[string]string{"location": "Mitte"})
	req := httptest.NewRequest("POST", "/api/survey-responses", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest("GET", "/api/survey-responses", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("Mitte")) {
		t.Errorf("list body missing record: %s", rec.Body.String())
	}
}

func TestRouterAdminGate(t *testing.T) {
	router, _ := newTestRouter(t)

	// 普通用户访问用户管理接口被拒
	userToken := login(t, router, "testuser", "password123")
	req := httptest.NewRequest("GET", "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("user token status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	adminToken := login(t, router, "admin", "secret")
	req = httptest.NewRequest("GET", "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("admin token status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest("OPTIONS", "/api/survey-responses", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/survey-responses", "/api/survey-responses"},
		{"/api/survey-responses/resp-abc123", "/api/survey-responses/{id}"},
		{"/api/users/usr-abc123", "/api/users/{id}"},
		{"/api/stats", "/api/stats"},
	}
	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
