package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIsPublicRoute(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   bool
	}{
		{"POST", "/api/login", true},
		{"GET", "/health", true},
		{"GET", "/metrics", true},
		{"GET", "/", true},
		{"POST", "/", false},
		{"GET", "/api/survey-responses", false},
		{"POST", "/api/import-csv", false},
		{"GET", "/api/users", false},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			if got := isPublicRoute(tt.method, tt.path); got != tt.want {
				t.Errorf("isPublicRoute(%q, %q) = %v, want %v", tt.method, tt.path, got, tt.want)
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	cfg := testConfig()
	token, err := GenerateAccessToken(cfg, "admin", "admin")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	var gotUser *AuthUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = GetAuthUser(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := Middleware(cfg)(next)

	tests := []struct {
		name       string
		method     string
		path       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "GET", "/api/survey-responses", "Bearer " + token, http.StatusOK},
		{"lowercase bearer", "GET", "/api/survey-responses", "bearer " + token, http.StatusOK},
		{"missing header", "GET", "/api/survey-responses", "", http.StatusUnauthorized},
		{"malformed header", "GET", "/api/survey-responses", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "GET", "/api/survey-responses", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"public route without token", "POST", "/api/login", "", http.StatusOK},
		{"liveness without token", "GET", "/", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser = nil
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}

	// 通过认证后 context 携带用户身份
	req := httptest.NewRequest("GET", "/api/survey-responses", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if gotUser == nil || gotUser.Username != "admin" || gotUser.Role != "admin" {
		t.Errorf("auth user = %+v, want admin/admin", gotUser)
	}
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	cfg := testConfig()
	expired, err := GenerateAccessToken(Config{JWTSecret: cfg.JWTSecret, AccessTokenTTL: -30 * time.Minute}, "admin", "admin")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	handler := Middleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/survey-responses", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAdminOnly(t *testing.T) {
	handler := AdminOnly(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		user       *AuthUser
		wantStatus int
	}{
		{"admin", &AuthUser{Username: "admin", Role: "admin"}, http.StatusOK},
		{"regular user", &AuthUser{Username: "testuser", Role: "user"}, http.StatusForbidden},
		{"no auth user", nil, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("DELETE", "/api/users/usr-001", nil)
			if tt.user != nil {
				req = req.WithContext(WithAuthUser(req.Context(), tt.user))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
