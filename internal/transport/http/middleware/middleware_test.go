package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"govpay/internal/domain/auth"
)

func TestRequestIDGenerated(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if captured == "" {
		t.Fatal("no request id in context")
	}
	if rec.Header().Get("X-Request-ID") != captured {
		t.Fatalf("header %q does not match context %q", rec.Header().Get("X-Request-ID"), captured)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-supplied")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if captured != "client-supplied" {
		t.Fatalf("request id = %q, want client-supplied", captured)
	}
}

func TestAuthPassThroughAndGating(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: 1, Email: "a@example.com", Role: auth.RoleAgent}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var user auth.UserContext
	var ok bool
	chain := Auth(secret)(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok = GetUser(r.Context())
	})))

	// No token: 401 from RequireAuth.
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", rec.Code)
	}

	// Valid token: identity lands in context.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated status = %d, want 200", rec.Code)
	}
	if !ok || user.UserID != 1 || user.Role != auth.RoleAgent {
		t.Fatalf("user context = %+v", user)
	}
}

func TestRequireAdmin(t *testing.T) {
	secret := "test-secret"
	agentToken, _ := auth.GenerateToken(secret, auth.Claims{UserID: 1, Role: auth.RoleAgent}, time.Hour)
	adminToken, _ := auth.GenerateToken(secret, auth.Claims{UserID: 2, Role: auth.RoleAdmin}, time.Hour)

	chain := Auth(secret)(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+agentToken)
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("agent status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin status = %d, want 200", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	handler := RateLimit(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("over-limit status = %d, want 429", rec.Code)
	}

	// A different client keeps its own budget.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("other client status = %d, want 200", rec.Code)
	}
}
