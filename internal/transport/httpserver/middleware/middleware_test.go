package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"wedding-app-go/internal/config"
	weddingdomain "wedding-app-go/internal/domain/wedding"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func captureUser(got *User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		*got = user
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestLocalJWTVerification(t *testing.T) {
	auth := NewSupabaseAuth(config.SupabaseConfig{JWTSecret: testSecret}, nil)

	var got User
	handler := auth.Middleware(captureUser(&got))

	token := signToken(t, jwt.MapClaims{
		"sub":           "user-1",
		"aud":           "authenticated",
		"exp":           time.Now().Add(time.Hour).Unix(),
		"email":         "ana@example.com",
		"user_metadata": map[string]interface{}{"full_name": "Ana"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/guests", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.ID != "user-1" || got.Email != "ana@example.com" || got.Name != "Ana" {
		t.Fatalf("unexpected user %+v", got)
	}
}

func TestLocalJWTRejectsExpiredAndWrongAudience(t *testing.T) {
	auth := NewSupabaseAuth(config.SupabaseConfig{JWTSecret: testSecret}, nil)
	var got User
	handler := auth.Middleware(captureUser(&got))

	tokens := []string{
		signToken(t, jwt.MapClaims{"sub": "user-1", "aud": "authenticated", "exp": time.Now().Add(-time.Minute).Unix()}),
		signToken(t, jwt.MapClaims{"sub": "user-1", "aud": "anon", "exp": time.Now().Add(time.Hour).Unix()}),
		signToken(t, jwt.MapClaims{"sub": "user-1", "aud": "authenticated"}),
	}
	for i, token := range tokens {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("token %d: expected 401, got %d", i, rec.Code)
		}
	}
}

func TestRemoteVerification(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" || r.Header.Get("apikey") != "anon-key" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":"user-2","email":"ben@example.com","user_metadata":{"name":"Ben"}}`))
	}))
	defer server.Close()

	auth := NewSupabaseAuth(config.SupabaseConfig{URL: server.URL, PublishableKey: "anon-key"}, nil)
	var got User
	handler := auth.Middleware(captureUser(&got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || got.ID != "user-2" || got.Name != "Ben" {
		t.Fatalf("unexpected result %d %+v", rec.Code, got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestWebsocketQueryToken(t *testing.T) {
	auth := NewSupabaseAuth(config.SupabaseConfig{JWTSecret: testSecret}, nil)
	var got User
	handler := auth.Middleware(captureUser(&got))

	token := signToken(t, jwt.MapClaims{"sub": "user-3", "aud": "authenticated", "exp": time.Now().Add(time.Hour).Unix()})

	req := httptest.NewRequest(http.MethodGet, "/api/realtime?table=guests&access_token="+token, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected query token to be ignored without upgrade, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/realtime?table=guests&access_token="+token, nil)
	req.Header.Set("Upgrade", "websocket")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || got.ID != "user-3" {
		t.Fatalf("expected upgrade request to authenticate, got %d %+v", rec.Code, got)
	}
}

func TestMockUser(t *testing.T) {
	auth := NewSupabaseAuth(config.SupabaseConfig{SkipAuth: true, MockUserID: "mock-1"}, nil)
	var got User
	rec := httptest.NewRecorder()
	auth.Middleware(captureUser(&got)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got.ID != "mock-1" {
		t.Fatalf("expected mock user, got %+v", got)
	}
}

type stubResolver struct {
	wedding *weddingdomain.Wedding
	err     error
}

func (s stubResolver) GetByOwner(context.Context, string) (*weddingdomain.Wedding, error) {
	return s.wedding, s.err
}

func TestRequireWedding(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wedding, _ := WeddingFromContext(r.Context())
		seen = wedding.ID
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), User{ID: "owner-1"}))

	rec := httptest.NewRecorder()
	RequireWedding(stubResolver{wedding: &weddingdomain.Wedding{ID: "w1"}}, nil)(next).ServeHTTP(rec, req)
	if seen != "w1" {
		t.Fatalf("expected wedding in context, got %q", seen)
	}

	rec = httptest.NewRecorder()
	RequireWedding(stubResolver{err: weddingdomain.ErrWeddingNotFound}, nil)(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	handler := NewCORS([]string{"http://localhost:5173"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/guests", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("missing allow origin header")
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/guests", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("plain OPTIONS should reach the handler, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/guests", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("unexpected allow origin for unknown origin")
	}
}
