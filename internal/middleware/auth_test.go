package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/inkwell/inkwell/internal/auth"
	"github.com/inkwell/inkwell/internal/model"
	"github.com/inkwell/inkwell/internal/repository"
)

type stubResolver struct {
	mu      sync.Mutex
	users   map[string]*model.User
	lookups int
}

func (s *stubResolver) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	user, ok := s.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

type stubIdentityCache struct {
	mu      sync.Mutex
	entries map[string]*model.Identity
}

func (s *stubIdentityCache) GetIdentity(_ context.Context, cacheKey string) (*model.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[cacheKey], nil
}

func (s *stubIdentityCache) SetIdentity(_ context.Context, cacheKey string, ident *model.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[cacheKey] = ident
	return nil
}

var authTestSecret = []byte("middleware-test-secret")

func newAuthHandler(t *testing.T, resolver UserResolver, cache IdentityCache) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mw := Auth(AuthConfig{
		Logger: logger,
		Secret: authTestSecret,
		Users:  resolver,
		Cache:  cache,
	})

	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident := auth.IdentityFromContext(r.Context())
		if ident == nil {
			t.Error("handler reached without identity in context")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(ident.UserID))
	}))
}

func TestAuthRejects(t *testing.T) {
	resolver := &stubResolver{users: map[string]*model.User{}}
	handler := newAuthHandler(t, resolver, nil)

	validToken, err := auth.SignToken(authTestSecret, "ghost@example.com", time.Hour)
	if err != nil {
		t.Fatalf("SignToken() error = %v", err)
	}
	expiredToken, err := auth.SignToken(authTestSecret, "ghost@example.com", -time.Minute)
	if err != nil {
		t.Fatalf("SignToken() error = %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc123"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + signWithOtherSecret(t)},
		{"expired token", "Bearer " + expiredToken},
		{"vanished user", "Bearer " + validToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/articles/create", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func signWithOtherSecret(t *testing.T) string {
	t.Helper()
	token, err := auth.SignToken([]byte("some-other-secret"), "ghost@example.com", time.Hour)
	if err != nil {
		t.Fatalf("SignToken() error = %v", err)
	}
	return token
}

func TestAuthInjectsIdentity(t *testing.T) {
	resolver := &stubResolver{users: map[string]*model.User{
		"ada@example.com": {
			ID:        "user-1",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
		},
	}}
	handler := newAuthHandler(t, resolver, nil)

	token, err := auth.SignToken(authTestSecret, "ada@example.com", time.Hour)
	if err != nil {
		t.Fatalf("SignToken() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/articles/create", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "user-1" {
		t.Errorf("identity user id = %q, want user-1", rec.Body.String())
	}
}

func TestAuthUsesIdentityCache(t *testing.T) {
	resolver := &stubResolver{users: map[string]*model.User{
		"ada@example.com": {
			ID:        "user-1",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
		},
	}}
	cache := &stubIdentityCache{entries: map[string]*model.Identity{}}
	handler := newAuthHandler(t, resolver, cache)

	token, err := auth.SignToken(authTestSecret, "ada@example.com", time.Hour)
	if err != nil {
		t.Fatalf("SignToken() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/articles/create", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
	}

	if resolver.lookups != 1 {
		t.Errorf("resolver hit %d times, want once with a warm cache", resolver.lookups)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty", "", ""},
		{"bearer", "Bearer abc", "abc"},
		{"lowercase scheme", "bearer abc", "abc"},
		{"no token", "Bearer", ""},
		{"wrong scheme", "Basic abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if got := extractBearerToken(req); got != tt.want {
				t.Errorf("extractBearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}
