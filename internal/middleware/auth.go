package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/inkwell/inkwell/internal/auth"
	"github.com/inkwell/inkwell/internal/metrics"
	"github.com/inkwell/inkwell/internal/model"
)

// UserResolver resolves a token's email claim to a live user.
// *repository.Repository satisfies it.
type UserResolver interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// IdentityCache caches resolved identities keyed by token hash.
// *cache.Cache satisfies it; nil disables caching.
type IdentityCache interface {
	GetIdentity(ctx context.Context, cacheKey string) (*model.Identity, error)
	SetIdentity(ctx context.Context, cacheKey string, ident *model.Identity) error
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger  *slog.Logger
	Secret  []byte
	Users   UserResolver
	Cache   IdentityCache
	Metrics metrics.Recorder
}

// Auth returns a middleware that authenticates requests by bearer token.
// It verifies the token signature and expiry, resolves the email claim
// to a live user, and injects the caller's Identity into the request
// context. All failures get the same 401 so callers cannot probe which
// part of a credential was wrong.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			email, err := auth.VerifyToken(cfg.Secret, token)
			if err != nil {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "invalid_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			// Check the identity cache first. The key is a hash of the
			// token, so a raw token never lands in Redis.
			cacheKey := auth.QuickHash(token)
			if cfg.Cache != nil {
				if ident, _ := cfg.Cache.GetIdentity(r.Context(), cacheKey); ident != nil {
					recorder.IncAuthCacheHit()
					ctx := auth.ContextWithIdentity(r.Context(), ident)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				recorder.IncAuthCacheMiss()
			}

			user, err := cfg.Users.GetUserByEmail(r.Context(), email)
			if err != nil {
				// A vanished user and a database failure both deny; the
				// distinction is for operators only.
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "unresolved_user"),
					slog.String("error", err.Error()),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			ident := &model.Identity{
				UserID:    user.ID,
				FirstName: user.FirstName,
				LastName:  user.LastName,
			}

			if cfg.Cache != nil {
				if err := cfg.Cache.SetIdentity(r.Context(), cacheKey, ident); err != nil {
					cfg.Logger.Warn("failed to cache identity",
						slog.String("error", err.Error()),
					)
				}
			}

			ctx := auth.ContextWithIdentity(r.Context(), ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken pulls the token out of the Authorization header.
// Returns "" if the header is absent or not a bearer credential.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// writeAuthError writes the uniform 401 response.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"message":"Unauthorized."}`))
}
