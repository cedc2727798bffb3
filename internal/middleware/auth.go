package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shortenerproject/shortener/internal/auth"
	"github.com/shortenerproject/shortener/internal/model"
)

// DefaultMinAuthDuration flattens the timing of auth failures and successes.
const DefaultMinAuthDuration = 200 * time.Millisecond

const lastUsedTimeout = 5 * time.Second

// KeyStore looks up stored API keys.
type KeyStore interface {
	GetAPIKeysByPrefix(ctx context.Context, prefix string) ([]*model.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id string) error
}

// AuthCache caches verified callers by auth.CacheKey.
type AuthCache interface {
	GetAuthContext(ctx context.Context, cacheKey string) (*model.AuthContext, error)
	SetAuthContext(ctx context.Context, cacheKey string, authCtx *model.AuthContext) error
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger *slog.Logger
	Keys   KeyStore
	// Cache is optional.
	Cache AuthCache
	// MinDuration is the floor for every auth attempt. Zero selects
	// DefaultMinAuthDuration; a negative value disables the floor.
	MinDuration time.Duration
}

// Auth authenticates API requests by key and stores the caller in the
// request context. All failures produce the same 401 body.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	minDuration := cfg.MinDuration
	if minDuration == 0 {
		minDuration = DefaultMinAuthDuration
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			authCtx, reason := authenticate(r, cfg)

			if elapsed := time.Since(start); elapsed < minDuration {
				time.Sleep(minDuration - elapsed)
			}

			if authCtx == nil {
				cfg.Logger.WarnContext(r.Context(), "authentication_failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing API key")
				return
			}

			ctx := auth.ContextWithAuth(r.Context(), authCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticate returns the verified caller, or nil and a failure reason.
func authenticate(r *http.Request, cfg AuthConfig) (*model.AuthContext, string) {
	ctx := r.Context()

	key := extractAPIKey(r)
	if key == "" {
		return nil, "missing_key"
	}

	parsed, err := auth.ParseAPIKey(key)
	if err != nil {
		return nil, "invalid_format"
	}

	cacheKey := auth.CacheKey(key)
	if cfg.Cache != nil {
		cached, err := cfg.Cache.GetAuthContext(ctx, cacheKey)
		if err != nil {
			cfg.Logger.WarnContext(ctx, "auth_cache_unavailable", slog.String("error", err.Error()))
		}
		if cached != nil {
			return cached, ""
		}
	}

	candidates, err := cfg.Keys.GetAPIKeysByPrefix(ctx, parsed.Prefix)
	if err != nil {
		cfg.Logger.ErrorContext(ctx, "auth_lookup_failed",
			slog.String("error", err.Error()),
			slog.String("request_id", GetRequestID(ctx)),
		)
		return nil, "lookup_failed"
	}

	var matched *model.APIKey
	for _, k := range candidates {
		if k.IsRevoked() {
			continue
		}
		if ok, err := auth.VerifyKey(key, k.KeyHash); err == nil && ok {
			matched = k
			break
		}
	}
	if matched == nil {
		return nil, "invalid_key"
	}

	authCtx := &model.AuthContext{
		KeyID:     matched.ID,
		KeyPrefix: matched.KeyPrefix,
		UserID:    matched.UserID,
		Scopes:    matched.Scopes,
	}

	if cfg.Cache != nil {
		if err := cfg.Cache.SetAuthContext(ctx, cacheKey, authCtx); err != nil {
			cfg.Logger.WarnContext(ctx, "auth_cache_unavailable", slog.String("error", err.Error()))
		}
	}

	go touchLastUsed(context.WithoutCancel(ctx), cfg, matched.ID)

	return authCtx, ""
}

func touchLastUsed(ctx context.Context, cfg AuthConfig, keyID string) {
	ctx, cancel := context.WithTimeout(ctx, lastUsedTimeout)
	defer cancel()
	if err := cfg.Keys.UpdateAPIKeyLastUsed(ctx, keyID); err != nil {
		cfg.Logger.Warn("api_key_touch_failed",
			slog.String("key_id", keyID),
			slog.String("error", err.Error()),
		)
	}
}

// extractAPIKey reads "Authorization: Bearer <key>" or "X-API-Key: <key>".
func extractAPIKey(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.Header.Get("X-API-Key")
}
