package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spendwise/spendwise/internal/auth"
	"github.com/spendwise/spendwise/internal/handler/dto"
	"github.com/spendwise/spendwise/internal/model"
)

// Authenticator verifies a raw bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.AuthContext, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger        *slog.Logger
	Authenticator Authenticator
}

// Auth returns a middleware that authenticates API requests.
// It reads the token from the Authorization header, verifies it,
// and injects the auth context into the request.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				logAuthFailure(cfg.Logger, r, "missing_token")
				writeAuthError(w)
				return
			}

			authCtx, err := cfg.Authenticator.Authenticate(r.Context(), token)
			if err != nil {
				logAuthFailure(cfg.Logger, r, "invalid_token")
				writeAuthError(w)
				return
			}

			annotateUser(r.Context(), authCtx.UserID)
			cfg.Logger.Debug("authentication successful",
				slog.String("user_id", authCtx.UserID),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			ctx := auth.WithCaller(r.Context(), authCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken returns the Authorization header value. Tokens are sent
// exactly as issued; a "Bearer " prefix is accepted too.
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) >= 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return strings.TrimSpace(header)
}

func logAuthFailure(logger *slog.Logger, r *http.Request, reason string) {
	logger.Warn("authentication failed",
		slog.String("reason", reason),
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	)
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing token")
}

// writeError writes a dto.ErrorResponse.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: message, Code: code})
}
