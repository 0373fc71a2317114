package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/redmonkez12/go-auth-api/internal/httputil"
	"github.com/redmonkez12/go-auth-api/internal/logging"
)

// maxRequestBodyBytes bounds JSON request bodies
const maxRequestBodyBytes = 1 << 20

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const IdentityContextKey ContextKey = "identity"

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Middleware resolves the caller's identity before protected handlers run.
// Every failure is reported with the same generic 401.
type Middleware struct {
	service      *Service
	tokenService TokenService
}

func NewMiddleware(service *Service, tokenService TokenService) *Middleware {
	return &Middleware{
		service:      service,
		tokenService: tokenService,
	}
}

// RequireCredentials checks the email and password in the request body.
// Only the login route uses it.
func (m *Middleware) RequireCredentials(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.GetLoggerFromContext(r.Context())

		var req LoginRequest
		body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			logger.Warn("invalid login request body", "error", err.Error())
			httputil.RespondError(w, "invalid request body", http.StatusBadRequest)
			return
		}

		if req.Email == "" || req.Password == "" {
			logger.Warn("login failed: missing credentials")
			httputil.RespondUnauthorized(w)
			return
		}

		validated, err := m.service.ValidateCredentials(r.Context(), req.Email, req.Password)
		if err != nil {
			logger.Error("login failed: internal error", "error", err.Error())
			httputil.RespondError(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if validated == nil {
			logger.Warn("login failed: invalid credentials")
			httputil.RespondUnauthorized(w)
			return
		}

		ctx := WithIdentity(r.Context(), Identity{ID: validated.ID, Email: validated.Email})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth is a middleware that validates the bearer access token
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.GetLoggerFromContext(r.Context())

		token, ok := bearerToken(r)
		if !ok {
			logger.Warn("authentication failed: missing bearer token")
			httputil.RespondUnauthorized(w)
			return
		}

		claims, err := m.tokenService.VerifyToken(token)
		if err != nil {
			logger.Warn("authentication failed", "reason", err.Error())
			httputil.RespondUnauthorized(w)
			return
		}

		ctx := WithIdentity(r.Context(), Identity{ID: claims.UserID, Email: claims.Email})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from "Authorization: Bearer <token>"
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

// WithIdentity attaches the resolved identity to the context and tags the
// request log with the user id.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	logging.SetUserID(ctx, identity.ID)
	return context.WithValue(ctx, IdentityContextKey, identity)
}

// IdentityFromContext extracts the resolved identity from the request context
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(Identity)
	return identity, ok
}
