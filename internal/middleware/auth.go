package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go-shop-api/internal/model"
	"go-shop-api/internal/permission"
	"go-shop-api/internal/token"
)

type tokenVerifier interface {
	Verify(purpose token.Purpose, raw string) (*token.Claims, error)
}

type blacklistLookup interface {
	Contains(ctx context.Context, token string) (bool, error)
}

type identityStore interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

type failureCounter interface {
	AuthFailure(reason string)
}

type contextKey string

const (
	identityContextKey contextKey = "identity"
	tokenContextKey    contextKey = "bearer_token"
)

type AuthMiddleware struct {
	tokens    tokenVerifier
	blacklist blacklistLookup
	users     identityStore
	table     *permission.Table
	failures  failureCounter
}

func NewAuthMiddleware(tokens tokenVerifier, blacklist blacklistLookup, users identityStore, table *permission.Table, failures failureCounter) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:    tokens,
		blacklist: blacklist,
		users:     users,
		table:     table,
		failures:  failures,
	}
}

// Authenticate resolves the bearer token of the given purpose into an
// Identity. The checks run in a fixed order and stop at the first failure:
// header, token, signature and expiry, blacklist, subject, suspension.
func (m *AuthMiddleware) Authenticate(purpose token.Purpose) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			header := strings.TrimSpace(r.Header.Get("Authorization"))
			if header == "" {
				m.reject(w, http.StatusUnauthorized, "missing_header", "No authorization header provided")
				return
			}

			raw := BearerToken(header)
			if raw == "" {
				m.reject(w, http.StatusUnauthorized, "missing_token", "No token provided")
				return
			}

			claims, err := m.tokens.Verify(purpose, raw)
			if err != nil {
				if errors.Is(err, model.ErrInvalidToken) {
					m.reject(w, http.StatusUnauthorized, "invalid_token", "Invalid token")
					return
				}
				internalError(w, r, "token verification failed", err)
				return
			}

			blacklisted, err := m.blacklist.Contains(ctx, raw)
			if err != nil {
				internalError(w, r, "blacklist lookup failed", err)
				return
			}
			if blacklisted {
				m.reject(w, http.StatusUnauthorized, "blacklisted", "Token is blacklisted")
				return
			}

			user, err := m.users.FindByID(ctx, claims.UserID)
			if errors.Is(err, model.ErrUserNotFound) {
				m.reject(w, http.StatusUnauthorized, "unknown_subject", "User not found")
				return
			}
			if err != nil {
				internalError(w, r, "identity lookup failed", err)
				return
			}

			if user.Suspended {
				m.reject(w, http.StatusForbidden, "suspended", "User account is suspended")
				return
			}

			ctx = context.WithValue(ctx, identityContextKey, user.Identity())
			ctx = context.WithValue(ctx, tokenContextKey, raw)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Require guards a route with a permission set. Every permission must be
// held by the identity's role.
func (m *AuthMiddleware) Require(required ...permission.Permission) func(http.Handler) http.Handler {
	if len(required) == 0 {
		panic("middleware: Require needs at least one permission")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				m.reject(w, http.StatusUnauthorized, "unauthenticated", "Unauthorized")
				return
			}

			if identity.Suspended {
				m.reject(w, http.StatusForbidden, "suspended", "User is suspended")
				return
			}

			if !m.table.HasAll(identity.Role, required...) {
				m.reject(w, http.StatusForbidden, "forbidden", "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, status int, reason string, message string) {
	if m.failures != nil {
		m.failures.AuthFailure(reason)
	}

	code := "UNAUTHORIZED"
	if status == http.StatusForbidden {
		code = "FORBIDDEN"
	}
	writeError(w, status, code, message)
}

func internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.Error(msg, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

// BearerToken extracts the credential from an Authorization header value.
// It returns "" when the scheme is not Bearer or the token part is empty.
func BearerToken(header string) string {
	scheme, rest, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(rest)
}

func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(model.Identity)
	return identity, ok
}

// TokenFromContext returns the raw bearer token accepted by Authenticate.
func TokenFromContext(ctx context.Context) (string, bool) {
	raw, ok := ctx.Value(tokenContextKey).(string)
	return raw, ok && raw != ""
}

// ContextWithIdentity attaches identity as Authenticate would.
func ContextWithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}
