package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/bambini-app/bambini-api/internal/api/shared"
	"github.com/bambini-app/bambini-api/internal/identity"
)

// Authenticator resolves a bearer access token to its principal. The
// local identity provider satisfies this.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*identity.Principal, error)
}

// AuthMiddleware provides bearer-token authentication for routes.
type AuthMiddleware struct {
	authenticator Authenticator
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(authenticator Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// Authenticate validates the Authorization header and adds the
// guardian's id to the request context for authorized requests.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		principal, err := m.authenticator.Authenticate(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, identity.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, identity.ErrInvalidToken),
				errors.Is(err, identity.ErrWrongTokenType):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				slog.Error("failed to authenticate request", "error", err)
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		ctx := context.WithValue(r.Context(), shared.GuardianIDContextKey, principal.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from a "Bearer <token>" Authorization
// header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// GetGuardianID extracts the guardian ID from the request context.
// Returns the id and a boolean indicating if it was found.
func GetGuardianID(r *http.Request) (uuid.UUID, bool) {
	guardianID, ok := r.Context().Value(shared.GuardianIDContextKey).(uuid.UUID)
	return guardianID, ok
}
