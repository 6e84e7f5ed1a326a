package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bambini-app/bambini-api/internal/api/shared"
	"github.com/bambini-app/bambini-api/internal/domain"
	"github.com/bambini-app/bambini-api/internal/identity"
)

// getGuardianIDFromContext extracts the authenticated guardian's id
// from the request context, where the authentication middleware put it.
func getGuardianIDFromContext(r *http.Request) (uuid.UUID, bool) {
	guardianID, ok := r.Context().Value(shared.GuardianIDContextKey).(uuid.UUID)
	if !ok || guardianID == uuid.Nil {
		return uuid.Nil, false
	}
	return guardianID, true
}

// requireGuardianID extracts the guardian id or writes an unauthorized
// response. Returns false when a response was written.
func requireGuardianID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	guardianID, ok := getGuardianIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "Guardian ID not found or invalid")
		return uuid.Nil, false
	}
	return guardianID, true
}

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// newSessionResponse converts an identity session into its API shape.
func newSessionResponse(session *identity.Session) *SessionResponse {
	if session == nil {
		return nil
	}
	return &SessionResponse{
		GuardianID:   session.Principal.ID,
		Email:        session.Principal.Email,
		FullName:     session.Principal.FullName,
		Role:         string(session.Principal.Role),
		AccessToken:  session.Token.AccessToken,
		RefreshToken: session.Token.RefreshToken,
		ExpiresAt:    session.Token.ExpiresAt.UTC().Format(time.RFC3339),
	}
}
