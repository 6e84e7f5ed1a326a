package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/bambini-app/bambini-api/internal/api/shared"
	"github.com/bambini-app/bambini-api/internal/domain"
	"github.com/bambini-app/bambini-api/internal/identity"
)

// IdentityService is the slice of the identity provider the auth
// handler needs.
type IdentityService interface {
	SignIn(ctx context.Context, email, password string) (*identity.Session, error)
	SignUp(ctx context.Context, email, password string, profile identity.Profile) (*identity.SignUpOutcome, error)
	SignOut(ctx context.Context) error
	Refresh(ctx context.Context, refreshToken string) (*identity.Session, error)
	ConfirmEmail(ctx context.Context, token string) error
}

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	identitySvc IdentityService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(identitySvc IdentityService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		identitySvc: identitySvc,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "auth_handler")),
	}
}

// SignUp handles the /api/auth/signup endpoint.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	outcome, err := h.identitySvc.SignUp(r.Context(), req.Email, req.Password, identity.Profile{
		FullName: req.FullName,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, SignUpResponse{
		Session:             newSessionResponse(outcome.Session),
		ConfirmationPending: outcome.ConfirmationPending,
	})
}

// SignIn handles the /api/auth/signin endpoint.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	session, err := h.identitySvc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newSessionResponse(session))
}

// SignOut handles the /api/auth/signout endpoint.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.identitySvc.SignOut(r.Context()); err != nil {
		// The session is torn down locally even when teardown fails
		// upstream; report the failure but the caller is signed out.
		h.logger.Warn("sign-out completed with error", slog.String("error", err.Error()))
	}
	w.WriteHeader(http.StatusNoContent)
}

// Refresh handles the /api/auth/refresh endpoint.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	session, err := h.identitySvc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newSessionResponse(session))
}

// Confirm handles the /api/auth/confirm endpoint.
func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.identitySvc.ConfirmEmail(r.Context(), req.Token); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
