package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/bambini-app/bambini-api/internal/api/middleware"
	"github.com/bambini-app/bambini-api/internal/api/shared"
	"github.com/bambini-app/bambini-api/internal/identity"
	"github.com/bambini-app/bambini-api/internal/nav"
	"github.com/bambini-app/bambini-api/internal/service"
	"github.com/bambini-app/bambini-api/internal/session"
)

// StateHandler answers GET /api/state: the caller's lifecycle state and
// the surface to route to. Authentication is optional here; an absent
// or bad token simply means the pre-auth surface.
type StateHandler struct {
	authenticator middleware.Authenticator
	registry      *service.RegistryService
	logger        *slog.Logger
}

// NewStateHandler creates a new StateHandler with the given dependencies.
func NewStateHandler(
	authenticator middleware.Authenticator,
	registry *service.RegistryService,
	logger *slog.Logger,
) *StateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StateHandler{
		authenticator: authenticator,
		registry:      registry,
		logger:        logger.With(slog.String("component", "state_handler")),
	}
}

// Get handles GET /api/state.
func (h *StateHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap := session.Snapshot{State: session.StateUnauthenticated}
	hasChildren := false

	if token, ok := stateBearerToken(r); ok {
		principal, err := h.authenticator.Authenticate(r.Context(), token)
		if err == nil {
			snap = session.Snapshot{
				State: session.StateAuthenticated,
				Session: &identity.Session{
					Principal: *principal,
					Token:     identity.TokenMetadata{AccessToken: token},
				},
			}

			children, err := h.registry.ListChildren(r.Context(), principal.ID)
			if err != nil {
				HandleAPIError(w, r, err, "Failed to resolve state")
				return
			}
			hasChildren = len(children) > 0
		}
	}

	resp := StateResponse{
		State:       string(snap.State),
		Route:       string(nav.Resolve(snap, hasChildren)),
		HasChildren: hasChildren,
	}
	if snap.Session != nil {
		sr := newSessionResponse(snap.Session)
		sr.RefreshToken = ""
		sr.ExpiresAt = ""
		resp.Session = sr
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

func stateBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}
