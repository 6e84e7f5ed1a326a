package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/bambini-app/bambini-api/internal/api/shared"
	"github.com/bambini-app/bambini-api/internal/domain"
	"github.com/bambini-app/bambini-api/internal/domain/agecalc"
	"github.com/bambini-app/bambini-api/internal/service"
)

// ChildHandler handles child registry API requests.
type ChildHandler struct {
	registry  *service.RegistryService
	validator *validator.Validate
	logger    *slog.Logger
}

// NewChildHandler creates a new ChildHandler with the given dependencies.
func NewChildHandler(registry *service.RegistryService, logger *slog.Logger) *ChildHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChildHandler{
		registry:  registry,
		validator: validator.New(),
		logger:    logger.With(slog.String("component", "child_handler")),
	}
}

// List handles GET /api/children.
func (h *ChildHandler) List(w http.ResponseWriter, r *http.Request) {
	guardianID, ok := requireGuardianID(w, r)
	if !ok {
		return
	}

	children, err := h.registry.ListChildren(r.Context(), guardianID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list children")
		return
	}

	resp := make([]ChildResponse, 0, len(children))
	for i := range children {
		cr := newChildResponse(&children[i])
		if age, err := agecalc.AgeInMonthsNow(children[i].DOB); err == nil {
			cr.AgeMonths = &age
		}
		resp = append(resp, cr)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Create handles POST /api/children: the add-child sequence. A link
// failure responds with the orphaned child's id so the client can retry
// the link instead of creating a duplicate.
func (h *ChildHandler) Create(w http.ResponseWriter, r *http.Request) {
	guardianID, ok := requireGuardianID(w, r)
	if !ok {
		return
	}

	var req AddChildRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	dob, err := time.Parse("2006-01-02", req.DOB)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid dob: must be YYYY-MM-DD")
		return
	}

	result, err := h.registry.AddChild(r.Context(), guardianID, service.AddChildInput{
		Draft: domain.ChildDraft{
			Name:     req.Name,
			DOB:      dob,
			Gender:   req.Gender,
			PhotoURL: req.PhotoURL,
		},
		SchoolCode: req.SchoolCode,
	})
	if err != nil {
		var linkErr *service.LinkFailedError
		if errors.As(err, &linkErr) {
			shared.RespondWithJSON(w, r, http.StatusInternalServerError, LinkFailedResponse{
				Error:   "Child created but linking failed; retry the link",
				ChildID: linkErr.ChildID,
				TraceID: shared.GetTraceID(r.Context()),
			})
			return
		}
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AddChildResponse{
		Child:             newChildResponse(result.Child),
		School:            newSchoolResponse(result.School),
		SchoolCodeUnknown: result.SchoolCodeUnknown,
	})
}

// Get handles GET /api/children/{id}.
func (h *ChildHandler) Get(w http.ResponseWriter, r *http.Request) {
	guardianID, ok := requireGuardianID(w, r)
	if !ok {
		return
	}

	childID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	child, err := h.registry.GetChild(r.Context(), guardianID, childID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := newChildResponse(child)
	if age, err := agecalc.AgeInMonthsNow(child.DOB); err == nil {
		resp.AgeMonths = &age
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// ResumeLink handles POST /api/children/{id}/link: the retry path for
// an add that created the child but failed to link it.
func (h *ChildHandler) ResumeLink(w http.ResponseWriter, r *http.Request) {
	guardianID, ok := requireGuardianID(w, r)
	if !ok {
		return
	}

	childID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.registry.ResumeLink(r.Context(), guardianID, childID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
