package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/bambini-app/bambini-api/internal/api/shared"
	"github.com/bambini-app/bambini-api/internal/domain"
	"github.com/bambini-app/bambini-api/internal/service"
)

// ActivityHandler handles activity catalog API requests.
type ActivityHandler struct {
	activities *service.ActivityService
	logger     *slog.Logger
}

// NewActivityHandler creates a new ActivityHandler with the given dependencies.
func NewActivityHandler(activities *service.ActivityService, logger *slog.Logger) *ActivityHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityHandler{
		activities: activities,
		logger:     logger.With(slog.String("component", "activity_handler")),
	}
}

// List handles GET /api/activities. Exactly one of the age_months and
// child_id query parameters selects the matching mode.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	guardianID, ok := requireGuardianID(w, r)
	if !ok {
		return
	}

	ageParam := r.URL.Query().Get("age_months")
	childParam := r.URL.Query().Get("child_id")

	var (
		matched []domain.Activity
		err     error
	)
	switch {
	case ageParam != "" && childParam != "":
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Provide either age_months or child_id, not both")
		return
	case ageParam != "":
		ageMonths, parseErr := strconv.Atoi(ageParam)
		if parseErr != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid age_months: must be an integer")
			return
		}
		matched, err = h.activities.MatchForAge(r.Context(), ageMonths)
	case childParam != "":
		childID, parseErr := uuid.Parse(childParam)
		if parseErr != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid child_id: must be a UUID")
			return
		}
		matched, err = h.activities.MatchForChild(r.Context(), guardianID, childID)
	default:
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Either age_months or child_id is required")
		return
	}
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := make([]ActivityResponse, 0, len(matched))
	for i := range matched {
		resp = append(resp, newActivityResponse(&matched[i]))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Get handles GET /api/activities/{id}.
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireGuardianID(w, r); !ok {
		return
	}

	activityID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	activity, err := h.activities.Detail(r.Context(), activityID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newActivityResponse(activity))
}
