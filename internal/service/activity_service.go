package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bambini-app/bambini-api/internal/domain"
	"github.com/bambini-app/bambini-api/internal/domain/agecalc"
	"github.com/bambini-app/bambini-api/internal/store"
)

// ActivityService answers activity catalog queries: age-appropriate
// matches for a raw age or for one of the guardian's children, and
// single-activity detail.
type ActivityService struct {
	activities store.ActivityStore
	registry   *RegistryService
	logger     *slog.Logger
}

// NewActivityService creates an activity service. The registry is used
// to resolve a child's age when matching by child.
func NewActivityService(
	activities store.ActivityStore,
	registry *RegistryService,
	log *slog.Logger,
) (*ActivityService, error) {
	if activities == nil {
		return nil, errors.New("activity store cannot be nil")
	}
	if registry == nil {
		return nil, errors.New("registry service cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &ActivityService{
		activities: activities,
		registry:   registry,
		logger:     log.With(slog.String("component", "activity_service")),
	}, nil
}

// MatchForAge returns the catalog activities suited to a child of the
// given age in months, in presentation order. A negative age is a
// validation error; an age nothing matches yields an empty slice.
func (s *ActivityService) MatchForAge(ctx context.Context, ageMonths int) ([]domain.Activity, error) {
	if ageMonths < 0 {
		return nil, domain.NewValidationError("age_months", "cannot be negative", domain.ErrInvalidDate)
	}

	catalog, err := s.activities.List(ctx)
	if err != nil {
		return nil, err
	}

	return domain.MatchActivities(catalog, ageMonths), nil
}

// MatchForChild resolves the child's current age and returns the
// matching activities. The child must belong to the guardian.
func (s *ActivityService) MatchForChild(ctx context.Context, guardianID, childID uuid.UUID) ([]domain.Activity, error) {
	child, err := s.registry.GetChild(ctx, guardianID, childID)
	if err != nil {
		return nil, err
	}

	ageMonths, err := agecalc.AgeInMonthsNow(child.DOB)
	if err != nil {
		return nil, err
	}

	return s.MatchForAge(ctx, ageMonths)
}

// Detail returns a single activity by id.
func (s *ActivityService) Detail(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	return s.activities.GetByID(ctx, id)
}
