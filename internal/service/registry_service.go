package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bambini-app/bambini-api/internal/domain"
	"github.com/bambini-app/bambini-api/internal/platform/logger"
	"github.com/bambini-app/bambini-api/internal/platform/metrics"
	"github.com/bambini-app/bambini-api/internal/store"
)

// RegistryService manages the guardian, child, and school relationship
// registry: listing a guardian's children, the add-child sequence, and
// recovery of a partially-completed add.
type RegistryService struct {
	children store.ChildStore
	schools  store.SchoolStore
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewRegistryService creates a registry service.
func NewRegistryService(
	children store.ChildStore,
	schools store.SchoolStore,
	m *metrics.Metrics,
	log *slog.Logger,
) (*RegistryService, error) {
	if children == nil {
		return nil, errors.New("child store cannot be nil")
	}
	if schools == nil {
		return nil, errors.New("school store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &RegistryService{
		children: children,
		schools:  schools,
		metrics:  m,
		logger:   log.With(slog.String("component", "registry_service")),
	}, nil
}

// AddChildInput carries everything the guardian entered on the
// add-child form. SchoolCode is optional.
type AddChildInput struct {
	Draft      domain.ChildDraft
	SchoolCode string
}

// AddChildResult reports the outcome of a successful add. School is
// non-nil when a school was attached; SchoolCodeUnknown is true when a
// code was entered but matched nothing (the child is still created and
// linked).
type AddChildResult struct {
	Child             *domain.Child
	School            *domain.School
	SchoolCodeUnknown bool
}

// AddChild runs the three-step add sequence: create the child record,
// link it to the guardian, then optionally attach the school named by
// the code.
//
// The sequence is deliberately not one transaction. A link failure
// leaves the child row in place and surfaces a *LinkFailedError
// carrying its id, so the guardian retries with ResumeLink instead of
// creating a duplicate. Step three never fails the add: an unknown code
// is reported in the result and any attach error only loses the school
// association, which the guardian can redo later.
func (s *RegistryService) AddChild(
	ctx context.Context,
	guardianID uuid.UUID,
	input AddChildInput,
) (*AddChildResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	child, err := domain.NewChild(input.Draft)
	if err != nil {
		return nil, err
	}

	// Step 1: create the child record.
	if err := s.children.Create(ctx, child); err != nil {
		return nil, fmt.Errorf("failed to create child: %w", err)
	}

	// Step 2: link it to the guardian. From here on the child row
	// exists, so failure must carry its id out.
	if err := s.children.Link(ctx, guardianID, child.ID); err != nil {
		if s.metrics != nil {
			s.metrics.LinkFailures.Inc()
		}
		log.Error("guardian link failed after child creation",
			slog.String("child_id", child.ID.String()),
			slog.String("guardian_id", guardianID.String()),
			slog.String("error", err.Error()))
		return nil, &LinkFailedError{ChildID: child.ID, Err: err}
	}

	if s.metrics != nil {
		s.metrics.ChildrenCreated.Inc()
	}

	result := &AddChildResult{Child: child}

	// Step 3: optional school attachment.
	if input.SchoolCode != "" {
		s.attachSchool(ctx, child, input.SchoolCode, result)
	}

	log.Info("child added",
		slog.String("child_id", child.ID.String()),
		slog.String("guardian_id", guardianID.String()),
		slog.Bool("school_attached", result.School != nil))
	return result, nil
}

func (s *RegistryService) attachSchool(
	ctx context.Context,
	child *domain.Child,
	code string,
	result *AddChildResult,
) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	school, err := s.schools.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrSchoolNotFound) {
			result.SchoolCodeUnknown = true
			return
		}
		log.Warn("school lookup failed, child left unattached",
			slog.String("child_id", child.ID.String()),
			slog.String("error", err.Error()))
		return
	}

	if err := s.children.SetSchool(ctx, child.ID, school.ID); err != nil {
		log.Warn("school attach failed, child left unattached",
			slog.String("child_id", child.ID.String()),
			slog.String("school_id", school.ID.String()),
			slog.String("error", err.Error()))
		return
	}

	child.SchoolID = &school.ID
	result.School = school
}

// ResumeLink retries the guardian link for a child whose add stopped at
// step two. An already-existing link counts as success, so retrying a
// link that in fact committed is harmless.
func (s *RegistryService) ResumeLink(ctx context.Context, guardianID, childID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.children.GetByID(ctx, childID); err != nil {
		return err
	}

	if err := s.children.Link(ctx, guardianID, childID); err != nil {
		if errors.Is(err, store.ErrLinkExists) {
			return nil
		}
		if s.metrics != nil {
			s.metrics.LinkFailures.Inc()
		}
		return &LinkFailedError{ChildID: childID, Err: err}
	}

	log.Info("guardian link resumed",
		slog.String("child_id", childID.String()),
		slog.String("guardian_id", guardianID.String()))
	return nil
}

// ListChildren returns the guardian's children oldest first.
func (s *RegistryService) ListChildren(ctx context.Context, guardianID uuid.UUID) ([]domain.Child, error) {
	return s.children.ListByGuardian(ctx, guardianID)
}

// GetChild returns one of the guardian's children by id. A child that
// exists but is not linked to the guardian is reported as not found
// rather than leaking its existence.
func (s *RegistryService) GetChild(ctx context.Context, guardianID, childID uuid.UUID) (*domain.Child, error) {
	children, err := s.children.ListByGuardian(ctx, guardianID)
	if err != nil {
		return nil, err
	}
	for i := range children {
		if children[i].ID == childID {
			return &children[i], nil
		}
	}
	return nil, store.ErrChildNotFound
}
