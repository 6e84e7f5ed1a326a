package store

import (
	"context"
	"database/sql"

	"github.com/bambini-app/bambini-api/internal/domain"
	"github.com/google/uuid"
)

// ChildStore defines the interface for child and guardian-child link
// persistence. Each method is a single atomic write or read; the
// add-child sequence composes them at the service layer.
type ChildStore interface {
	// Create saves a new child record.
	// Returns validation errors from the domain Child if data is invalid.
	Create(ctx context.Context, child *domain.Child) error

	// GetByID retrieves a child by its unique ID.
	// Returns ErrChildNotFound if the child does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Child, error)

	// Link records a guardian-child link.
	// Returns ErrLinkExists if the pair is already linked and
	// ErrInvalidEntity if either side does not exist.
	Link(ctx context.Context, guardianID, childID uuid.UUID) error

	// SetSchool attaches a school to an existing child.
	// Returns ErrChildNotFound if the child does not exist.
	SetSchool(ctx context.Context, childID, schoolID uuid.UUID) error

	// ListByGuardian returns every child linked to the guardian, oldest
	// first (creation order). An empty slice is a valid result for a
	// guardian with no links.
	ListByGuardian(ctx context.Context, guardianID uuid.UUID) ([]domain.Child, error)

	// WithTx returns a new ChildStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) ChildStore
}
