package store

import (
	"context"
	"database/sql"

	"github.com/bambini-app/bambini-api/internal/domain"
	"github.com/google/uuid"
)

// ActivityStore defines the interface for activity catalog persistence.
type ActivityStore interface {
	// Create saves a new activity to the catalog. Used by migrations-adjacent
	// tooling (the catalog importer), not by request handling.
	// Returns validation errors from the domain Activity if data is invalid.
	Create(ctx context.Context, activity *domain.Activity) error

	// GetByID retrieves an activity by its unique ID.
	// Returns ErrActivityNotFound if the activity does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error)

	// List returns the full catalog ordered ascending by minimum age.
	List(ctx context.Context) ([]domain.Activity, error)

	// WithTx returns a new ActivityStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) ActivityStore
}
