package store

import (
	"context"
	"database/sql"

	"github.com/bambini-app/bambini-api/internal/domain"
	"github.com/google/uuid"
)

// SchoolStore defines the read-only interface for school lookups.
// Schools are provisioned out of band; this application never creates
// them.
type SchoolStore interface {
	// GetByCode retrieves a school by its human-entered join code.
	// Returns ErrSchoolNotFound if no school matches the code.
	GetByCode(ctx context.Context, code string) (*domain.School, error)

	// GetByID retrieves a school by its unique ID.
	// Returns ErrSchoolNotFound if the school does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.School, error)

	// WithTx returns a new SchoolStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) SchoolStore
}
