package store

import (
	"context"
	"database/sql"

	"github.com/bambini-app/bambini-api/internal/domain"
	"github.com/google/uuid"
)

// GuardianStore defines the interface for guardian data persistence.
type GuardianStore interface {
	// Create saves a new guardian to the store. The guardian must carry a
	// hashed password; hashing is the identity provider's concern.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain Guardian if data is invalid.
	Create(ctx context.Context, guardian *domain.Guardian) error

	// GetByID retrieves a guardian by their unique ID.
	// Returns ErrGuardianNotFound if the guardian does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Guardian, error)

	// GetByEmail retrieves a guardian by their email address.
	// Returns ErrGuardianNotFound if the guardian does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.Guardian, error)

	// ConfirmEmail marks the guardian's email address as confirmed.
	// Returns ErrGuardianNotFound if the guardian does not exist.
	ConfirmEmail(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new GuardianStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) GuardianStore
}
