package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bambini-app/bambini-api/internal/domain"
	"github.com/bambini-app/bambini-api/internal/platform/logger"
	"github.com/bambini-app/bambini-api/internal/store"
	"github.com/google/uuid"
)

// PostgresGuardianStore implements the store.GuardianStore interface
// using a PostgreSQL database as the storage backend.
type PostgresGuardianStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGuardianStore creates a new PostgreSQL implementation of
// the GuardianStore interface. It accepts a database connection or
// transaction managed by the caller. If logger is nil, a default logger
// will be used.
func NewPostgresGuardianStore(db store.DBTX, logger *slog.Logger) *PostgresGuardianStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGuardianStore{
		db:     db,
		logger: logger.With(slog.String("component", "guardian_store")),
	}
}

// Ensure PostgresGuardianStore implements store.GuardianStore interface
var _ store.GuardianStore = (*PostgresGuardianStore)(nil)

// WithTx implements store.GuardianStore.WithTx
func (s *PostgresGuardianStore) WithTx(tx *sql.Tx) store.GuardianStore {
	return &PostgresGuardianStore{db: tx, logger: s.logger}
}

// Create implements store.GuardianStore.Create
// Returns store.ErrEmailExists if the email is already taken.
func (s *PostgresGuardianStore) Create(ctx context.Context, guardian *domain.Guardian) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := guardian.Validate(); err != nil {
		log.Warn("guardian validation failed during create",
			slog.String("error", err.Error()),
			slog.String("guardian_id", guardian.ID.String()))
		return err
	}

	query := `
		INSERT INTO guardians (id, email, hashed_password, full_name, role, email_confirmed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		guardian.ID,
		guardian.Email,
		guardian.HashedPassword,
		guardian.FullName,
		guardian.Role,
		guardian.EmailConfirmed,
		guardian.CreatedAt,
		guardian.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("duplicate email during guardian creation",
				slog.String("guardian_id", guardian.ID.String()))
			return store.ErrEmailExists
		}
		log.Error("failed to create guardian",
			slog.String("error", err.Error()),
			slog.String("guardian_id", guardian.ID.String()))
		return err
	}

	log.Info("guardian created",
		slog.String("guardian_id", guardian.ID.String()),
		slog.String("role", string(guardian.Role)))
	return nil
}

// GetByID implements store.GuardianStore.GetByID
// Returns store.ErrGuardianNotFound if the guardian does not exist.
func (s *PostgresGuardianStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Guardian, error) {
	return s.getByField(ctx, "id", id)
}

// GetByEmail implements store.GuardianStore.GetByEmail
// Returns store.ErrGuardianNotFound if the guardian does not exist.
func (s *PostgresGuardianStore) GetByEmail(ctx context.Context, email string) (*domain.Guardian, error) {
	return s.getByField(ctx, "email", email)
}

func (s *PostgresGuardianStore) getByField(ctx context.Context, field string, value any) (*domain.Guardian, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// field is one of the fixed column names above, never user input.
	query := fmt.Sprintf(`
		SELECT id, email, hashed_password, full_name, role, email_confirmed, created_at, updated_at
		FROM guardians
		WHERE %s = $1
	`, field)

	var g domain.Guardian
	var role string
	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&g.ID,
		&g.Email,
		&g.HashedPassword,
		&g.FullName,
		&role,
		&g.EmailConfirmed,
		&g.CreatedAt,
		&g.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrGuardianNotFound
		}
		log.Error("failed to get guardian",
			slog.String("error", err.Error()),
			slog.String("field", field))
		return nil, err
	}

	g.Role = domain.Role(role)
	return &g, nil
}

// ConfirmEmail implements store.GuardianStore.ConfirmEmail
// Returns store.ErrGuardianNotFound if the guardian does not exist.
func (s *PostgresGuardianStore) ConfirmEmail(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE guardians
		SET email_confirmed = TRUE, updated_at = $1
		WHERE id = $2
	`
	result, err := s.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to confirm guardian email",
			slog.String("error", err.Error()),
			slog.String("guardian_id", id.String()))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrGuardianNotFound
	}

	log.Info("guardian email confirmed", slog.String("guardian_id", id.String()))
	return nil
}
