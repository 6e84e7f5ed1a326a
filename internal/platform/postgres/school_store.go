package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/bambini-app/bambini-api/internal/domain"
	"github.com/bambini-app/bambini-api/internal/platform/logger"
	"github.com/bambini-app/bambini-api/internal/store"
	"github.com/google/uuid"
)

// PostgresSchoolStore implements the store.SchoolStore interface using a
// PostgreSQL database as the storage backend.
type PostgresSchoolStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSchoolStore creates a new PostgreSQL implementation of the
// SchoolStore interface.
func NewPostgresSchoolStore(db store.DBTX, logger *slog.Logger) *PostgresSchoolStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSchoolStore{
		db:     db,
		logger: logger.With(slog.String("component", "school_store")),
	}
}

// Ensure PostgresSchoolStore implements store.SchoolStore interface
var _ store.SchoolStore = (*PostgresSchoolStore)(nil)

// WithTx implements store.SchoolStore.WithTx
func (s *PostgresSchoolStore) WithTx(tx *sql.Tx) store.SchoolStore {
	return &PostgresSchoolStore{db: tx, logger: s.logger}
}

// GetByCode implements store.SchoolStore.GetByCode
// Join codes are matched case-insensitively; guardians type them by hand.
// Returns store.ErrSchoolNotFound if no school matches.
func (s *PostgresSchoolStore) GetByCode(ctx context.Context, code string) (*domain.School, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, code, name, created_at
		FROM schools
		WHERE UPPER(code) = $1
	`

	var school domain.School
	err := s.db.QueryRowContext(ctx, query, strings.ToUpper(strings.TrimSpace(code))).Scan(
		&school.ID,
		&school.Code,
		&school.Name,
		&school.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSchoolNotFound
		}
		log.Error("failed to get school by code",
			slog.String("error", err.Error()))
		return nil, err
	}

	return &school, nil
}

// GetByID implements store.SchoolStore.GetByID
// Returns store.ErrSchoolNotFound if the school does not exist.
func (s *PostgresSchoolStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.School, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, code, name, created_at
		FROM schools
		WHERE id = $1
	`

	var school domain.School
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&school.ID,
		&school.Code,
		&school.Name,
		&school.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSchoolNotFound
		}
		log.Error("failed to get school by ID",
			slog.String("error", err.Error()),
			slog.String("school_id", id.String()))
		return nil, err
	}

	return &school, nil
}
