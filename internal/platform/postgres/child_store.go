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

// PostgresChildStore implements the store.ChildStore interface using a
// PostgreSQL database as the storage backend.
type PostgresChildStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresChildStore creates a new PostgreSQL implementation of the
// ChildStore interface. It accepts a database connection or transaction
// managed by the caller. If logger is nil, a default logger will be used.
func NewPostgresChildStore(db store.DBTX, logger *slog.Logger) *PostgresChildStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresChildStore{
		db:     db,
		logger: logger.With(slog.String("component", "child_store")),
	}
}

// Ensure PostgresChildStore implements store.ChildStore interface
var _ store.ChildStore = (*PostgresChildStore)(nil)

// WithTx implements store.ChildStore.WithTx
func (s *PostgresChildStore) WithTx(tx *sql.Tx) store.ChildStore {
	return &PostgresChildStore{db: tx, logger: s.logger}
}

// Create implements store.ChildStore.Create
func (s *PostgresChildStore) Create(ctx context.Context, child *domain.Child) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := child.Validate(); err != nil {
		log.Warn("child validation failed during create",
			slog.String("error", err.Error()),
			slog.String("child_id", child.ID.String()))
		return err
	}

	query := `
		INSERT INTO children (id, name, dob, gender, photo_url, school_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		child.ID,
		child.Name,
		child.DOB,
		nullString(child.Gender),
		nullString(child.PhotoURL),
		child.SchoolID,
		child.CreatedAt,
		child.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create child",
			slog.String("error", err.Error()),
			slog.String("child_id", child.ID.String()))
		return err
	}

	log.Info("child created", slog.String("child_id", child.ID.String()))
	return nil
}

// GetByID implements store.ChildStore.GetByID
// Returns store.ErrChildNotFound if the child does not exist.
func (s *PostgresChildStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Child, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, dob, gender, photo_url, school_id, created_at, updated_at
		FROM children
		WHERE id = $1
	`

	child, err := scanChild(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrChildNotFound
		}
		log.Error("failed to get child by ID",
			slog.String("error", err.Error()),
			slog.String("child_id", id.String()))
		return nil, err
	}

	return child, nil
}

// Link implements store.ChildStore.Link
// Returns store.ErrLinkExists if the pair is already linked and
// store.ErrInvalidEntity if the guardian or child does not exist.
func (s *PostgresChildStore) Link(ctx context.Context, guardianID, childID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO guardian_children (guardian_id, child_id, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := s.db.ExecContext(ctx, query, guardianID, childID, time.Now().UTC())

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrLinkExists
		}
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during link",
				slog.String("guardian_id", guardianID.String()),
				slog.String("child_id", childID.String()))
			return fmt.Errorf("%w: guardian or child does not exist", store.ErrInvalidEntity)
		}
		log.Error("failed to link guardian and child",
			slog.String("error", err.Error()),
			slog.String("guardian_id", guardianID.String()),
			slog.String("child_id", childID.String()))
		return err
	}

	log.Info("guardian linked to child",
		slog.String("guardian_id", guardianID.String()),
		slog.String("child_id", childID.String()))
	return nil
}

// SetSchool implements store.ChildStore.SetSchool
// Returns store.ErrChildNotFound if the child does not exist.
func (s *PostgresChildStore) SetSchool(ctx context.Context, childID, schoolID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE children
		SET school_id = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := s.db.ExecContext(ctx, query, schoolID, time.Now().UTC(), childID)
	if err != nil {
		log.Error("failed to set child school",
			slog.String("error", err.Error()),
			slog.String("child_id", childID.String()),
			slog.String("school_id", schoolID.String()))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrChildNotFound
	}

	log.Info("child linked to school",
		slog.String("child_id", childID.String()),
		slog.String("school_id", schoolID.String()))
	return nil
}

// ListByGuardian implements store.ChildStore.ListByGuardian
// Children are returned oldest first, i.e. in creation order.
func (s *PostgresChildStore) ListByGuardian(ctx context.Context, guardianID uuid.UUID) ([]domain.Child, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT c.id, c.name, c.dob, c.gender, c.photo_url, c.school_id, c.created_at, c.updated_at
		FROM children c
		JOIN guardian_children gc ON gc.child_id = c.id
		WHERE gc.guardian_id = $1
		ORDER BY c.created_at ASC, c.id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, guardianID)
	if err != nil {
		log.Error("failed to list children",
			slog.String("error", err.Error()),
			slog.String("guardian_id", guardianID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	children := make([]domain.Child, 0)
	for rows.Next() {
		child, err := scanChild(rows)
		if err != nil {
			log.Error("failed to scan child row",
				slog.String("error", err.Error()),
				slog.String("guardian_id", guardianID.String()))
			return nil, err
		}
		children = append(children, *child)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return children, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanChild(row rowScanner) (*domain.Child, error) {
	var child domain.Child
	var gender, photoURL sql.NullString
	var schoolID uuid.NullUUID

	err := row.Scan(
		&child.ID,
		&child.Name,
		&child.DOB,
		&gender,
		&photoURL,
		&schoolID,
		&child.CreatedAt,
		&child.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	child.Gender = gender.String
	child.PhotoURL = photoURL.String
	if schoolID.Valid {
		id := schoolID.UUID
		child.SchoolID = &id
	}

	return &child, nil
}

// nullString maps an empty string onto SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
