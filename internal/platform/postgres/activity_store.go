package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bambini-app/bambini-api/internal/domain"
	"github.com/bambini-app/bambini-api/internal/platform/logger"
	"github.com/bambini-app/bambini-api/internal/store"
	"github.com/google/uuid"
)

// PostgresActivityStore implements the store.ActivityStore interface
// using a PostgreSQL database as the storage backend. Instruction steps
// and materials are stored as JSONB arrays.
type PostgresActivityStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresActivityStore creates a new PostgreSQL implementation of
// the ActivityStore interface.
func NewPostgresActivityStore(db store.DBTX, logger *slog.Logger) *PostgresActivityStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresActivityStore{
		db:     db,
		logger: logger.With(slog.String("component", "activity_store")),
	}
}

// Ensure PostgresActivityStore implements store.ActivityStore interface
var _ store.ActivityStore = (*PostgresActivityStore)(nil)

// WithTx implements store.ActivityStore.WithTx
func (s *PostgresActivityStore) WithTx(tx *sql.Tx) store.ActivityStore {
	return &PostgresActivityStore{db: tx, logger: s.logger}
}

// Create implements store.ActivityStore.Create
func (s *PostgresActivityStore) Create(ctx context.Context, activity *domain.Activity) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := activity.Validate(); err != nil {
		log.Warn("activity validation failed during create",
			slog.String("error", err.Error()),
			slog.String("activity_id", activity.ID.String()))
		return err
	}

	instructions, err := json.Marshal(activity.Instructions)
	if err != nil {
		return fmt.Errorf("failed to encode instructions: %w", err)
	}
	materials, err := json.Marshal(materialsOrEmpty(activity.Materials))
	if err != nil {
		return fmt.Errorf("failed to encode materials: %w", err)
	}

	query := `
		INSERT INTO activities (id, title, description, domain, age_band, instructions, materials, min_age_months, max_age_months, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		activity.ID,
		activity.Title,
		activity.Description,
		activity.Domain,
		activity.AgeBand,
		instructions,
		materials,
		activity.MinAgeMonths,
		activity.MaxAgeMonths,
		activity.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		log.Error("failed to create activity",
			slog.String("error", err.Error()),
			slog.String("activity_id", activity.ID.String()))
		return err
	}

	log.Info("activity created",
		slog.String("activity_id", activity.ID.String()),
		slog.String("title", activity.Title))
	return nil
}

// GetByID implements store.ActivityStore.GetByID
// Returns store.ErrActivityNotFound if the activity does not exist.
func (s *PostgresActivityStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, description, domain, age_band, instructions, materials, min_age_months, max_age_months, created_at
		FROM activities
		WHERE id = $1
	`

	activity, err := scanActivity(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrActivityNotFound
		}
		log.Error("failed to get activity by ID",
			slog.String("error", err.Error()),
			slog.String("activity_id", id.String()))
		return nil, err
	}

	return activity, nil
}

// List implements store.ActivityStore.List
// The catalog is returned ordered ascending by minimum age; finer
// ordering for matching happens in the domain layer.
func (s *PostgresActivityStore) List(ctx context.Context) ([]domain.Activity, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, description, domain, age_band, instructions, materials, min_age_months, max_age_months, created_at
		FROM activities
		ORDER BY min_age_months ASC, title ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list activities",
			slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	activities := make([]domain.Activity, 0)
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			log.Error("failed to scan activity row",
				slog.String("error", err.Error()))
			return nil, err
		}
		activities = append(activities, *activity)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return activities, nil
}

func scanActivity(row rowScanner) (*domain.Activity, error) {
	var a domain.Activity
	var dom string
	var instructions, materials []byte

	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Description,
		&dom,
		&a.AgeBand,
		&instructions,
		&materials,
		&a.MinAgeMonths,
		&a.MaxAgeMonths,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Domain = domain.DevelopmentalDomain(dom)
	if err := json.Unmarshal(instructions, &a.Instructions); err != nil {
		return nil, fmt.Errorf("failed to decode instructions: %w", err)
	}
	if err := json.Unmarshal(materials, &a.Materials); err != nil {
		return nil, fmt.Errorf("failed to decode materials: %w", err)
	}

	return &a, nil
}

// materialsOrEmpty keeps a nil materials list encoding as [] rather than
// JSON null.
func materialsOrEmpty(materials []string) []string {
	if materials == nil {
		return []string{}
	}
	return materials
}
