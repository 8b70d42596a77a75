package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tarot-api/internal/domain"
	"github.com/phrazzld/tarot-api/internal/platform/logger"
	"github.com/phrazzld/tarot-api/internal/store"
)

// PostgresReadingStore implements the store.ReadingStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReadingStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReadingStore creates a new PostgreSQL implementation of the ReadingStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresReadingStore(db store.DBTX, logger *slog.Logger) *PostgresReadingStore {
	// Validate inputs
	if db == nil {
		panic("db cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReadingStore{
		db:     db,
		logger: logger.With(slog.String("component", "reading_store")),
	}
}

// Ensure PostgresReadingStore implements store.ReadingStore interface
var _ store.ReadingStore = (*PostgresReadingStore)(nil)

// Create implements store.ReadingStore.Create
// It saves a new reading to the database, handling domain validation.
// Returns store.ErrDailyFortuneExists when the one-per-day index rejects
// a daily reading.
func (s *PostgresReadingStore) Create(ctx context.Context, reading *domain.Reading) error {
	// Get the logger from context or use default
	log := logger.FromContextOrDefault(ctx, s.logger)

	if reading.ID == uuid.Nil {
		reading.ID = uuid.New()
	}
	if reading.CreatedAt.IsZero() {
		reading.CreatedAt = time.Now().UTC()
	}
	if reading.UpdatedAt.IsZero() {
		reading.UpdatedAt = reading.CreatedAt
	}

	// Validate reading data
	if err := reading.Validate(); err != nil {
		log.Warn("reading validation failed during create",
			slog.String("error", err.Error()),
			slog.String("reading_id", reading.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	payload, err := encodeReading(reading)
	if err != nil {
		return store.NewStoreError("reading", "create", "failed to encode reading", err)
	}

	query := `
		INSERT INTO readings (` + readingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		reading.ID,
		reading.UserID,
		string(reading.Kind),
		reading.SpreadID,
		reading.Question,
		payload.cards,
		payload.interpretation,
		payload.fortune,
		payload.fortuneDate,
		reading.Notes,
		reading.IsFavorite,
		reading.CreatedAt,
		reading.UpdatedAt,
	)
	if err != nil {
		if isDailyFortuneViolation(err) {
			log.Info("daily fortune already exists",
				slog.String("user_id", reading.UserID.String()),
				slog.String("fortune_date", payload.fortuneDate.String))
			return MapUniqueViolation(err, "daily fortune", dailyFortuneIndex, store.ErrDailyFortuneExists)
		}

		log.Error("failed to create reading",
			slog.String("error", err.Error()),
			slog.String("reading_id", reading.ID.String()),
			slog.String("user_id", reading.UserID.String()))
		return store.NewStoreError("reading", "create", "failed to create reading", MapError(err))
	}

	log.Debug("reading created successfully",
		slog.String("reading_id", reading.ID.String()),
		slog.String("user_id", reading.UserID.String()),
		slog.String("kind", string(reading.Kind)))
	return nil
}

// GetByID implements store.ReadingStore.GetByID
// Returns store.ErrReadingNotFound if the reading does not exist.
func (s *PostgresReadingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reading, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving reading by ID", slog.String("reading_id", id.String()))

	query := `SELECT ` + readingColumns + ` FROM readings WHERE id = $1`
	reading, err := scanReading(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if IsNotFoundError(err) {
			log.Debug("reading not found", slog.String("reading_id", id.String()))
			return nil, store.ErrReadingNotFound
		}
		log.Error("failed to get reading by ID",
			slog.String("error", err.Error()),
			slog.String("reading_id", id.String()))
		return nil, store.NewStoreError("reading", "get", "failed to get reading", MapError(err))
	}

	return reading, nil
}

// List implements store.ReadingStore.List
// Readings are returned newest first; an empty slice means nothing matched.
func (s *PostgresReadingStore) List(
	ctx context.Context,
	userID uuid.UUID,
	filter store.ReadingFilter,
) ([]*domain.Reading, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	filter = filter.Normalize()

	args := []any{userID}
	conditions := []string{"user_id = $1"}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Kind != "" {
		conditions = append(conditions, "kind = "+arg(string(filter.Kind)))
	}
	if filter.FavoritesOnly {
		conditions = append(conditions, "is_favorite")
	}
	if filter.From != nil {
		conditions = append(conditions, "created_at >= "+arg(filter.From.Time()))
	}
	if filter.To != nil {
		conditions = append(conditions, "created_at < "+arg(filter.To.AddDays(1).Time()))
	}
	limit := arg(filter.Limit)
	offset := arg(filter.Offset)

	query := `SELECT ` + readingColumns + ` FROM readings
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY created_at DESC, id DESC
		LIMIT ` + limit + ` OFFSET ` + offset

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list readings",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("reading", "list", "failed to list readings", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	readings := make([]*domain.Reading, 0)
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, store.NewStoreError("reading", "list", "failed to scan reading", err)
		}
		readings = append(readings, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("reading", "list", "failed to iterate readings", err)
	}

	log.Debug("readings listed",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(readings)))
	return readings, nil
}

// Update implements store.ReadingStore.Update
// Only notes and the favorite flag change; cards and interpretation are
// never written after creation.
func (s *PostgresReadingStore) Update(
	ctx context.Context,
	id uuid.UUID,
	update domain.ReadingUpdate,
) (*domain.Reading, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := update.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE readings
		SET notes = COALESCE($1, notes),
		    is_favorite = COALESCE($2, is_favorite),
		    updated_at = $3
		WHERE id = $4
		RETURNING ` + readingColumns

	var notes sql.NullString
	if update.Notes != nil {
		notes = sql.NullString{String: *update.Notes, Valid: true}
	}
	var favorite sql.NullBool
	if update.IsFavorite != nil {
		favorite = sql.NullBool{Bool: *update.IsFavorite, Valid: true}
	}

	reading, err := scanReading(s.db.QueryRowContext(ctx, query, notes, favorite, time.Now().UTC(), id))
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrReadingNotFound
		}
		log.Error("failed to update reading",
			slog.String("error", err.Error()),
			slog.String("reading_id", id.String()))
		return nil, store.NewStoreError("reading", "update", "failed to update reading", MapError(err))
	}

	log.Debug("reading updated successfully", slog.String("reading_id", id.String()))
	return reading, nil
}

// Delete implements store.ReadingStore.Delete
// Returns store.ErrReadingNotFound if the reading does not exist.
func (s *PostgresReadingStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM readings WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete reading",
			slog.String("error", err.Error()),
			slog.String("reading_id", id.String()))
		return store.NewStoreError("reading", "delete", "failed to delete reading", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrReadingNotFound); err != nil {
		return err
	}

	log.Debug("reading deleted successfully", slog.String("reading_id", id.String()))
	return nil
}

// FindDailyFortune implements store.ReadingStore.FindDailyFortune.
func (s *PostgresReadingStore) FindDailyFortune(
	ctx context.Context,
	userID uuid.UUID,
	date domain.Date,
) (*domain.Reading, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + readingColumns + ` FROM readings
		WHERE user_id = $1 AND kind = 'daily' AND fortune_date = $2`
	reading, err := scanReading(s.db.QueryRowContext(ctx, query, userID, date.String()))
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrReadingNotFound
		}
		log.Error("failed to find daily fortune",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("fortune_date", date.String()))
		return nil, store.NewStoreError("reading", "find daily", "failed to find daily fortune", MapError(err))
	}

	return reading, nil
}

// Count implements store.ReadingStore.Count.
func (s *PostgresReadingStore) Count(ctx context.Context, userID uuid.UUID) (store.ReadingCounts, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_favorite)
		FROM readings
		WHERE user_id = $1
	`
	var counts store.ReadingCounts
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&counts.Total, &counts.Favorites); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count readings",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return store.ReadingCounts{}, store.NewStoreError("reading", "count", "failed to count readings", MapError(err))
	}
	return counts, nil
}

// WithTx implements store.ReadingStore.WithTx
// It returns a new ReadingStore instance that uses the provided transaction.
func (s *PostgresReadingStore) WithTx(tx *sql.Tx) store.ReadingStore {
	return &PostgresReadingStore{
		db:     tx,
		logger: s.logger,
	}
}
