package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tarot-api/internal/domain"
	"github.com/phrazzld/tarot-api/internal/platform/logger"
	"github.com/phrazzld/tarot-api/internal/store"
)

// SQLiteReadingStore implements the store.ReadingStore interface
// using a SQLite database as the storage backend.
type SQLiteReadingStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLiteReadingStore creates a new SQLite implementation of the ReadingStore interface.
// If logger is nil, a default logger will be used.
func NewSQLiteReadingStore(db store.DBTX, logger *slog.Logger) *SQLiteReadingStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteReadingStore{
		db:     db,
		logger: logger.With(slog.String("component", "reading_store")),
	}
}

// Ensure SQLiteReadingStore implements store.ReadingStore interface
var _ store.ReadingStore = (*SQLiteReadingStore)(nil)

// Create implements store.ReadingStore.Create.
func (s *SQLiteReadingStore) Create(ctx context.Context, reading *domain.Reading) error {
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
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
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
		toMillis(reading.CreatedAt),
		toMillis(reading.UpdatedAt),
	)
	if err != nil {
		if isDailyFortuneViolation(err) {
			log.Info("daily fortune already exists",
				slog.String("user_id", reading.UserID.String()),
				slog.String("fortune_date", payload.fortuneDate.String))
			return fmt.Errorf("%w: %v", store.ErrDailyFortuneExists, err)
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

// GetByID implements store.ReadingStore.GetByID.
func (s *SQLiteReadingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reading, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + readingColumns + ` FROM readings WHERE id = ?`
	reading, err := scanReading(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

// List implements store.ReadingStore.List.
func (s *SQLiteReadingStore) List(
	ctx context.Context,
	userID uuid.UUID,
	filter store.ReadingFilter,
) ([]*domain.Reading, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	filter = filter.Normalize()

	conditions := []string{"user_id = ?"}
	args := []any{userID}
	if filter.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if filter.FavoritesOnly {
		conditions = append(conditions, "is_favorite = 1")
	}
	if filter.From != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, toMillis(filter.From.Time()))
	}
	if filter.To != nil {
		conditions = append(conditions, "created_at < ?")
		args = append(args, toMillis(filter.To.AddDays(1).Time()))
	}
	args = append(args, filter.Limit, filter.Offset)

	query := `SELECT ` + readingColumns + ` FROM readings
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`

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

// Update implements store.ReadingStore.Update.
func (s *SQLiteReadingStore) Update(
	ctx context.Context,
	id uuid.UUID,
	update domain.ReadingUpdate,
) (*domain.Reading, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := update.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	var notes, favorite any
	if update.Notes != nil {
		notes = *update.Notes
	}
	if update.IsFavorite != nil {
		favorite = *update.IsFavorite
	}

	query := `
		UPDATE readings
		SET notes = COALESCE(?, notes),
		    is_favorite = COALESCE(?, is_favorite),
		    updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query, notes, favorite, toMillis(time.Now()), id)
	if err != nil {
		log.Error("failed to update reading",
			slog.String("error", err.Error()),
			slog.String("reading_id", id.String()))
		return nil, store.NewStoreError("reading", "update", "failed to update reading", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrReadingNotFound); err != nil {
		return nil, err
	}

	log.Debug("reading updated successfully", slog.String("reading_id", id.String()))
	return s.GetByID(ctx, id)
}

// Delete implements store.ReadingStore.Delete.
func (s *SQLiteReadingStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM readings WHERE id = ?`, id)
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
func (s *SQLiteReadingStore) FindDailyFortune(
	ctx context.Context,
	userID uuid.UUID,
	date domain.Date,
) (*domain.Reading, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + readingColumns + ` FROM readings
		WHERE user_id = ? AND kind = 'daily' AND fortune_date = ?`
	reading, err := scanReading(s.db.QueryRowContext(ctx, query, userID, date.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
func (s *SQLiteReadingStore) Count(ctx context.Context, userID uuid.UUID) (store.ReadingCounts, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN is_favorite = 1 THEN 1 ELSE 0 END), 0)
		FROM readings
		WHERE user_id = ?
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

// WithTx implements store.ReadingStore.WithTx.
func (s *SQLiteReadingStore) WithTx(tx *sql.Tx) store.ReadingStore {
	return &SQLiteReadingStore{
		db:     tx,
		logger: s.logger,
	}
}
