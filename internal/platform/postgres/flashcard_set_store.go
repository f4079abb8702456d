package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/flashgenius/flashgenius-api/internal/domain"
	"github.com/flashgenius/flashgenius-api/internal/platform/logger"
	"github.com/flashgenius/flashgenius-api/internal/redact"
	"github.com/flashgenius/flashgenius-api/internal/store"
)

// PostgresFlashcardSetStore implements the store.FlashcardSetStore interface
// using a PostgreSQL database as the storage backend. Cards are stored as a
// JSONB document on the set row, so a set and its cards are always written
// and deleted together.
type PostgresFlashcardSetStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFlashcardSetStore creates a new PostgreSQL implementation of the
// FlashcardSetStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresFlashcardSetStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardSetStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFlashcardSetStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_set_store")),
	}
}

// Ensure PostgresFlashcardSetStore implements store.FlashcardSetStore interface
var _ store.FlashcardSetStore = (*PostgresFlashcardSetStore)(nil)

// Create implements store.FlashcardSetStore.Create
// The set and all of its cards are written in a single INSERT, so either the
// complete set is persisted or nothing is.
// Returns validation errors from the domain FlashcardSet if data is invalid.
// Returns store.ErrInvalidEntity if the owner does not exist.
func (s *PostgresFlashcardSetStore) Create(ctx context.Context, set *domain.FlashcardSet) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := set.Validate(); err != nil {
		log.Warn("flashcard set validation failed during create",
			slog.String("error", err.Error()),
			slog.String("set_id", set.ID.String()))
		return err
	}

	cards, err := json.Marshal(set.Cards)
	if err != nil {
		return fmt.Errorf("failed to marshal cards: %w", err)
	}

	query := `
		INSERT INTO flashcard_sets (id, owner_id, title, cards, card_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		set.ID,
		set.OwnerID,
		set.Title,
		cards,
		len(set.Cards),
		set.CreatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during flashcard set creation",
				slog.String("set_id", set.ID.String()),
				slog.String("owner_id", set.OwnerID.String()))
			return fmt.Errorf("%w: owner with ID %s not found",
				store.ErrInvalidEntity, set.OwnerID)
		}

		log.Error("failed to create flashcard set",
			slog.String("error", redact.Error(err)),
			slog.String("set_id", set.ID.String()),
			slog.String("owner_id", set.OwnerID.String()))
		return MapError(err)
	}

	log.Info("flashcard set created successfully",
		slog.String("set_id", set.ID.String()),
		slog.String("owner_id", set.OwnerID.String()),
		slog.Int("card_count", len(set.Cards)))
	return nil
}

// GetByID implements store.FlashcardSetStore.GetByID
// Returns store.ErrFlashcardSetNotFound if the set does not exist or is not
// owned by ownerID; the two cases are deliberately indistinguishable.
func (s *PostgresFlashcardSetStore) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.FlashcardSet, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, title, cards, created_at
		FROM flashcard_sets
		WHERE id = $1 AND owner_id = $2
	`

	var set domain.FlashcardSet
	var cards []byte

	err := s.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&set.ID,
		&set.OwnerID,
		&set.Title,
		&cards,
		&set.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("flashcard set not found",
				slog.String("set_id", id.String()),
				slog.String("owner_id", ownerID.String()))
			return nil, store.ErrFlashcardSetNotFound
		}
		log.Error("failed to get flashcard set",
			slog.String("error", redact.Error(err)),
			slog.String("set_id", id.String()))
		return nil, MapError(err)
	}

	if err := json.Unmarshal(cards, &set.Cards); err != nil {
		log.Error("failed to unmarshal cards",
			slog.String("error", err.Error()),
			slog.String("set_id", id.String()))
		return nil, fmt.Errorf("failed to unmarshal cards: %w", err)
	}

	return &set, nil
}

// ListByOwner implements store.FlashcardSetStore.ListByOwner
// Summaries come back newest first, with the set ID as a descending
// tiebreaker so the ordering is stable under equal timestamps.
// Returns an empty slice if the owner has no sets.
func (s *PostgresFlashcardSetStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.FlashcardSetSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, card_count, created_at
		FROM flashcard_sets
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to list flashcard sets",
			slog.String("error", redact.Error(err)),
			slog.String("owner_id", ownerID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var summaries []domain.FlashcardSetSummary
	for rows.Next() {
		var summary domain.FlashcardSetSummary
		err := rows.Scan(
			&summary.ID,
			&summary.Title,
			&summary.CardCount,
			&summary.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan flashcard set row",
				slog.String("error", err.Error()))
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	// Return empty slice instead of nil if no sets found
	if summaries == nil {
		summaries = []domain.FlashcardSetSummary{}
	}

	log.Debug("listed flashcard sets",
		slog.String("owner_id", ownerID.String()),
		slog.Int("count", len(summaries)))
	return summaries, nil
}

// Delete implements store.FlashcardSetStore.Delete
// Deleting the row removes the cards with it.
// Returns store.ErrFlashcardSetNotFound if the set does not exist or is not
// owned by ownerID.
func (s *PostgresFlashcardSetStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM flashcard_sets WHERE id = $1 AND owner_id = $2`

	result, err := s.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		log.Error("failed to delete flashcard set",
			slog.String("error", redact.Error(err)),
			slog.String("set_id", id.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		log.Debug("flashcard set not found for delete",
			slog.String("set_id", id.String()),
			slog.String("owner_id", ownerID.String()))
		return store.ErrFlashcardSetNotFound
	}

	log.Info("flashcard set deleted successfully",
		slog.String("set_id", id.String()),
		slog.String("owner_id", ownerID.String()))
	return nil
}

// WithTx implements store.FlashcardSetStore.WithTx
// It returns a copy of the store bound to the given transaction.
func (s *PostgresFlashcardSetStore) WithTx(tx *sql.Tx) store.FlashcardSetStore {
	return &PostgresFlashcardSetStore{
		db:     tx,
		logger: s.logger,
	}
}
