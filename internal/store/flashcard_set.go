package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/flashgenius/flashgenius-api/internal/domain"
)

// FlashcardSetStore defines the interface for flashcard set persistence.
// All read and delete operations are scoped to an owner: a set that exists
// but belongs to someone else is indistinguishable from a set that does not
// exist.
type FlashcardSetStore interface {
	// Create saves a new flashcard set, cards included, as a single atomic
	// write. It handles domain validation internally.
	// Returns validation errors from the domain FlashcardSet if data is invalid.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, set *domain.FlashcardSet) error

	// GetByID retrieves a flashcard set by its ID, including its cards.
	// Returns ErrFlashcardSetNotFound if the set does not exist or is not
	// owned by ownerID.
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.FlashcardSet, error)

	// ListByOwner retrieves summaries of all sets owned by ownerID, newest
	// first. Ties on creation time order by ID, also descending, so the
	// listing is stable. Returns an empty slice when the owner has no sets.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.FlashcardSetSummary, error)

	// Delete removes a flashcard set and its cards.
	// Returns ErrFlashcardSetNotFound if the set does not exist or is not
	// owned by ownerID.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error

	// WithTx returns a new FlashcardSetStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) FlashcardSetStore
}
