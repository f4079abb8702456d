package store

import (
	"context"
	"database/sql"

	"github.com/flashgenius/flashgenius-api/internal/domain"
)

// RefreshTokenStore defines the interface for refresh token persistence.
// Only token hashes are stored; the raw token never reaches the database.
type RefreshTokenStore interface {
	// Save persists a new refresh token record.
	// Returns ErrDuplicate if the token hash is already stored.
	// Returns ErrInvalidEntity if the referenced user does not exist.
	Save(ctx context.Context, token *domain.RefreshToken) error

	// GetByTokenHash retrieves a refresh token record by its hash.
	// Returns ErrRefreshTokenNotFound if no such token exists. Expiry is
	// not checked here; callers decide what an expired record means.
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)

	// Rotate atomically replaces the record identified by oldTokenHash with
	// the next token. The old record is deleted and the new one saved in a
	// single transaction, so a crash cannot leave both or neither behind.
	// Returns ErrRefreshTokenNotFound if oldTokenHash does not exist.
	Rotate(ctx context.Context, oldTokenHash string, next *domain.RefreshToken) error

	// DeleteByTokenHash removes a single refresh token record.
	// Returns ErrRefreshTokenNotFound if no such token exists.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error

	// DeleteExpired removes every record whose expiry is in the past and
	// reports how many rows were deleted.
	DeleteExpired(ctx context.Context) (int64, error)

	// WithTx returns a new RefreshTokenStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) RefreshTokenStore
}
