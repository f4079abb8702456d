package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/flashgenius/flashgenius-api/internal/domain"
	"github.com/flashgenius/flashgenius-api/internal/platform/logger"
	"github.com/flashgenius/flashgenius-api/internal/redact"
	"github.com/flashgenius/flashgenius-api/internal/store"
)

// PostgresRefreshTokenStore implements the store.RefreshTokenStore interface
// using a PostgreSQL database as the storage backend.
type PostgresRefreshTokenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRefreshTokenStore creates a new PostgreSQL implementation of the
// RefreshTokenStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresRefreshTokenStore(db store.DBTX, logger *slog.Logger) *PostgresRefreshTokenStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRefreshTokenStore{
		db:     db,
		logger: logger.With(slog.String("component", "refresh_token_store")),
	}
}

// Ensure PostgresRefreshTokenStore implements store.RefreshTokenStore interface
var _ store.RefreshTokenStore = (*PostgresRefreshTokenStore)(nil)

// Save implements store.RefreshTokenStore.Save
// Returns store.ErrDuplicate if the token hash is already stored.
// Returns store.ErrInvalidEntity if the referenced user does not exist.
func (s *PostgresRefreshTokenStore) Save(ctx context.Context, token *domain.RefreshToken) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := token.Validate(); err != nil {
		log.Warn("refresh token validation failed during save",
			slog.String("error", err.Error()),
			slog.String("user_id", token.UserID.String()))
		return err
	}

	query := `
		INSERT INTO refresh_tokens (token_hash, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		token.TokenHash,
		token.UserID,
		token.ExpiresAt,
		token.CreatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate refresh token hash",
				slog.String("user_id", token.UserID.String()))
			return fmt.Errorf("%w: refresh token", store.ErrDuplicate)
		}
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during refresh token save",
				slog.String("user_id", token.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, token.UserID)
		}

		log.Error("failed to save refresh token",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", token.UserID.String()))
		return MapError(err)
	}

	log.Debug("refresh token saved",
		slog.String("user_id", token.UserID.String()))
	return nil
}

// GetByTokenHash implements store.RefreshTokenStore.GetByTokenHash
// Returns store.ErrRefreshTokenNotFound if no such token exists.
func (s *PostgresRefreshTokenStore) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT token_hash, user_id, expires_at, created_at
		FROM refresh_tokens
		WHERE token_hash = $1
	`

	var token domain.RefreshToken
	err := s.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.TokenHash,
		&token.UserID,
		&token.ExpiresAt,
		&token.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("refresh token not found")
			return nil, store.ErrRefreshTokenNotFound
		}
		log.Error("failed to get refresh token",
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}

	return &token, nil
}

// Rotate implements store.RefreshTokenStore.Rotate
// The old record is deleted and the new one saved in a single transaction.
// When the store is already bound to a transaction the swap runs on it
// directly; otherwise a new transaction wraps the two statements.
// Returns store.ErrRefreshTokenNotFound if oldTokenHash does not exist.
func (s *PostgresRefreshTokenStore) Rotate(ctx context.Context, oldTokenHash string, next *domain.RefreshToken) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := next.Validate(); err != nil {
		log.Warn("refresh token validation failed during rotate",
			slog.String("error", err.Error()),
			slog.String("user_id", next.UserID.String()))
		return err
	}

	sqlDB, ok := s.db.(*sql.DB)
	if !ok {
		return s.rotateIn(ctx, s.db, oldTokenHash, next)
	}

	err := store.RunInTransaction(ctx, sqlDB, func(ctx context.Context, tx *sql.Tx) error {
		return s.rotateIn(ctx, tx, oldTokenHash, next)
	})
	if err != nil {
		return err
	}

	log.Debug("refresh token rotated",
		slog.String("user_id", next.UserID.String()))
	return nil
}

// rotateIn performs the delete+insert pair on the given connection or
// transaction.
func (s *PostgresRefreshTokenStore) rotateIn(ctx context.Context, db store.DBTX, oldTokenHash string, next *domain.RefreshToken) error {
	result, err := db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token_hash = $1`, oldTokenHash)
	if err != nil {
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrRefreshTokenNotFound
	}

	query := `
		INSERT INTO refresh_tokens (token_hash, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err = db.ExecContext(
		ctx,
		query,
		next.TokenHash,
		next.UserID,
		next.ExpiresAt,
		next.CreatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// DeleteByTokenHash implements store.RefreshTokenStore.DeleteByTokenHash
// Returns store.ErrRefreshTokenNotFound if no such token exists.
func (s *PostgresRefreshTokenStore) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token_hash = $1`, tokenHash)
	if err != nil {
		log.Error("failed to delete refresh token",
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		log.Debug("refresh token not found for delete")
		return store.ErrRefreshTokenNotFound
	}

	log.Debug("refresh token deleted")
	return nil
}

// DeleteExpired implements store.RefreshTokenStore.DeleteExpired
// It removes every record whose expiry is in the past and reports how many
// rows were deleted.
func (s *PostgresRefreshTokenStore) DeleteExpired(ctx context.Context) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= now()`)
	if err != nil {
		log.Error("failed to delete expired refresh tokens",
			slog.String("error", redact.Error(err)))
		return 0, MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected > 0 {
		log.Info("deleted expired refresh tokens",
			slog.Int64("count", rowsAffected))
	}
	return rowsAffected, nil
}

// WithTx implements store.RefreshTokenStore.WithTx
// It returns a copy of the store bound to the given transaction.
func (s *PostgresRefreshTokenStore) WithTx(tx *sql.Tx) store.RefreshTokenStore {
	return &PostgresRefreshTokenStore{
		db:     tx,
		logger: s.logger,
	}
}
