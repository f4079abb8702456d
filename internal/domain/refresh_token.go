package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// RefreshToken-specific validation errors
var (
	// ErrEmptyTokenHash is returned when a refresh token hash is blank.
	ErrEmptyTokenHash = errors.New("refresh token hash cannot be empty")

	// ErrTokenUserIDEmpty is returned when a refresh token's user ID is empty or nil.
	ErrTokenUserIDEmpty = errors.New("refresh token user ID cannot be empty")

	// ErrZeroExpiry is returned when a refresh token has no expiry time.
	ErrZeroExpiry = errors.New("refresh token expiry cannot be zero")
)

// RefreshToken is the persisted record of an issued refresh token. Only the
// SHA-256 hash of the token string is stored; the token itself exists solely
// on the client.
type RefreshToken struct {
	TokenHash string    `json:"-"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRefreshToken creates a RefreshToken record for the given user.
// Returns an error if validation fails.
func NewRefreshToken(tokenHash string, userID uuid.UUID, expiresAt time.Time) (*RefreshToken, error) {
	token := &RefreshToken{
		TokenHash: tokenHash,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}

	if err := token.Validate(); err != nil {
		return nil, err
	}

	return token, nil
}

// Validate checks if the RefreshToken has valid data.
// Returns an error if any field fails validation.
func (t *RefreshToken) Validate() error {
	if t.TokenHash == "" {
		return ErrEmptyTokenHash
	}

	if t.UserID == uuid.Nil {
		return ErrTokenUserIDEmpty
	}

	if t.ExpiresAt.IsZero() {
		return ErrZeroExpiry
	}

	return nil
}

// IsExpired reports whether the token is expired at the given instant.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
