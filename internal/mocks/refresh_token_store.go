package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/flashgenius/flashgenius-api/internal/domain"
	"github.com/flashgenius/flashgenius-api/internal/store"
)

// MockRefreshTokenStore implements store.RefreshTokenStore for testing.
// The default implementation keeps token records in memory keyed by hash.
type MockRefreshTokenStore struct {
	// Function fields for customizable behavior
	SaveFn              func(ctx context.Context, token *domain.RefreshToken) error
	GetByTokenHashFn    func(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RotateFn            func(ctx context.Context, oldTokenHash string, next *domain.RefreshToken) error
	DeleteByTokenHashFn func(ctx context.Context, tokenHash string) error
	DeleteExpiredFn     func(ctx context.Context) (int64, error)

	// Data for default implementation
	mu     sync.Mutex
	Tokens map[string]*domain.RefreshToken

	// Defaults returned before the in-memory behavior runs
	SaveError   error
	RotateError error
}

// Ensure MockRefreshTokenStore implements the store.RefreshTokenStore interface.
var _ store.RefreshTokenStore = (*MockRefreshTokenStore)(nil)

// NewMockRefreshTokenStore creates a new mock store with initialized defaults
func NewMockRefreshTokenStore() *MockRefreshTokenStore {
	return &MockRefreshTokenStore{
		Tokens: make(map[string]*domain.RefreshToken),
	}
}

// Save implements the RefreshTokenStore interface
func (m *MockRefreshTokenStore) Save(ctx context.Context, token *domain.RefreshToken) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, token)
	}

	if m.SaveError != nil {
		return m.SaveError
	}

	if err := token.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Tokens[token.TokenHash]; exists {
		return store.ErrDuplicate
	}

	m.Tokens[token.TokenHash] = token
	return nil
}

// GetByTokenHash implements the RefreshTokenStore interface
func (m *MockRefreshTokenStore) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*domain.RefreshToken, error) {
	if m.GetByTokenHashFn != nil {
		return m.GetByTokenHashFn(ctx, tokenHash)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	token, exists := m.Tokens[tokenHash]
	if !exists {
		return nil, store.ErrRefreshTokenNotFound
	}

	return token, nil
}

// Rotate implements the RefreshTokenStore interface. The old record must
// exist for the swap to happen, mirroring the transactional SQL behavior.
func (m *MockRefreshTokenStore) Rotate(
	ctx context.Context,
	oldTokenHash string,
	next *domain.RefreshToken,
) error {
	if m.RotateFn != nil {
		return m.RotateFn(ctx, oldTokenHash, next)
	}

	if m.RotateError != nil {
		return m.RotateError
	}

	if err := next.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Tokens[oldTokenHash]; !exists {
		return store.ErrRefreshTokenNotFound
	}

	delete(m.Tokens, oldTokenHash)
	m.Tokens[next.TokenHash] = next
	return nil
}

// DeleteByTokenHash implements the RefreshTokenStore interface
func (m *MockRefreshTokenStore) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	if m.DeleteByTokenHashFn != nil {
		return m.DeleteByTokenHashFn(ctx, tokenHash)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Tokens[tokenHash]; !exists {
		return store.ErrRefreshTokenNotFound
	}

	delete(m.Tokens, tokenHash)
	return nil
}

// DeleteExpired implements the RefreshTokenStore interface
func (m *MockRefreshTokenStore) DeleteExpired(ctx context.Context) (int64, error) {
	if m.DeleteExpiredFn != nil {
		return m.DeleteExpiredFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	var removed int64
	for hash, token := range m.Tokens {
		if token.IsExpired(now) {
			delete(m.Tokens, hash)
			removed++
		}
	}

	return removed, nil
}

// WithTx implements the RefreshTokenStore interface for transaction support
func (m *MockRefreshTokenStore) WithTx(tx *sql.Tx) store.RefreshTokenStore {
	return m
}

// Contains reports whether a token with the given hash is stored.
func (m *MockRefreshTokenStore) Contains(tokenHash string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.Tokens[tokenHash]
	return exists
}
