package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/flashgenius/flashgenius-api/internal/domain"
	"github.com/flashgenius/flashgenius-api/internal/store"
)

// MockFlashcardSetStore implements store.FlashcardSetStore for testing.
// The default implementation keeps sets in memory and honors the owner
// scoping and ordering contracts of the real store.
type MockFlashcardSetStore struct {
	// Function fields for customizable behavior
	CreateFn      func(ctx context.Context, set *domain.FlashcardSet) error
	GetByIDFn     func(ctx context.Context, id, ownerID uuid.UUID) (*domain.FlashcardSet, error)
	ListByOwnerFn func(ctx context.Context, ownerID uuid.UUID) ([]domain.FlashcardSetSummary, error)
	DeleteFn      func(ctx context.Context, id, ownerID uuid.UUID) error

	// Data for default implementation
	mu   sync.Mutex
	Sets map[uuid.UUID]*domain.FlashcardSet

	// Defaults returned before the in-memory behavior runs
	CreateError error
	ListError   error

	// CreateCallCount tracks how many times Create was called
	CreateCallCount int
}

// Ensure MockFlashcardSetStore implements the store.FlashcardSetStore interface.
var _ store.FlashcardSetStore = (*MockFlashcardSetStore)(nil)

// NewMockFlashcardSetStore creates a new mock store with initialized defaults
func NewMockFlashcardSetStore() *MockFlashcardSetStore {
	return &MockFlashcardSetStore{
		Sets: make(map[uuid.UUID]*domain.FlashcardSet),
	}
}

// Create implements the FlashcardSetStore interface
func (m *MockFlashcardSetStore) Create(ctx context.Context, set *domain.FlashcardSet) error {
	m.mu.Lock()
	m.CreateCallCount++
	m.mu.Unlock()

	if m.CreateFn != nil {
		return m.CreateFn(ctx, set)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	if err := set.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets[set.ID] = set
	return nil
}

// GetByID implements the FlashcardSetStore interface
func (m *MockFlashcardSetStore) GetByID(
	ctx context.Context,
	id, ownerID uuid.UUID,
) (*domain.FlashcardSet, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	set, exists := m.Sets[id]
	if !exists || set.OwnerID != ownerID {
		return nil, store.ErrFlashcardSetNotFound
	}

	return set, nil
}

// ListByOwner implements the FlashcardSetStore interface.
// Summaries come back newest first with ID as the tie breaker, matching the
// ordering the SQL store produces.
func (m *MockFlashcardSetStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]domain.FlashcardSetSummary, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, ownerID)
	}

	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	summaries := make([]domain.FlashcardSetSummary, 0)
	for _, set := range m.Sets {
		if set.OwnerID == ownerID {
			summaries = append(summaries, set.Summary())
		}
	}

	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
		}
		return summaries[i].ID.String() > summaries[j].ID.String()
	})

	return summaries, nil
}

// Delete implements the FlashcardSetStore interface
func (m *MockFlashcardSetStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	set, exists := m.Sets[id]
	if !exists || set.OwnerID != ownerID {
		return store.ErrFlashcardSetNotFound
	}

	delete(m.Sets, id)
	return nil
}

// WithTx implements the FlashcardSetStore interface for transaction support
func (m *MockFlashcardSetStore) WithTx(tx *sql.Tx) store.FlashcardSetStore {
	return m
}

// Len returns the number of stored sets.
func (m *MockFlashcardSetStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sets)
}
