package mocks

import (
	"context"
	"sync"

	"github.com/flashgenius/flashgenius-api/internal/domain"
	"github.com/flashgenius/flashgenius-api/internal/generation"
)

// MockGenerator implements generation.Generator for testing
type MockGenerator struct {
	// GenerateCardsFn allows test cases to mock the GenerateCards behavior
	GenerateCardsFn func(ctx context.Context, req generation.Request) ([]domain.Flashcard, error)

	// Default response values
	Cards []domain.Flashcard
	Err   error

	// Call tracking for verification
	GenerateCardsCalls struct {
		// mu protects the call tracking state for concurrent test cases
		mu sync.Mutex

		// Count tracks how many times GenerateCards was called
		Count int

		// Requests contains all requests passed to GenerateCards calls
		Requests []generation.Request
	}
}

// Ensure MockGenerator implements the generation.Generator interface.
var _ generation.Generator = (*MockGenerator)(nil)

// GenerateCards implements the generation.Generator interface
func (m *MockGenerator) GenerateCards(
	ctx context.Context,
	req generation.Request,
) ([]domain.Flashcard, error) {
	m.GenerateCardsCalls.mu.Lock()
	m.GenerateCardsCalls.Count++
	m.GenerateCardsCalls.Requests = append(m.GenerateCardsCalls.Requests, req)
	m.GenerateCardsCalls.mu.Unlock()

	if m.GenerateCardsFn != nil {
		return m.GenerateCardsFn(ctx, req)
	}

	return m.Cards, m.Err
}

// CallCount returns how many times GenerateCards was called.
func (m *MockGenerator) CallCount() int {
	m.GenerateCardsCalls.mu.Lock()
	defer m.GenerateCardsCalls.mu.Unlock()
	return m.GenerateCardsCalls.Count
}

// Reset resets the call tracking state
func (m *MockGenerator) Reset() {
	m.GenerateCardsCalls.mu.Lock()
	defer m.GenerateCardsCalls.mu.Unlock()

	m.GenerateCardsCalls.Count = 0
	m.GenerateCardsCalls.Requests = nil
}

// NewMockGeneratorWithCards creates a MockGenerator that returns the specified cards
func NewMockGeneratorWithCards(cards []domain.Flashcard) *MockGenerator {
	return &MockGenerator{
		Cards: cards,
	}
}

// NewMockGeneratorWithError creates a MockGenerator that returns the specified error
func NewMockGeneratorWithError(err error) *MockGenerator {
	return &MockGenerator{
		Err: err,
	}
}

// NewMockGeneratorWithDefaultCards creates a MockGenerator with sample cards
func NewMockGeneratorWithDefaultCards() *MockGenerator {
	return &MockGenerator{
		Cards: []domain.Flashcard{
			{
				Question: "What is hexagonal architecture?",
				Answer:   "An architectural pattern that isolates the domain from external concerns.",
			},
			{
				Question: "What is Dependency Inversion?",
				Answer:   "A principle where high-level modules depend on abstractions rather than low-level modules.",
			},
		},
	}
}
