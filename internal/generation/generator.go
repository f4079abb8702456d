package generation

import (
	"context"
	"strings"

	"github.com/flashgenius/flashgenius-api/internal/config"
	"github.com/flashgenius/flashgenius-api/internal/domain"
)

// Generator defines the interface for generating flashcards from a topic.
// This interface serves as a boundary between the application core and
// external AI/LLM services, following the hexagonal architecture pattern.
//
// Implementations make at most one inference call per invocation; retrying is
// the caller's decision, never the generator's.
type Generator interface {
	// GenerateCards creates flashcards for the topic and count carried by req.
	// It returns the generated cards in model output order, already validated,
	// deduplicated, and truncated to req.Count, or an error classifying the
	// failure (see errors.go). The returned slice is never empty on success.
	GenerateCards(ctx context.Context, req Request) ([]domain.Flashcard, error)
}

// Limits bounds generation requests before they reach a provider.
type Limits struct {
	DefaultCards int
	MinCards     int
	MaxCards     int
}

// LimitsFromConfig derives request limits from the generation configuration.
func LimitsFromConfig(cfg config.GenerationConfig) Limits {
	return Limits{
		DefaultCards: cfg.DefaultCardCount,
		MinCards:     cfg.MinCardCount,
		MaxCards:     cfg.MaxCardCount,
	}
}

// Request is a normalized generation request: a non-blank topic and a card
// count already clamped into the configured bounds.
type Request struct {
	Topic string
	Count int
}

// NewRequest validates the topic and clamps count into the given limits.
// A count of zero or less selects the default. Returns ErrEmptyTopic when the
// topic is blank after trimming.
func NewRequest(topic string, count int, limits Limits) (Request, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Request{}, ErrEmptyTopic
	}

	switch {
	case count <= 0:
		count = limits.DefaultCards
	case count < limits.MinCards:
		count = limits.MinCards
	case count > limits.MaxCards:
		count = limits.MaxCards
	}

	return Request{Topic: topic, Count: count}, nil
}

// DisabledGenerator is the Generator wired in when no API key is configured
// for the selected provider. Every call fails with ErrDisabled so the rest of
// the application keeps working with generation switched off.
type DisabledGenerator struct{}

// Ensure DisabledGenerator implements the Generator interface.
var _ Generator = (*DisabledGenerator)(nil)

// NewDisabledGenerator creates a generator whose calls always fail with
// ErrDisabled.
func NewDisabledGenerator() *DisabledGenerator {
	return &DisabledGenerator{}
}

// GenerateCards always returns ErrDisabled.
func (g *DisabledGenerator) GenerateCards(_ context.Context, _ Request) ([]domain.Flashcard, error) {
	return nil, ErrDisabled
}
