package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/flashgenius/flashgenius-api/internal/config"
	"github.com/flashgenius/flashgenius-api/internal/domain"
	"github.com/flashgenius/flashgenius-api/internal/generation"
	"github.com/flashgenius/flashgenius-api/internal/platform/logger"
	"github.com/flashgenius/flashgenius-api/internal/store"
)

// FlashcardService provides flashcard set operations: generating a new set
// from a topic and reading, listing, and deleting existing sets.
type FlashcardService interface {
	// CreateSet generates flashcards for the topic and persists them as a new
	// set owned by ownerID. Generation and persistence are atomic from the
	// caller's perspective: when generation fails, nothing is stored and the
	// generator's error is returned for the API layer to classify.
	CreateSet(ctx context.Context, ownerID uuid.UUID, topic string, requestedCount int) (*domain.FlashcardSet, error)

	// GetSet retrieves a single set with its cards, scoped to ownerID.
	GetSet(ctx context.Context, id, ownerID uuid.UUID) (*domain.FlashcardSet, error)

	// ListSets retrieves summaries of all sets owned by ownerID, newest first.
	ListSets(ctx context.Context, ownerID uuid.UUID) ([]domain.FlashcardSetSummary, error)

	// DeleteSet removes a set and its cards, scoped to ownerID.
	DeleteSet(ctx context.Context, id, ownerID uuid.UUID) error
}

// flashcardServiceImpl implements the FlashcardService interface
type flashcardServiceImpl struct {
	generator      generation.Generator
	setStore       store.FlashcardSetStore
	limits         generation.Limits
	maxTopicLength int
	logger         *slog.Logger
}

// Ensure flashcardServiceImpl implements FlashcardService interface
var _ FlashcardService = (*flashcardServiceImpl)(nil)

// NewFlashcardService creates a new FlashcardService.
// It returns an error if any of the required dependencies are nil.
func NewFlashcardService(
	generator generation.Generator,
	setStore store.FlashcardSetStore,
	cfg config.GenerationConfig,
	logger *slog.Logger,
) (FlashcardService, error) {
	if generator == nil {
		return nil, fmt.Errorf("generator cannot be nil")
	}
	if setStore == nil {
		return nil, fmt.Errorf("setStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &flashcardServiceImpl{
		generator:      generator,
		setStore:       setStore,
		limits:         generation.LimitsFromConfig(cfg),
		maxTopicLength: cfg.MaxTopicLength,
		logger:         logger.With(slog.String("component", "flashcard_service")),
	}, nil
}

// CreateSet generates flashcards for the topic and persists them as a new set.
// The store is never touched until generation has produced at least one valid
// card, so a failed inference call leaves no trace.
func (s *flashcardServiceImpl) CreateSet(
	ctx context.Context,
	ownerID uuid.UUID,
	topic string,
	requestedCount int,
) (*domain.FlashcardSet, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	topic = strings.TrimSpace(topic)
	if len(topic) > s.maxTopicLength {
		log.Debug("rejecting over-long topic",
			slog.Int("topic_length", len(topic)),
			slog.Int("max_length", s.maxTopicLength))
		return nil, ErrTopicTooLong
	}

	req, err := generation.NewRequest(topic, requestedCount, s.limits)
	if err != nil {
		return nil, err
	}

	log.Debug("generating flashcard set",
		slog.String("owner_id", ownerID.String()),
		slog.Int("requested_count", req.Count))

	cards, err := s.generator.GenerateCards(ctx, req)
	if err != nil {
		log.Warn("flashcard generation failed",
			slog.String("owner_id", ownerID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	set, err := domain.NewFlashcardSet(ownerID, domain.TitleFromTopic(topic), cards)
	if err != nil {
		log.Error("generated cards failed set validation",
			slog.String("owner_id", ownerID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("building flashcard set: %w", err)
	}

	if err := s.setStore.Create(ctx, set); err != nil {
		log.Error("failed to persist flashcard set",
			slog.String("owner_id", ownerID.String()),
			slog.String("set_id", set.ID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("flashcard set created",
		slog.String("owner_id", ownerID.String()),
		slog.String("set_id", set.ID.String()),
		slog.Int("card_count", len(set.Cards)))

	return set, nil
}

// GetSet retrieves a single set with its cards, scoped to ownerID.
func (s *flashcardServiceImpl) GetSet(
	ctx context.Context,
	id, ownerID uuid.UUID,
) (*domain.FlashcardSet, error) {
	return s.setStore.GetByID(ctx, id, ownerID)
}

// ListSets retrieves summaries of all sets owned by ownerID.
func (s *flashcardServiceImpl) ListSets(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]domain.FlashcardSetSummary, error) {
	return s.setStore.ListByOwner(ctx, ownerID)
}

// DeleteSet removes a set and its cards, scoped to ownerID.
func (s *flashcardServiceImpl) DeleteSet(ctx context.Context, id, ownerID uuid.UUID) error {
	return s.setStore.Delete(ctx, id, ownerID)
}
