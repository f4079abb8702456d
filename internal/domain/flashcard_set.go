package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// FlashcardSet-specific validation errors
var (
	// ErrSetIDEmpty is returned when a set ID is empty or nil.
	ErrSetIDEmpty = errors.New("flashcard set ID cannot be empty")

	// ErrSetOwnerIDEmpty is returned when a set's owner ID is empty or nil.
	ErrSetOwnerIDEmpty = errors.New("flashcard set owner ID cannot be empty")

	// ErrSetTitleEmpty is returned when a set's title is blank.
	ErrSetTitleEmpty = errors.New("flashcard set title cannot be empty")

	// ErrSetNoCards is returned when a set contains no valid cards.
	ErrSetNoCards = errors.New("flashcard set must contain at least one card")
)

// FlashcardSet is a titled, owner-scoped collection of flashcards produced by
// a single generation request. Card order is the generation order and is
// preserved through persistence.
type FlashcardSet struct {
	ID        uuid.UUID   `json:"id"`
	OwnerID   uuid.UUID   `json:"owner_id"`
	Title     string      `json:"title"`
	Cards     []Flashcard `json:"cards"`
	CreatedAt time.Time   `json:"created_at"`
}

// FlashcardSetSummary is the listing projection of a FlashcardSet: everything
// needed to render an overview row without loading the cards.
type FlashcardSetSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CardCount int       `json:"card_count"`
	CreatedAt time.Time `json:"created_at"`
}

// NewFlashcardSet creates a new FlashcardSet owned by ownerID. It generates a
// new UUID for the set ID and sets the creation timestamp.
// Returns an error if validation fails; a set with zero valid cards can never
// be constructed.
func NewFlashcardSet(ownerID uuid.UUID, title string, cards []Flashcard) (*FlashcardSet, error) {
	set := &FlashcardSet{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     title,
		Cards:     cards,
		CreatedAt: time.Now().UTC(),
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}

	return set, nil
}

// Validate checks if the FlashcardSet has valid data, including every card.
// Returns an error if any field fails validation.
func (s *FlashcardSet) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSetIDEmpty
	}

	if s.OwnerID == uuid.Nil {
		return ErrSetOwnerIDEmpty
	}

	if s.Title == "" {
		return ErrSetTitleEmpty
	}

	if len(s.Cards) == 0 {
		return ErrSetNoCards
	}

	for _, card := range s.Cards {
		if err := card.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Summary returns the listing projection of the set.
func (s *FlashcardSet) Summary() FlashcardSetSummary {
	return FlashcardSetSummary{
		ID:        s.ID,
		Title:     s.Title,
		CardCount: len(s.Cards),
		CreatedAt: s.CreatedAt,
	}
}
