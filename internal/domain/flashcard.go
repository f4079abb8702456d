package domain

import (
	"errors"
	"strings"
	"unicode"
)

// Flashcard-specific validation errors
var (
	// ErrEmptyQuestion is returned when a flashcard's question is blank.
	ErrEmptyQuestion = errors.New("flashcard question cannot be empty")

	// ErrEmptyAnswer is returned when a flashcard's answer is blank.
	ErrEmptyAnswer = errors.New("flashcard answer cannot be empty")
)

// Flashcard is a single question/answer pair inside a FlashcardSet.
// Cards carry no identity of their own; they live and die with their set.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Validate checks if the Flashcard has valid data.
// Returns an error if any field fails validation.
func (f Flashcard) Validate() error {
	if strings.TrimSpace(f.Question) == "" {
		return ErrEmptyQuestion
	}

	if strings.TrimSpace(f.Answer) == "" {
		return ErrEmptyAnswer
	}

	return nil
}

// TitleFromTopic derives a set title from the user-supplied topic: internal
// whitespace runs collapse to single spaces and the first rune is upper-cased.
// The result is deterministic so a topic always maps to the same title.
func TitleFromTopic(topic string) string {
	title := strings.Join(strings.Fields(topic), " ")
	if title == "" {
		return title
	}

	runes := []rune(title)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
