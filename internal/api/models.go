package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/flashgenius/flashgenius-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
// DisplayName is optional; a blank value falls back to the local part of the
// email address.
type RegisterRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	DisplayName string `json:"display_name" validate:"omitempty,max=100"`
	Password    string `json:"password"     validate:"required,min=6,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`

	// AccessToken is the JWT used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the JWT used to obtain new access tokens
	RefreshToken string `json:"refresh_token"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh
// endpoint: a fresh token pair.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest defines the payload for the logout endpoint.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// CreateFlashcardSetRequest defines the payload for generating a new set.
// CardCount is optional; zero selects the configured default and out-of-range
// values are clamped rather than rejected.
type CreateFlashcardSetRequest struct {
	Topic     string `json:"topic" validate:"required"`
	CardCount int    `json:"card_count"`
}

// FlashcardResponse represents a single question/answer pair.
type FlashcardResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FlashcardSetResponse represents a full flashcard set, cards included, in
// generation order.
type FlashcardSetResponse struct {
	ID        uuid.UUID           `json:"id"`
	Title     string              `json:"title"`
	Cards     []FlashcardResponse `json:"cards"`
	CardCount int                 `json:"card_count"`
	CreatedAt time.Time           `json:"created_at"`
}

// FlashcardSetSummaryResponse represents a set in the listing, without cards.
type FlashcardSetSummaryResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CardCount int       `json:"card_count"`
	CreatedAt time.Time `json:"created_at"`
}

// FlashcardSetListResponse wraps the listing so the payload stays extensible.
type FlashcardSetListResponse struct {
	FlashcardSets []FlashcardSetSummaryResponse `json:"flashcard_sets"`
}

// setToResponse converts a domain.FlashcardSet to a FlashcardSetResponse
func setToResponse(set *domain.FlashcardSet) FlashcardSetResponse {
	cards := make([]FlashcardResponse, 0, len(set.Cards))
	for _, card := range set.Cards {
		cards = append(cards, FlashcardResponse{
			Question: card.Question,
			Answer:   card.Answer,
		})
	}

	return FlashcardSetResponse{
		ID:        set.ID,
		Title:     set.Title,
		Cards:     cards,
		CardCount: len(cards),
		CreatedAt: set.CreatedAt,
	}
}

// summariesToResponse converts listing summaries to their response form.
// The result is never nil so an empty listing serializes as [].
func summariesToResponse(summaries []domain.FlashcardSetSummary) FlashcardSetListResponse {
	out := make([]FlashcardSetSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, FlashcardSetSummaryResponse{
			ID:        s.ID,
			Title:     s.Title,
			CardCount: s.CardCount,
			CreatedAt: s.CreatedAt,
		})
	}

	return FlashcardSetListResponse{FlashcardSets: out}
}

// userToAuthResponse builds the authentication response for a user and the
// freshly issued token pair.
func userToAuthResponse(user *domain.User, accessToken, refreshToken string) AuthResponse {
	return AuthResponse{
		UserID:       user.ID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}
}
