package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/flashgenius/flashgenius-api/internal/domain"
	"github.com/flashgenius/flashgenius-api/internal/mocks"
	"github.com/flashgenius/flashgenius-api/internal/platform/groq"
	"github.com/flashgenius/flashgenius-api/internal/service"
	"github.com/flashgenius/flashgenius-api/internal/service/auth"
	"github.com/flashgenius/flashgenius-api/internal/store"
)

// newFlowApplication wires the production router, handlers, token service,
// and generation pipeline over in-memory stores and a fake inference
// endpoint. Only the database is replaced; every HTTP-visible behavior is
// the real wiring.
func newFlowApplication(t *testing.T, llmHandler http.HandlerFunc) (*application, *mocks.MockFlashcardSetStore) {
	t.Helper()

	llmServer := httptest.NewServer(llmHandler)
	t.Cleanup(llmServer.Close)

	cfg := testAppConfig()
	cfg.LLM.GroqAPIKey = "gsk-test-key"
	cfg.LLM.BaseURL = llmServer.URL
	cfg.LLM.RequestTimeoutSeconds = 5
	cfg.Auth.BcryptCost = bcrypt.MinCost

	log := testAppLogger()

	// The SQL user store hashes passwords on create; the mock does the same
	// so login verifies against a real bcrypt hash.
	userStore := mocks.NewMockUserStore()
	userStore.CreateFn = func(ctx context.Context, user *domain.User) error {
		if _, exists := userStore.Users[user.Email]; exists {
			return store.ErrEmailExists
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.MinCost)
		if err != nil {
			return err
		}
		user.HashedPassword = string(hash)
		user.Password = ""
		userStore.Users[user.Email] = user
		return nil
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	require.NoError(t, err)

	generator, err := groq.NewGroqGenerator(log, cfg.LLM)
	require.NoError(t, err)

	setStore := mocks.NewMockFlashcardSetStore()
	flashcardService, err := service.NewFlashcardService(generator, setStore, cfg.Generation, log)
	require.NoError(t, err)

	app := &application{
		config:            cfg,
		logger:            log,
		userStore:         userStore,
		refreshTokenStore: mocks.NewMockRefreshTokenStore(),
		flashcardSetStore: setStore,
		jwtService:        jwtService,
		passwordVerifier:  auth.NewBcryptVerifier(),
		generator:         generator,
		flashcardService:  flashcardService,
	}
	return app, setStore
}

// doJSON sends a JSON request through the router, attaching the bearer token
// when one is given.
func doJSON(t *testing.T, router http.Handler, method, target, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

// photosynthesisHandler answers every chat completion request with five
// well-formed flashcards.
func photosynthesisHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk-test-key", r.Header.Get("Authorization"))

		cards := make([]map[string]string, 0, 5)
		for i := 1; i <= 5; i++ {
			cards = append(cards, map[string]string{
				"question": fmt.Sprintf("Photosynthesis question %d?", i),
				"answer":   fmt.Sprintf("Photosynthesis answer %d.", i),
			})
		}
		content, err := json.Marshal(map[string]any{"flashcards": cards})
		require.NoError(t, err)

		resp := groq.ChatCompletionResponse{
			ID: "chatcmpl-flow",
			Choices: []groq.ChatCompletionChoice{{
				Message:      groq.ChatMessage{Role: "assistant", Content: string(content)},
				FinishReason: "stop",
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}
}

func TestFullUserFlow(t *testing.T) {
	app, setStore := newFlowApplication(t, photosynthesisHandler(t))
	router := app.setupRouter()

	// Register a new account. The blank display name falls back to the
	// email local part.
	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":    "casey@example.com",
		"password": "secret-pass-123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var registered struct {
		UserID      string `json:"user_id"`
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&registered))
	assert.Equal(t, "casey@example.com", registered.Email)
	assert.Equal(t, "casey", registered.DisplayName)
	assert.NotEmpty(t, registered.AccessToken)

	// Log in with the same credentials for a fresh token pair.
	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "casey@example.com",
		"password": "secret-pass-123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var session struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&session))
	require.NotEmpty(t, session.AccessToken)
	require.NotEmpty(t, session.RefreshToken)

	// Generate a flashcard set.
	rec = doJSON(t, router, http.MethodPost, "/api/flashcard-sets", session.AccessToken, map[string]any{
		"topic":      "photosynthesis",
		"card_count": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		CardCount int    `json:"card_count"`
		Cards     []struct {
			Question string `json:"question"`
			Answer   string `json:"answer"`
		} `json:"cards"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "Photosynthesis", created.Title)
	assert.Equal(t, 5, created.CardCount)
	require.Len(t, created.Cards, 5)
	assert.Equal(t, "Photosynthesis question 1?", created.Cards[0].Question)
	assert.Equal(t, "Photosynthesis answer 5.", created.Cards[4].Answer)

	// The listing shows the new set.
	rec = doJSON(t, router, http.MethodGet, "/api/flashcard-sets", session.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listing struct {
		FlashcardSets []struct {
			ID        string `json:"id"`
			Title     string `json:"title"`
			CardCount int    `json:"card_count"`
		} `json:"flashcard_sets"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&listing))
	require.Len(t, listing.FlashcardSets, 1)
	assert.Equal(t, created.ID, listing.FlashcardSets[0].ID)
	assert.Equal(t, 5, listing.FlashcardSets[0].CardCount)

	// Viewing the set returns all cards in generation order.
	rec = doJSON(t, router, http.MethodGet, "/api/flashcard-sets/"+created.ID, session.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var viewed struct {
		Cards []struct {
			Question string `json:"question"`
		} `json:"cards"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&viewed))
	require.Len(t, viewed.Cards, 5)
	for i, card := range viewed.Cards {
		assert.Equal(t, fmt.Sprintf("Photosynthesis question %d?", i+1), card.Question)
	}

	// Rotate the refresh token; the old one is spent.
	rec = doJSON(t, router, http.MethodPost, "/api/auth/refresh", "", map[string]any{
		"refresh_token": session.RefreshToken,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var rotated struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rotated))
	require.NotEmpty(t, rotated.RefreshToken)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/refresh", "", map[string]any{
		"refresh_token": session.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Logout revokes the current refresh token.
	rec = doJSON(t, router, http.MethodPost, "/api/auth/logout", "", map[string]any{
		"refresh_token": rotated.RefreshToken,
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/refresh", "", map[string]any{
		"refresh_token": rotated.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Delete the set; a second delete reports it gone.
	rec = doJSON(t, router, http.MethodDelete, "/api/flashcard-sets/"+created.ID, session.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, setStore.Len())

	rec = doJSON(t, router, http.MethodDelete, "/api/flashcard-sets/"+created.ID, session.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerationFailureFlowPersistsNothing(t *testing.T) {
	app, setStore := newFlowApplication(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
	})
	router := app.setupRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":    "casey@example.com",
		"password": "secret-pass-123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var registered struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&registered))

	rec = doJSON(t, router, http.MethodPost, "/api/flashcard-sets", registered.AccessToken, map[string]any{
		"topic": "volcanoes",
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var errResp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, "Flashcard generation is temporarily unavailable, please try again later", errResp.Error)

	// Nothing was persisted and the listing stays empty.
	assert.Equal(t, 0, setStore.Len())

	rec = doJSON(t, router, http.MethodGet, "/api/flashcard-sets", registered.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"flashcard_sets":[]`)
}
