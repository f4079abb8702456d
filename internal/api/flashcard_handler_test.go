package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashgenius/flashgenius-api/internal/api/shared"
	"github.com/flashgenius/flashgenius-api/internal/config"
	"github.com/flashgenius/flashgenius-api/internal/domain"
	"github.com/flashgenius/flashgenius-api/internal/generation"
	"github.com/flashgenius/flashgenius-api/internal/mocks"
	"github.com/flashgenius/flashgenius-api/internal/service"
)

func testGenerationConfig() config.GenerationConfig {
	return config.GenerationConfig{
		DefaultCardCount: 8,
		MinCardCount:     1,
		MaxCardCount:     50,
		MaxTopicLength:   200,
	}
}

// newFlashcardDeps wires a FlashcardHandler to the real service over mock
// generation and storage.
func newFlashcardDeps(
	t *testing.T,
	generator *mocks.MockGenerator,
) (*FlashcardHandler, *mocks.MockFlashcardSetStore) {
	t.Helper()

	setStore := mocks.NewMockFlashcardSetStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := service.NewFlashcardService(generator, setStore, testGenerationConfig(), log)
	require.NoError(t, err)

	return NewFlashcardHandler(svc, log), setStore
}

// newFlashcardRouter mounts the handler the way the server does, with the
// given user pre-authenticated on every request.
func newFlashcardRouter(handler *FlashcardHandler, userID uuid.UUID) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Post("/api/flashcard-sets", handler.CreateFlashcardSet)
	r.Get("/api/flashcard-sets", handler.ListFlashcardSets)
	r.Get("/api/flashcard-sets/{id}", handler.GetFlashcardSet)
	r.Delete("/api/flashcard-sets/{id}", handler.DeleteFlashcardSet)
	return r
}

func doRequest(
	t *testing.T,
	router http.Handler,
	method, target string,
	payload interface{},
) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

// seedSet stores a set directly, bypassing generation.
func seedSet(
	t *testing.T,
	setStore *mocks.MockFlashcardSetStore,
	ownerID uuid.UUID,
	title string,
	createdAt time.Time,
) *domain.FlashcardSet {
	t.Helper()

	set, err := domain.NewFlashcardSet(ownerID, title, []domain.Flashcard{
		{Question: "What is the capital of France?", Answer: "Paris"},
	})
	require.NoError(t, err)
	set.CreatedAt = createdAt
	require.NoError(t, setStore.Create(context.Background(), set))
	return set
}

func TestCreateFlashcardSet(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("generates cards and returns the new set", func(t *testing.T) {
		cards := make([]domain.Flashcard, 5)
		for i := range cards {
			cards[i] = domain.Flashcard{
				Question: fmt.Sprintf("Question %d about photosynthesis", i+1),
				Answer:   fmt.Sprintf("Answer %d", i+1),
			}
		}
		handler, setStore := newFlashcardDeps(t, mocks.NewMockGeneratorWithCards(cards))
		router := newFlashcardRouter(handler, userID)

		payload := map[string]interface{}{"topic": "photosynthesis", "card_count": 5}
		recorder := doRequest(t, router, http.MethodPost, "/api/flashcard-sets", payload)
		require.Equal(t, http.StatusCreated, recorder.Code)

		var resp FlashcardSetResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.NotEqual(t, uuid.Nil, resp.ID)
		assert.Equal(t, "Photosynthesis", resp.Title)
		assert.Equal(t, 5, resp.CardCount)
		require.Len(t, resp.Cards, 5)
		assert.Equal(t, "Question 1 about photosynthesis", resp.Cards[0].Question)
		assert.Equal(t, 1, setStore.Len())
	})

	t.Run("generation failures map to gateway errors and persist nothing", func(t *testing.T) {
		tests := []struct {
			name       string
			genErr     error
			wantStatus int
		}{
			{"provider unreachable", generation.ErrEndpointUnavailable, http.StatusServiceUnavailable},
			{"generation disabled", generation.ErrDisabled, http.StatusServiceUnavailable},
			{"unparseable model output", generation.ErrParseFailure, http.StatusBadGateway},
			{"model returned no cards", generation.ErrEmptyResult, http.StatusBadGateway},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				handler, setStore := newFlashcardDeps(t, mocks.NewMockGeneratorWithError(tt.genErr))
				router := newFlashcardRouter(handler, userID)

				payload := map[string]interface{}{"topic": "photosynthesis"}
				recorder := doRequest(t, router, http.MethodPost, "/api/flashcard-sets", payload)
				assert.Equal(t, tt.wantStatus, recorder.Code)
				assert.Equal(t, 0, setStore.Len(), "failed generation must not persist a set")
			})
		}
	})

	t.Run("blank topic is rejected", func(t *testing.T) {
		generator := mocks.NewMockGeneratorWithDefaultCards()
		handler, _ := newFlashcardDeps(t, generator)
		router := newFlashcardRouter(handler, userID)

		payload := map[string]interface{}{"topic": "   "}
		recorder := doRequest(t, router, http.MethodPost, "/api/flashcard-sets", payload)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, 0, generator.CallCount())
	})

	t.Run("missing topic is rejected", func(t *testing.T) {
		handler, _ := newFlashcardDeps(t, mocks.NewMockGeneratorWithDefaultCards())
		router := newFlashcardRouter(handler, userID)

		recorder := doRequest(t, router, http.MethodPost, "/api/flashcard-sets", map[string]interface{}{})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("malformed JSON is rejected", func(t *testing.T) {
		handler, _ := newFlashcardDeps(t, mocks.NewMockGeneratorWithDefaultCards())
		router := newFlashcardRouter(handler, userID)

		req := httptest.NewRequest(http.MethodPost, "/api/flashcard-sets", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("card count above the maximum is clamped", func(t *testing.T) {
		generator := mocks.NewMockGeneratorWithDefaultCards()
		handler, _ := newFlashcardDeps(t, generator)
		router := newFlashcardRouter(handler, userID)

		payload := map[string]interface{}{"topic": "gravity", "card_count": 500}
		recorder := doRequest(t, router, http.MethodPost, "/api/flashcard-sets", payload)
		require.Equal(t, http.StatusCreated, recorder.Code)

		require.Len(t, generator.GenerateCardsCalls.Requests, 1)
		assert.Equal(t, 50, generator.GenerateCardsCalls.Requests[0].Count)
	})
}

func TestListFlashcardSets(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	handler, setStore := newFlashcardDeps(t, mocks.NewMockGeneratorWithDefaultCards())

	now := time.Now().UTC()
	older := seedSet(t, setStore, userID, "Older set", now.Add(-time.Hour))
	newer := seedSet(t, setStore, userID, "Newer set", now)

	t.Run("lists own sets newest first without cards", func(t *testing.T) {
		router := newFlashcardRouter(handler, userID)

		recorder := doRequest(t, router, http.MethodGet, "/api/flashcard-sets", nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		var resp FlashcardSetListResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		require.Len(t, resp.FlashcardSets, 2)
		assert.Equal(t, newer.ID, resp.FlashcardSets[0].ID)
		assert.Equal(t, older.ID, resp.FlashcardSets[1].ID)
		assert.Equal(t, 1, resp.FlashcardSets[0].CardCount)
	})

	t.Run("other users see an empty list", func(t *testing.T) {
		router := newFlashcardRouter(handler, uuid.New())

		recorder := doRequest(t, router, http.MethodGet, "/api/flashcard-sets", nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		// Empty, not null: clients iterate the array unconditionally.
		assert.Contains(t, recorder.Body.String(), `"flashcard_sets":[]`)
	})
}

func TestGetFlashcardSet(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	handler, setStore := newFlashcardDeps(t, mocks.NewMockGeneratorWithDefaultCards())
	set := seedSet(t, setStore, userID, "Cell biology", time.Now().UTC())

	t.Run("owner retrieves the full set", func(t *testing.T) {
		router := newFlashcardRouter(handler, userID)

		recorder := doRequest(t, router, http.MethodGet, "/api/flashcard-sets/"+set.ID.String(), nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		var resp FlashcardSetResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, set.ID, resp.ID)
		assert.Equal(t, "Cell biology", resp.Title)
		require.Len(t, resp.Cards, 1)
		assert.Equal(t, "Paris", resp.Cards[0].Answer)
	})

	t.Run("another user's set is indistinguishable from a missing one", func(t *testing.T) {
		router := newFlashcardRouter(handler, uuid.New())

		recorder := doRequest(t, router, http.MethodGet, "/api/flashcard-sets/"+set.ID.String(), nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("unknown set ID", func(t *testing.T) {
		router := newFlashcardRouter(handler, userID)

		recorder := doRequest(t, router, http.MethodGet, "/api/flashcard-sets/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("malformed set ID", func(t *testing.T) {
		router := newFlashcardRouter(handler, userID)

		recorder := doRequest(t, router, http.MethodGet, "/api/flashcard-sets/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestDeleteFlashcardSet(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	handler, setStore := newFlashcardDeps(t, mocks.NewMockGeneratorWithDefaultCards())
	set := seedSet(t, setStore, userID, "Doomed set", time.Now().UTC())

	// Run order matters: the set must still exist for the stranger's attempt.
	t.Run("another user cannot delete the set", func(t *testing.T) {
		router := newFlashcardRouter(handler, uuid.New())

		recorder := doRequest(t, router, http.MethodDelete, "/api/flashcard-sets/"+set.ID.String(), nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Equal(t, 1, setStore.Len())
	})

	t.Run("owner deletes the set", func(t *testing.T) {
		router := newFlashcardRouter(handler, userID)

		recorder := doRequest(t, router, http.MethodDelete, "/api/flashcard-sets/"+set.ID.String(), nil)
		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Empty(t, recorder.Body.String())
		assert.Equal(t, 0, setStore.Len())
	})

	t.Run("deleting again yields not found", func(t *testing.T) {
		router := newFlashcardRouter(handler, userID)

		recorder := doRequest(t, router, http.MethodDelete, "/api/flashcard-sets/"+set.ID.String(), nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestFlashcardEndpointsRequireUser(t *testing.T) {
	t.Parallel()

	handler, _ := newFlashcardDeps(t, mocks.NewMockGeneratorWithDefaultCards())

	// No user ID in the context, as when the middleware chain is bypassed.
	req := httptest.NewRequest(http.MethodGet, "/api/flashcard-sets", nil)
	recorder := httptest.NewRecorder()
	handler.ListFlashcardSets(recorder, req)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
