package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/flashgenius/flashgenius-api/internal/api/shared"
	"github.com/flashgenius/flashgenius-api/internal/platform/logger"
	"github.com/flashgenius/flashgenius-api/internal/service"
)

// FlashcardHandler handles flashcard set API requests. Every endpoint
// requires an authenticated user; sets are only ever visible to their owner.
type FlashcardHandler struct {
	flashcardService service.FlashcardService
	validator        *validator.Validate
	logger           *slog.Logger
}

// NewFlashcardHandler creates a new FlashcardHandler with the given service.
func NewFlashcardHandler(flashcardService service.FlashcardService, log *slog.Logger) *FlashcardHandler {
	if log == nil {
		log = slog.Default()
	}

	return &FlashcardHandler{
		flashcardService: flashcardService,
		validator:        validator.New(),
		logger:           log.With(slog.String("component", "flashcard_handler")),
	}
}

// CreateFlashcardSet handles POST /api/flashcard-sets requests. It generates
// cards for the requested topic and persists them as a new set owned by the
// authenticated user.
func (h *FlashcardHandler) CreateFlashcardSet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req CreateFlashcardSetRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	set, err := h.flashcardService.CreateSet(r.Context(), userID, req.Topic, req.CardCount)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("flashcard set created",
		slog.String("set_id", set.ID.String()),
		slog.Int("card_count", len(set.Cards)))
	shared.RespondWithJSON(w, r, http.StatusCreated, setToResponse(set))
}

// ListFlashcardSets handles GET /api/flashcard-sets requests. Sets are
// returned newest first, without their cards.
func (h *FlashcardHandler) ListFlashcardSets(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	sets, err := h.flashcardService.ListSets(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summariesToResponse(sets))
}

// GetFlashcardSet handles GET /api/flashcard-sets/{id} requests. Requesting
// a set owned by another user yields the same 404 as a set that does not
// exist.
func (h *FlashcardHandler) GetFlashcardSet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	setID, ok := requirePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	set, err := h.flashcardService.GetSet(r.Context(), setID, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, setToResponse(set))
}

// DeleteFlashcardSet handles DELETE /api/flashcard-sets/{id} requests.
func (h *FlashcardHandler) DeleteFlashcardSet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	setID, ok := requirePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.flashcardService.DeleteSet(r.Context(), setID, userID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("flashcard set deleted", slog.String("set_id", setID.String()))
	w.WriteHeader(http.StatusNoContent)
}
