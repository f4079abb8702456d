package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/flashgenius/flashgenius-api/internal/config"
	"github.com/flashgenius/flashgenius-api/internal/domain"
	"github.com/flashgenius/flashgenius-api/internal/generation"
	"github.com/flashgenius/flashgenius-api/internal/platform/logger"
	"github.com/flashgenius/flashgenius-api/internal/redact"
)

// GeminiGenerator implements the generation.Generator interface using
// Google's Gemini API.
type GeminiGenerator struct {
	// logger is used for structured logging
	logger *slog.Logger

	// config contains LLM-specific configuration
	config config.LLMConfig

	// client is the Gemini API client for making requests
	client *genai.Client
}

// Ensure GeminiGenerator implements the generation.Generator interface.
var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a new GeminiGenerator with the provided
// dependencies. The configuration must carry an API key, a model name, and a
// positive request timeout; anything else fails with ErrInvalidConfig.
// Constructing the client performs no network calls.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.RequestTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("%w: request timeout must be positive", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger: logger.With(slog.String("component", "gemini_generator")),
		config: cfg,
		client: client,
	}, nil
}

// GenerateCards creates flashcards for the given request with a single
// generate content call. The call is bounded by the configured timeout and is
// never retried; transport failures, auth rejections, and unusable responses
// map to the generation package's sentinel errors.
func (g *GeminiGenerator) GenerateCards(ctx context.Context, req generation.Request) ([]domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	prompt, err := generation.BuildPrompt(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(g.config.RequestTimeoutSeconds)*time.Second)
	defer cancel()

	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(g.config.Temperature)),
		MaxOutputTokens: int32(g.config.MaxTokens),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(generation.SystemPrompt)},
		},
	}

	log.DebugContext(ctx, "Calling Gemini generate content endpoint",
		slog.String("model", g.config.ModelName),
		slog.Int("requested_cards", req.Count))

	resp, err := g.client.Models.GenerateContent(ctx, g.config.ModelName, genai.Text(prompt), genConfig)
	if err != nil {
		log.WarnContext(ctx, "Generate content call failed",
			slog.String("error", redact.Error(err)))
		return nil, mapError(err)
	}

	raw := resp.Text()
	if strings.TrimSpace(raw) == "" {
		log.WarnContext(ctx, "Completion carried no text")
		return nil, fmt.Errorf("%w: completion carried no text", generation.ErrParseFailure)
	}

	log.DebugContext(ctx, "Received completion",
		slog.Int("response_length", len(raw)))

	result := generation.ParseCards(raw)
	switch result.Outcome {
	case generation.ParseFailed:
		log.WarnContext(ctx, "Completion yielded no parseable cards",
			slog.Int("response_length", len(raw)))
		return nil, fmt.Errorf("%w: both parsing strategies produced zero cards", generation.ErrParseFailure)
	case generation.ParsedStructured, generation.ParsedHeuristic:
		log.DebugContext(ctx, "Parsed completion",
			slog.String("strategy", result.Outcome.String()),
			slog.Int("parsed_cards", len(result.Cards)))
	}

	cards := generation.NormalizeCards(result.Cards, req.Count)
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: no card survived validation", generation.ErrEmptyResult)
	}

	log.InfoContext(ctx, "Generated flashcards",
		slog.String("strategy", result.Outcome.String()),
		slog.Int("card_count", len(cards)))

	return cards, nil
}

// mapError translates a failed generate content call onto the generation
// error taxonomy. 401 and 403 mean the key was rejected; every other API
// status, and any transport or deadline failure, counts as the endpoint
// being unavailable.
func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: status %d", generation.ErrAuthFailure, apiErr.Code)
		default:
			return fmt.Errorf("%w: status %d", generation.ErrEndpointUnavailable, apiErr.Code)
		}
	}

	return fmt.Errorf("%w: %v", generation.ErrEndpointUnavailable, err)
}
