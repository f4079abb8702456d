package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/flashgenius/flashgenius-api/internal/config"
	"github.com/flashgenius/flashgenius-api/internal/domain"
	"github.com/flashgenius/flashgenius-api/internal/generation"
	"github.com/flashgenius/flashgenius-api/internal/platform/logger"
	"github.com/flashgenius/flashgenius-api/internal/redact"
)

// GroqGenerator implements the generation.Generator interface using Groq's
// OpenAI-compatible chat completions API.
type GroqGenerator struct {
	// logger is used for structured logging
	logger *slog.Logger

	// config contains LLM-specific configuration
	config config.LLMConfig

	// httpClient carries the request timeout; one client is shared across calls
	httpClient *http.Client

	// endpoint is the fully resolved chat completions URL
	endpoint string
}

// Ensure GroqGenerator implements the generation.Generator interface.
var _ generation.Generator = (*GroqGenerator)(nil)

// NewGroqGenerator creates a new GroqGenerator with the provided dependencies.
// The configuration must carry an API key, a model name, a base URL, and a
// positive request timeout; anything else fails with ErrInvalidConfig.
func NewGroqGenerator(logger *slog.Logger, cfg config.LLMConfig) (*GroqGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GroqAPIKey == "" {
		return nil, fmt.Errorf("%w: groq API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: base URL cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.RequestTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("%w: request timeout must be positive", generation.ErrInvalidConfig)
	}

	return &GroqGenerator{
		logger: logger.With(slog.String("component", "groq_generator")),
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		},
		endpoint: strings.TrimSuffix(cfg.BaseURL, "/") + "/chat/completions",
	}, nil
}

// GenerateCards creates flashcards for the given request with a single chat
// completion call. The call is bounded by the configured timeout and is never
// retried; transport failures, auth rejections, and unusable responses map to
// the generation package's sentinel errors.
func (g *GroqGenerator) GenerateCards(ctx context.Context, req generation.Request) ([]domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	prompt, err := generation.BuildPrompt(req)
	if err != nil {
		return nil, err
	}

	body := ChatCompletionRequest{
		Model: g.config.ModelName,
		Messages: []ChatMessage{
			{Role: "system", Content: generation.SystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: g.config.Temperature,
		MaxTokens:   g.config.MaxTokens,
		TopP:        1,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.config.GroqAPIKey)

	log.DebugContext(ctx, "Calling chat completions endpoint",
		slog.String("model", g.config.ModelName),
		slog.Int("requested_cards", req.Count))

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		log.WarnContext(ctx, "Chat completion call failed",
			slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("%w: %v", generation.ErrEndpointUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, g.classifyStatus(ctx, log, resp)
	}

	var completion ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("%w: malformed completion body: %v", generation.ErrParseFailure, err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: completion carried no choices", generation.ErrParseFailure)
	}

	raw := completion.Choices[0].Message.Content
	log.DebugContext(ctx, "Received completion",
		slog.Int("response_length", len(raw)),
		slog.Int("total_tokens", completion.Usage.TotalTokens))

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

// classifyStatus maps a non-200 response onto the generation error taxonomy.
// 401/403 mean the key was rejected; everything else, including 429 and 5xx,
// counts as the endpoint being unavailable.
func (g *GroqGenerator) classifyStatus(ctx context.Context, log *slog.Logger, resp *http.Response) error {
	var apiErr APIErrorResponse
	detail := ""
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr); err == nil {
		detail = apiErr.Error.Message
	}

	log.WarnContext(ctx, "Chat completion returned error status",
		slog.Int("status", resp.StatusCode),
		slog.String("detail", redact.String(detail)))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: status %d", generation.ErrAuthFailure, resp.StatusCode)
	default:
		return fmt.Errorf("%w: status %d", generation.ErrEndpointUnavailable, resp.StatusCode)
	}
}
