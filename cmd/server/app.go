package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/flashgenius/flashgenius-api/internal/config"
	"github.com/flashgenius/flashgenius-api/internal/generation"
	"github.com/flashgenius/flashgenius-api/internal/platform/gemini"
	"github.com/flashgenius/flashgenius-api/internal/platform/groq"
	"github.com/flashgenius/flashgenius-api/internal/platform/postgres"
	"github.com/flashgenius/flashgenius-api/internal/service"
	"github.com/flashgenius/flashgenius-api/internal/service/auth"
	"github.com/flashgenius/flashgenius-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore         store.UserStore
	refreshTokenStore store.RefreshTokenStore
	flashcardSetStore store.FlashcardSetStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	generator        generation.Generator
	flashcardService service.FlashcardService
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes,
		"refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes)

	// Initialize password verifier
	app.passwordVerifier = auth.NewBcryptVerifier()

	// Initialize stores
	app.userStore = postgres.NewPostgresUserStore(db, logger, cfg.Auth.BcryptCost)
	app.refreshTokenStore = postgres.NewPostgresRefreshTokenStore(db, logger)
	app.flashcardSetStore = postgres.NewPostgresFlashcardSetStore(db, logger)

	// Create the LLM generator for the configured provider
	app.generator, err = buildGenerator(ctx, logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize flashcard generator: %w", err)
	}

	// Initialize flashcard service
	app.flashcardService, err = service.NewFlashcardService(
		app.generator,
		app.flashcardSetStore,
		cfg.Generation,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create flashcard service: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
}

// buildGenerator creates the generation backend for the configured provider.
// A missing API key disables generation instead of failing startup; flashcard
// creation then answers 503 until a key is supplied.
func buildGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) (generation.Generator, error) {
	switch cfg.Provider {
	case "groq":
		if cfg.GroqAPIKey == "" {
			logger.Warn("no Groq API key configured, flashcard generation is disabled")
			return generation.NewDisabledGenerator(), nil
		}
		return groq.NewGroqGenerator(logger, cfg)
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			logger.Warn("no Gemini API key configured, flashcard generation is disabled")
			return generation.NewDisabledGenerator(), nil
		}
		return gemini.NewGeminiGenerator(ctx, logger, cfg)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
