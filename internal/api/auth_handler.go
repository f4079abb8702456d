package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/flashgenius/flashgenius-api/internal/api/shared"
	"github.com/flashgenius/flashgenius-api/internal/config"
	"github.com/flashgenius/flashgenius-api/internal/domain"
	"github.com/flashgenius/flashgenius-api/internal/platform/logger"
	"github.com/flashgenius/flashgenius-api/internal/redact"
	"github.com/flashgenius/flashgenius-api/internal/service/auth"
	"github.com/flashgenius/flashgenius-api/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userStore         store.UserStore
	refreshTokenStore store.RefreshTokenStore
	jwtService        auth.JWTService
	passwordVerifier  auth.PasswordVerifier
	refreshLifetime   time.Duration
	validator         *validator.Validate
	logger            *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	refreshTokenStore store.RefreshTokenStore,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	authConfig config.AuthConfig,
	log *slog.Logger,
) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}

	return &AuthHandler{
		userStore:         userStore,
		refreshTokenStore: refreshTokenStore,
		jwtService:        jwtService,
		passwordVerifier:  passwordVerifier,
		refreshLifetime:   time.Duration(authConfig.RefreshTokenLifetimeMinutes) * time.Minute,
		validator:         validator.New(),
		logger:            log.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /api/auth/register requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	user, err := domain.NewUser(req.Email, req.DisplayName, req.Password)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user data: "+err.Error())
		return
	}

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Email already exists")
			return
		}
		log.Error("failed to create user",
			slog.String("error", redact.Error(err)),
			slog.String("email", redact.String(req.Email)))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}

	accessToken, refreshToken, err := h.issueTokenPair(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to issue token pair",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", user.ID.String()))
		shared.RespondWithError(
			w,
			r,
			http.StatusInternalServerError,
			"Failed to generate authentication token",
		)
		return
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, userToAuthResponse(user, accessToken, refreshToken))
}

// Login handles POST /api/auth/login requests. Unknown emails and wrong
// passwords produce the same response so the two cannot be told apart.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Error("failed to get user by email",
			slog.String("error", redact.Error(err)),
			slog.String("email", redact.String(req.Email)))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to authenticate user")
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	accessToken, refreshToken, err := h.issueTokenPair(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to issue token pair",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", user.ID.String()))
		shared.RespondWithError(
			w,
			r,
			http.StatusInternalServerError,
			"Failed to generate authentication token",
		)
		return
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, userToAuthResponse(user, accessToken, refreshToken))
}

// RefreshToken handles POST /api/auth/refresh requests. A valid refresh token
// is exchanged for a fresh pair; the stored hash is atomically replaced, so
// each refresh token can be redeemed at most once.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RefreshTokenRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	newAccess, err := h.jwtService.GenerateToken(r.Context(), claims.UserID)
	if err != nil {
		log.Error("failed to generate access token",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", claims.UserID.String()))
		shared.RespondWithError(
			w,
			r,
			http.StatusInternalServerError,
			"Failed to generate authentication token",
		)
		return
	}

	newRefresh, err := h.jwtService.GenerateRefreshToken(r.Context(), claims.UserID)
	if err != nil {
		log.Error("failed to generate refresh token",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", claims.UserID.String()))
		shared.RespondWithError(
			w,
			r,
			http.StatusInternalServerError,
			"Failed to generate authentication token",
		)
		return
	}

	next, err := domain.NewRefreshToken(
		auth.HashRefreshToken(newRefresh),
		claims.UserID,
		time.Now().UTC().Add(h.refreshLifetime),
	)
	if err != nil {
		log.Error("failed to build refresh token record",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", claims.UserID.String()))
		shared.RespondWithError(
			w,
			r,
			http.StatusInternalServerError,
			"Failed to generate authentication token",
		)
		return
	}

	oldHash := auth.HashRefreshToken(req.RefreshToken)
	if err := h.refreshTokenStore.Rotate(r.Context(), oldHash, next); err != nil {
		if errors.Is(err, store.ErrRefreshTokenNotFound) {
			// The token was revoked by logout or already redeemed.
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid refresh token", err)
			return
		}
		log.Error("failed to rotate refresh token",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", claims.UserID.String()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to refresh token")
		return
	}

	h.cleanupExpiredTokens(r.Context(), log)

	log.Debug("refresh token rotated", slog.String("user_id", claims.UserID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, RefreshTokenResponse{
		AccessToken:  newAccess,
		RefreshToken: newRefresh,
	})
}

// Logout handles POST /api/auth/logout requests by revoking the stored
// refresh token. The operation is idempotent: logging out with an unknown
// token still succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LogoutRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	hash := auth.HashRefreshToken(req.RefreshToken)
	if err := h.refreshTokenStore.DeleteByTokenHash(r.Context(), hash); err != nil {
		if !errors.Is(err, store.ErrRefreshTokenNotFound) {
			log.Error("failed to delete refresh token", slog.String("error", redact.Error(err)))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to log out")
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// issueTokenPair generates an access/refresh token pair for the user and
// persists the refresh token's hash.
func (h *AuthHandler) issueTokenPair(
	ctx context.Context,
	userID uuid.UUID,
) (accessToken, refreshToken string, err error) {
	accessToken, err = h.jwtService.GenerateToken(ctx, userID)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = h.jwtService.GenerateRefreshToken(ctx, userID)
	if err != nil {
		return "", "", err
	}

	record, err := domain.NewRefreshToken(
		auth.HashRefreshToken(refreshToken),
		userID,
		time.Now().UTC().Add(h.refreshLifetime),
	)
	if err != nil {
		return "", "", err
	}

	if err := h.refreshTokenStore.Save(ctx, record); err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// cleanupExpiredTokens opportunistically removes expired refresh token rows
// after a successful rotation. Failures are logged and otherwise ignored.
func (h *AuthHandler) cleanupExpiredTokens(ctx context.Context, log *slog.Logger) {
	removed, err := h.refreshTokenStore.DeleteExpired(ctx)
	if err != nil {
		log.Warn("failed to clean up expired refresh tokens",
			slog.String("error", redact.Error(err)))
		return
	}
	if removed > 0 {
		log.Debug("removed expired refresh tokens", slog.Int64("count", removed))
	}
}
