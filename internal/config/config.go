package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth" validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm" validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	// TokenLifetimeMinutes bounds access token validity.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lte=1440"`
	// RefreshTokenLifetimeMinutes bounds refresh token validity. The default
	// of 10080 minutes matches the 7-day sessions the product started with.
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0,lte=43200"`
	BcryptCost                  int `mapstructure:"bcrypt_cost" validate:"required,gte=4,lte=31"`
}

// LLMConfig contains all LLM integration related settings.
//
// GroqAPIKey and GeminiAPIKey are deliberately optional: a missing key for
// the selected provider puts the service into a generation-disabled state
// rather than failing startup.
type LLMConfig struct {
	Provider              string  `mapstructure:"provider" validate:"required,oneof=groq gemini"`
	GroqAPIKey            string  `mapstructure:"groq_api_key"`
	GeminiAPIKey          string  `mapstructure:"gemini_api_key"`
	ModelName             string  `mapstructure:"model_name" validate:"required"`
	BaseURL               string  `mapstructure:"base_url" validate:"required,url"`
	RequestTimeoutSeconds int     `mapstructure:"request_timeout_seconds" validate:"required,gte=1,lte=120"`
	MaxTokens             int     `mapstructure:"max_tokens" validate:"required,gt=0"`
	Temperature           float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
}

// GenerationConfig contains the bounds applied to flashcard generation
// requests before they reach a provider.
type GenerationConfig struct {
	DefaultCardCount int `mapstructure:"default_card_count" validate:"required,gte=1,lte=50"`
	MinCardCount     int `mapstructure:"min_card_count" validate:"required,gte=1"`
	MaxCardCount     int `mapstructure:"max_card_count" validate:"required,gtefield=MinCardCount,lte=50"`
	MaxTopicLength   int `mapstructure:"max_topic_length" validate:"required,gt=0"`
}
