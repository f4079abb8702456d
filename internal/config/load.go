package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Default model served through Groq's OpenAI-compatible endpoint.
const defaultModelName = "meta-llama/llama-4-scout-17b-16e-instruct"

// Load reads configuration from environment variables and, when present, a
// config.yaml in the working directory. Environment variables take precedence
// over values from the config file, which take precedence over defaults.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config file. A missing file is fine; a malformed one is not.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables use the FLASHGENIUS_ prefix with underscores for
	// nesting, e.g. FLASHGENIUS_DATABASE_URL, FLASHGENIUS_AUTH_JWT_SECRET.
	v.SetEnvPrefix("FLASHGENIUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers a default for every known key. Registering the keys,
// including the required-from-environment ones as empty strings, is what lets
// viper's AutomaticEnv feed Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("database.url", "")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 10080)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("llm.provider", "groq")
	v.SetDefault("llm.groq_api_key", "")
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.model_name", defaultModelName)
	v.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.request_timeout_seconds", 30)
	v.SetDefault("llm.max_tokens", 2048)
	v.SetDefault("llm.temperature", 0.7)

	v.SetDefault("generation.default_card_count", 8)
	v.SetDefault("generation.min_card_count", 1)
	v.SetDefault("generation.max_card_count", 50)
	v.SetDefault("generation.max_topic_length", 200)
}
