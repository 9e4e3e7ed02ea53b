package config

import (
	"os"
	"strconv"

	"datascout/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	AI       AIConfig `validate:"required"`
	Server   ServerConfig
	Data     DataConfig
}

// DatabaseConfig holds database connection settings. URL may be empty, in
// which case results are kept in memory only.
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// AIConfig holds generation related settings
type AIConfig struct {
	OpenAIKey   string `validate:"required"`
	OpenAIModel string `validate:"required"`
	MaxTokens   int
	Temperature float64
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DataConfig holds ingestion limits
type DataConfig struct {
	MaxSampleValues    int
	MaxRowsForAnalysis int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	aiConfig, err := loadAIConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AI configuration")
	}

	config := &Config{
		Database: DatabaseConfig{
			URL:     getEnvOrDefault("DATABASE_URL", ""),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		AI: *aiConfig,
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Data: DataConfig{
			MaxSampleValues:    getEnvIntOrDefault("MAX_SAMPLE_VALUES", 5),
			MaxRowsForAnalysis: getEnvIntOrDefault("MAX_ROWS_FOR_ANALYSIS", 10000),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadAIConfig() (*AIConfig, error) {
	openaiKey := os.Getenv("OPENAI_API_KEY")
	if openaiKey == "" {
		return nil, errors.ConfigInvalid("OPENAI_API_KEY is required")
	}

	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "gpt-4o-mini" // default
	}

	return &AIConfig{
		OpenAIKey:   openaiKey,
		OpenAIModel: model,
		MaxTokens:   getEnvIntOrDefault("MAX_TOKENS", 4000),
		Temperature: getEnvFloatOrDefault("TEMPERATURE", 1.0),
	}, nil
}

func validateConfig(config *Config) error {
	if config.AI.OpenAIKey == "" {
		return errors.ConfigInvalid("OpenAI API key is required")
	}
	if config.Data.MaxSampleValues <= 0 {
		return errors.ConfigInvalid("MAX_SAMPLE_VALUES must be positive")
	}
	if config.Data.MaxRowsForAnalysis <= 0 {
		return errors.ConfigInvalid("MAX_ROWS_FOR_ANALYSIS must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
