package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Storage  StorageConfig
	Pipeline PipelineConfig
	LLM      LLMConfig
}

// StorageConfig holds persistence-related configuration
type StorageConfig struct {
	DBPath string
	OutDir string
}

// PipelineConfig holds pipeline tuning knobs
type PipelineConfig struct {
	MaxCharsPerChunk int
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Provider      string
	Model         string
	APIKey        string
	BaseURL       string
	OllamaBaseURL string
	Temperature   float32
	Timeout       time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			DBPath: getEnv("BIDEXTRACT_DB", "bidextract.db"),
			OutDir: getEnv("OUT_DIR", "out"),
		},
		Pipeline: PipelineConfig{
			MaxCharsPerChunk: getEnvAsInt("MAX_CHARS_PER_CHUNK", 8000),
		},
		LLM: LLMConfig{
			Provider:      getEnv("LLM_PROVIDER", "openai"),
			Model:         getEnv("LLM_MODEL", "gpt-4o"),
			APIKey:        getEnvFirst("LLM_API_KEY", "OPENAI_API_KEY"),
			BaseURL:       getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://127.0.0.1:11434"),
			Temperature:   getEnvAsFloat32("LLM_TEMPERATURE", 0.0),
			Timeout:       getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
		},
	}
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Storage.DBPath == "" {
		return NewAppError("CONFIG_ERROR", "BIDEXTRACT_DB must not be empty", ErrInvalidInput)
	}
	if c.Pipeline.MaxCharsPerChunk <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_CHARS_PER_CHUNK must be positive", ErrInvalidInput)
	}
	if c.LLM.Provider == "openai" && c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required for the openai provider", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFirst(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
