package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort     string
	ServerHost     string
	AllowedOrigins []string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// LLM provider used by Sasha
	LLMAPIKey      string
	LLMAPIURL      string
	LLMModel       string
	LLMMaxTokens   int
	LLMTemperature float64

	// Object storage for recipe photos
	S3Bucket    string
	S3Endpoint  string
	S3PublicURL string
	AWSRegion   string

	// Outgoing mail
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string
	EmailName    string
	AppBaseURL   string

	// Feature flags
	RecipeDetailV2 bool

	LogLevel string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{
		ServerPort:     lookup("SERVER_PORT", "server_port", "8080"),
		ServerHost:     lookup("SERVER_HOST", "server_host", "0.0.0.0"),
		AllowedOrigins: splitList(lookup("CORS_ALLOWED_ORIGINS", "cors_allowed_origins", "http://localhost:5173")),

		DBHost:     lookup("DB_HOST", "db_host", "localhost"),
		DBPort:     lookup("DB_PORT", "db_port", "5432"),
		DBUser:     lookup("DB_USER", "db_user", "postgres"),
		DBPassword: lookup("DB_PASSWORD", "db_password", devDefault(env, "postgres")),
		DBName:     lookup("DB_NAME", "db_name", "sashabakes"),
		DBSSLMode:  lookup("DB_SSL_MODE", "db_ssl_mode", "disable"),

		RedisHost:     lookup("REDIS_HOST", "redis_host", "localhost"),
		RedisPort:     lookup("REDIS_PORT", "redis_port", "6379"),
		RedisPassword: lookup("REDIS_PASSWORD", "redis_password", ""),
		RedisURL:      lookup("REDIS_URL", "redis_url", ""),
		RedisDB:       0, // This is a constant, not a secret

		JWTSecret: lookup("JWT_SECRET", "jwt_secret", devDefault(env, "dev-jwt-secret")),

		LLMAPIKey: llmAPIKey(),
		LLMAPIURL: lookup("LLM_API_URL", "llm_api_url", "https://api.openai.com/v1/chat/completions"),
		LLMModel:  lookup("LLM_MODEL", "llm_model", "gpt-4o-mini"),

		S3Bucket:    lookup("S3_BUCKET_NAME", "s3_bucket_name", "sasha-bakes-recipe-photos"),
		S3Endpoint:  lookup("S3_ENDPOINT", "", ""),
		S3PublicURL: lookup("S3_PUBLIC_URL", "", ""),
		AWSRegion:   lookup("AWS_REGION", "aws_region", "us-east-1"),

		SMTPHost:     lookup("SMTP_HOST", "smtp_host", ""),
		SMTPPort:     lookup("SMTP_PORT", "smtp_port", ""),
		SMTPUsername: lookup("SMTP_USERNAME", "smtp_username", ""),
		SMTPPassword: lookup("SMTP_PASSWORD", "smtp_password", ""),
		EmailFrom:    lookup("EMAIL_FROM", "email_from", "hello@sashabakes.com"),
		EmailName:    lookup("EMAIL_FROM_NAME", "email_from_name", "Sasha Bakes"),
		AppBaseURL:   lookup("APP_BASE_URL", "app_base_url", "http://localhost:5173"),

		LogLevel: lookup("LOG_LEVEL", "", "info"),
	}

	var err error
	if cfg.LLMMaxTokens, err = strconv.Atoi(lookup("LLM_MAX_TOKENS", "", "1000")); err != nil {
		return nil, fmt.Errorf("invalid LLM_MAX_TOKENS: %w", err)
	}
	if cfg.LLMTemperature, err = strconv.ParseFloat(lookup("LLM_TEMPERATURE", "", "0.7"), 64); err != nil {
		return nil, fmt.Errorf("invalid LLM_TEMPERATURE: %w", err)
	}
	if cfg.RecipeDetailV2, err = parseBool(lookup("FEATURE_RECIPE_DETAIL_V2", "", "false")); err != nil {
		return nil, fmt.Errorf("invalid FEATURE_RECIPE_DETAIL_V2: %w", err)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DSN returns the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// lookup resolves a value from the environment, then a Docker secret, then the fallback.
func lookup(envVar, secret, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(envVar)); v != "" {
		return v
	}
	if secret != "" {
		if v := readSecret(secret); v != "" {
			return v
		}
	}
	return fallback
}

// devDefault only supplies a fallback outside production and CI.
func devDefault(env Environment, value string) string {
	if env == Development || env == Test {
		return value
	}
	return ""
}

func llmAPIKey() string {
	if key := lookup("LLM_API_KEY", "llm_api_key", ""); key != "" {
		return key
	}
	if path := os.Getenv("LLM_API_KEY_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off", "":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", s)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
