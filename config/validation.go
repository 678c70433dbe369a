package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequiredFields []string
}

var (
	// Environment-specific requirements
	requirements = map[Environment]ConfigRequirements{
		Development: {
			RequiredFields: []string{"SERVER_PORT", "DB_HOST", "DB_NAME", "JWT_SECRET"},
		},
		Test: {
			RequiredFields: []string{"SERVER_PORT", "DB_HOST", "DB_NAME", "JWT_SECRET"},
		},
		CI: {
			RequiredFields: []string{"SERVER_PORT", "DB_HOST", "DB_NAME", "DB_PASSWORD", "JWT_SECRET"},
		},
		Production: {
			RequiredFields: []string{"SERVER_PORT", "DB_HOST", "DB_NAME", "DB_PASSWORD", "JWT_SECRET", "LLM_API_KEY", "S3_BUCKET_NAME"},
		},
	}
)

func fieldValue(cfg *Config, field string) string {
	switch field {
	case "SERVER_PORT":
		return cfg.ServerPort
	case "DB_HOST":
		return cfg.DBHost
	case "DB_NAME":
		return cfg.DBName
	case "DB_PASSWORD":
		return cfg.DBPassword
	case "JWT_SECRET":
		return cfg.JWTSecret
	case "LLM_API_KEY":
		return cfg.LLMAPIKey
	case "S3_BUCKET_NAME":
		return cfg.S3Bucket
	}
	return ""
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	reqs := requirements[env]

	var errs []string
	for _, field := range reqs.RequiredFields {
		if fieldValue(cfg, field) == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required in " + string(env)}.Error())
		}
	}

	if cfg.LLMMaxTokens <= 0 {
		errs = append(errs, ValidationError{Field: "LLM_MAX_TOKENS", Message: "must be positive"}.Error())
	}
	if cfg.LLMTemperature < 0 || cfg.LLMTemperature > 2 {
		errs = append(errs, ValidationError{Field: "LLM_TEMPERATURE", Message: "must be between 0 and 2"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
