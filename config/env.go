package config

import (
	"os"
	"strings"
)

// Environment selects defaults and validation rules.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment reads ENV. CI=true overrides it so pipelines never pick up
// development fallbacks.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ENV"))) {
	case "production", "prod":
		return Production
	case "test":
		return Test
	}
	return Development
}

func IsProduction() bool {
	return GetEnvironment() == Production
}
