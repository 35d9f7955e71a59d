// Package config loads officebuddy settings from .env files and the
// environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/RadchaneepornC/officebuddy"
	"github.com/RadchaneepornC/officebuddy/gemini"
	"github.com/RadchaneepornC/officebuddy/openai"
	"github.com/joho/godotenv"
)

// Supported providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Environment variable names.
const (
	EnvProvider     = "OFFICEBUDDY_PROVIDER"
	EnvModel        = "OFFICEBUDDY_MODEL"
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvOpenAIBase   = "OPENAI_BASE_URL"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

// Config holds provider selection and credentials.
type Config struct {
	Provider      string
	Model         string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	GeminiAPIKey  string
}

// Load reads .env files (default ".env") into the process environment and
// builds a Config from it. Missing files are skipped; variables already set
// in the environment win over file values.
func Load(paths ...string) (*Config, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, officebuddy.Errorf(officebuddy.ECONFIG, "load %s: %v", p, err)
		}
	}
	return FromEnv(os.Getenv), nil
}

// FromEnv builds a Config from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) *Config {
	c := &Config{
		Provider:      NormalizeProvider(getenv(EnvProvider)),
		Model:         strings.TrimSpace(getenv(EnvModel)),
		OpenAIAPIKey:  strings.TrimSpace(getenv(EnvOpenAIKey)),
		OpenAIBaseURL: strings.TrimSpace(getenv(EnvOpenAIBase)),
		GeminiAPIKey:  strings.TrimSpace(getenv(EnvGeminiAPIKey)),
	}
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}
	return c
}

// NormalizeProvider trims and lowercases a provider name so "Gemini" and
// " gemini" select the same provider.
func NormalizeProvider(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Override applies command-line provider and model values. Empty values
// keep the loaded configuration.
func (c *Config) Override(provider, model string) {
	if p := NormalizeProvider(provider); p != "" {
		c.Provider = p
	}
	if m := strings.TrimSpace(model); m != "" {
		c.Model = m
	}
}

// ResolvedModel returns the configured model or the provider's default.
func (c *Config) ResolvedModel() string {
	if c.Model != "" {
		return c.Model
	}
	switch c.Provider {
	case ProviderGemini:
		return gemini.DefaultModel
	default:
		return openai.DefaultModel
	}
}

// Validate returns ECONFIG if the provider is unknown or its key is missing.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return officebuddy.Errorf(officebuddy.ECONFIG, "%s is not set", EnvOpenAIKey)
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return officebuddy.Errorf(officebuddy.ECONFIG, "%s is not set", EnvGeminiAPIKey)
		}
	default:
		return officebuddy.Errorf(officebuddy.ECONFIG, "unknown provider %q (want %s or %s)", c.Provider, ProviderOpenAI, ProviderGemini)
	}
	return nil
}
