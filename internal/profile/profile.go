package profile

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Recognized bounds for tunables. Out-of-range values are clamped
// with a warning rather than failing startup.
const (
	DefaultTemperature     = 0.35
	DefaultMaxContextTurns = 5
	MinContextTurns        = 1
	MaxContextTurns        = 20
)

const (
	defaultAuthEndpoint = "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"
	defaultEndpoint     = "https://gigachat.devices.sberbank.ru/api/v1/chat/completions"
	defaultScope        = "GIGACHAT_API_PERS"
)

// Profile is configuration to start the main server.
type Profile struct {
	Mode    string // "prod", "dev" or "demo"
	Addr    string
	Port    int
	Version string

	// Generation service (GigaChat-compatible).
	GigaChatKey          string // pre-shared authorization key; empty disables generation
	GigaChatAuthEndpoint string
	GigaChatEndpoint     string
	GigaChatScope        string

	// Conversation context.
	RedisURL        string // optional external cache backend
	Temperature     float64
	MaxContextTurns int
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsGenerationEnabled returns true when the pre-shared key is
// configured; without it every reply comes from the fallback
// generator.
func (p *Profile) IsGenerationEnabled() bool {
	return p.GigaChatKey != ""
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
func (p *Profile) FromEnv() {
	p.GigaChatKey = getEnvOrDefault("DREAMSENSE_GIGACHAT_KEY", "")
	p.GigaChatAuthEndpoint = getEnvOrDefault("DREAMSENSE_GIGACHAT_AUTH_ENDPOINT", defaultAuthEndpoint)
	p.GigaChatEndpoint = getEnvOrDefault("DREAMSENSE_GIGACHAT_ENDPOINT", defaultEndpoint)
	p.GigaChatScope = getEnvOrDefault("DREAMSENSE_GIGACHAT_SCOPE", defaultScope)
	p.RedisURL = getEnvOrDefault("DREAMSENSE_REDIS_URL", "")
	p.Temperature = getEnvOrDefaultFloat("DREAMSENSE_TEMPERATURE", DefaultTemperature)
	p.MaxContextTurns = getEnvOrDefaultInt("DREAMSENSE_MAX_CONTEXT_TURNS", DefaultMaxContextTurns)

	if !p.IsGenerationEnabled() {
		slog.Warn("generation key not configured, all replies will use fallback templates")
	}
}

// Validate normalizes the profile. Tunables out of range are clamped;
// only a structurally unusable profile is an error.
func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Port <= 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}

	if p.Temperature < 0.0 || p.Temperature > 1.0 {
		slog.Warn("temperature out of range, using default",
			"value", p.Temperature, "default", DefaultTemperature)
		p.Temperature = DefaultTemperature
	}
	if p.MaxContextTurns < MinContextTurns || p.MaxContextTurns > MaxContextTurns {
		slog.Warn("max context turns out of range, using default",
			"value", p.MaxContextTurns, "default", DefaultMaxContextTurns)
		p.MaxContextTurns = DefaultMaxContextTurns
	}

	if p.GigaChatAuthEndpoint == "" {
		p.GigaChatAuthEndpoint = defaultAuthEndpoint
	}
	if p.GigaChatEndpoint == "" {
		p.GigaChatEndpoint = defaultEndpoint
	}
	if p.GigaChatScope == "" {
		p.GigaChatScope = defaultScope
	}

	return nil
}
