package profile

import (
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"DREAMSENSE_GIGACHAT_KEY",
		"DREAMSENSE_GIGACHAT_AUTH_ENDPOINT",
		"DREAMSENSE_GIGACHAT_ENDPOINT",
		"DREAMSENSE_GIGACHAT_SCOPE",
		"DREAMSENSE_REDIS_URL",
		"DREAMSENSE_TEMPERATURE",
		"DREAMSENSE_MAX_CONTEXT_TURNS",
	} {
		t.Setenv(key, "")
	}

	p := &Profile{}
	p.FromEnv()

	if p.GigaChatKey != "" {
		t.Errorf("GigaChatKey = %q, want empty", p.GigaChatKey)
	}
	if p.IsGenerationEnabled() {
		t.Error("generation must be disabled without a key")
	}
	if p.GigaChatAuthEndpoint != defaultAuthEndpoint {
		t.Errorf("GigaChatAuthEndpoint = %q", p.GigaChatAuthEndpoint)
	}
	if p.GigaChatEndpoint != defaultEndpoint {
		t.Errorf("GigaChatEndpoint = %q", p.GigaChatEndpoint)
	}
	if p.GigaChatScope != defaultScope {
		t.Errorf("GigaChatScope = %q", p.GigaChatScope)
	}
	if p.Temperature != DefaultTemperature {
		t.Errorf("Temperature = %v, want %v", p.Temperature, DefaultTemperature)
	}
	if p.MaxContextTurns != DefaultMaxContextTurns {
		t.Errorf("MaxContextTurns = %d, want %d", p.MaxContextTurns, DefaultMaxContextTurns)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DREAMSENSE_GIGACHAT_KEY", "base64-key")
	t.Setenv("DREAMSENSE_GIGACHAT_SCOPE", "GIGACHAT_API_CORP")
	t.Setenv("DREAMSENSE_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("DREAMSENSE_TEMPERATURE", "0.7")
	t.Setenv("DREAMSENSE_MAX_CONTEXT_TURNS", "10")

	p := &Profile{}
	p.FromEnv()

	if !p.IsGenerationEnabled() {
		t.Error("generation must be enabled with a key")
	}
	if p.GigaChatScope != "GIGACHAT_API_CORP" {
		t.Errorf("GigaChatScope = %q", p.GigaChatScope)
	}
	if p.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("RedisURL = %q", p.RedisURL)
	}
	if p.Temperature != 0.7 {
		t.Errorf("Temperature = %v", p.Temperature)
	}
	if p.MaxContextTurns != 10 {
		t.Errorf("MaxContextTurns = %d", p.MaxContextTurns)
	}
}

func TestFromEnvIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("DREAMSENSE_TEMPERATURE", "hot")
	t.Setenv("DREAMSENSE_MAX_CONTEXT_TURNS", "many")

	p := &Profile{}
	p.FromEnv()

	if p.Temperature != DefaultTemperature {
		t.Errorf("Temperature = %v, want default", p.Temperature)
	}
	if p.MaxContextTurns != DefaultMaxContextTurns {
		t.Errorf("MaxContextTurns = %d, want default", p.MaxContextTurns)
	}
}

func TestValidateNormalizesMode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"prod", "prod"},
		{"dev", "dev"},
		{"demo", "demo"},
		{"", "demo"},
		{"staging", "demo"},
	}
	for _, tc := range tests {
		p := &Profile{Mode: tc.in, Port: 28090}
		if err := p.Validate(); err != nil {
			t.Fatalf("Validate(%q): %v", tc.in, err)
		}
		if p.Mode != tc.want {
			t.Errorf("mode %q normalized to %q, want %q", tc.in, p.Mode, tc.want)
		}
	}
}

func TestValidateRejectsBadPort(t *testing.T) {
	for _, port := range []int{0, -1, 65536} {
		p := &Profile{Mode: "demo", Port: port}
		if err := p.Validate(); err == nil {
			t.Errorf("Validate accepted port %d", port)
		}
	}
}

func TestValidateClampsTunables(t *testing.T) {
	p := &Profile{Mode: "demo", Port: 28090, Temperature: 1.5, MaxContextTurns: 100}
	if err := p.Validate(); err != nil {
		t.Fatal(err)
	}
	if p.Temperature != DefaultTemperature {
		t.Errorf("Temperature = %v, want clamped to default", p.Temperature)
	}
	if p.MaxContextTurns != DefaultMaxContextTurns {
		t.Errorf("MaxContextTurns = %d, want clamped to default", p.MaxContextTurns)
	}
}

func TestValidateFillsEndpointDefaults(t *testing.T) {
	p := &Profile{Mode: "demo", Port: 28090}
	if err := p.Validate(); err != nil {
		t.Fatal(err)
	}
	if p.GigaChatAuthEndpoint == "" || p.GigaChatEndpoint == "" || p.GigaChatScope == "" {
		t.Errorf("endpoint defaults not filled: %+v", p)
	}
}
