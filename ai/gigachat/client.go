// Package gigachat invokes the external generation service behind a
// token cache. Every failure mode here is recoverable by substitution:
// the caller gets a "no result" signal and switches to the fallback
// generator, never an error.
package gigachat

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sashabaranov/go-openai"
)

const (
	// DefaultModel is the generation model name.
	DefaultModel = "GigaChat"

	generateTimeout = 15 * time.Second

	systemPersona = "Russian empathetic dream coach."
)

// Config holds the generation-service settings.
type Config struct {
	Key          string // pre-shared authorization key; empty disables generation
	AuthEndpoint string
	Endpoint     string // full completions URL
	Scope        string
	Model        string
	Temperature  float32
}

// Client is the token-cached generation client. The completion
// endpoint speaks the OpenAI chat protocol, so the request itself goes
// through go-openai; only the credential exchange is custom.
type Client struct {
	cfg     Config
	baseURL string
	tokens  *TokenManager

	mu          sync.Mutex
	api         *openai.Client
	clientToken string
}

func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Client{
		cfg: cfg,
		// go-openai appends /chat/completions itself.
		baseURL: strings.TrimSuffix(cfg.Endpoint, "/chat/completions"),
		tokens:  NewTokenManager(cfg.AuthEndpoint, cfg.Key, cfg.Scope),
	}
}

// Generate sends the prompt to the generation service and returns the
// first completion's text. The boolean reports whether a usable reply
// was produced; false tells the caller to substitute a fallback.
func (c *Client) Generate(ctx context.Context, promptText string) (string, bool) {
	if c.cfg.Key == "" {
		slog.Debug("gigachat: key not configured, skipping generation")
		return "", false
	}

	token := c.tokens.Token(ctx)
	if token == "" {
		slog.Warn("gigachat: no token available, skipping generation")
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPersona},
			{Role: openai.ChatMessageRoleUser, Content: promptText},
		},
	}

	resp, err := c.apiClient(token).CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusUnauthorized {
			slog.Warn("gigachat: authentication failed (401), using fallback")
		} else {
			slog.Error("gigachat: completion request failed", "error", err)
		}
		return "", false
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		slog.Warn("gigachat: empty completion")
		return "", false
	}

	slog.Debug("gigachat: completion received", "length", len(resp.Choices[0].Message.Content))
	return resp.Choices[0].Message.Content, true
}

// apiClient returns the go-openai client for the current bearer token,
// rebuilding it when the token has rotated.
func (c *Client) apiClient(token string) *openai.Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.api == nil || c.clientToken != token {
		clientConfig := openai.DefaultConfig(token)
		clientConfig.BaseURL = c.baseURL
		clientConfig.HTTPClient = &http.Client{Timeout: generateTimeout}
		c.api = openai.NewClientWithConfig(clientConfig)
		c.clientToken = token
	}
	return c.api
}
