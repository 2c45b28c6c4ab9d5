// Package suggest produces AI-assisted par level, margin, and recipe
// suggestions over an OpenAI-compatible chat endpoint.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Role constants.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat-completion message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer is the minimal chat surface the suggesters need. Client
// implements it; tests substitute a stub.
type Completer interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// payload is the request body sent to the chat-completions endpoint.
type payload struct {
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p"`
	MaxTokens   int       `json:"max_tokens"`
	Model       string    `json:"model,omitempty"`
}

// apiResponse is the top-level response envelope.
type apiResponse struct {
	Choices []choice `json:"choices"`
}

type choice struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithModel overrides the default model name.
func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float64) ClientOption {
	return func(c *Client) { c.temperature = t }
}

// WithMaxTokens sets the response token limit.
func WithMaxTokens(n int) ClientOption {
	return func(c *Client) { c.maxTokens = n }
}

// WithHTTPTimeout sets the HTTP client timeout.
func WithHTTPTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	endpoint    string
	apiKey      string
	model       string
	temperature float64
	topP        float64
	maxTokens   int
	http        *http.Client
	logger      *slog.Logger
}

// NewClient creates a chat client.
//   - endpoint: full URL to the chat/completions resource
//   - apiKey:   the subscription / API key
func NewClient(endpoint, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:    endpoint,
		apiKey:      apiKey,
		temperature: 0.2,
		topP:        0.95,
		maxTokens:   800,
		http:        &http.Client{Timeout: 30 * time.Second},
		logger:      slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ClientFromEnv builds a Client from LARDER_SUGGEST_ENDPOINT,
// LARDER_SUGGEST_API_KEY, and optionally LARDER_SUGGEST_MODEL. A .env file
// in the working directory is loaded first if present.
func ClientFromEnv(opts ...ClientOption) (*Client, error) {
	_ = godotenv.Load() //nolint:errcheck // .env is optional

	endpoint := os.Getenv("LARDER_SUGGEST_ENDPOINT")
	apiKey := os.Getenv("LARDER_SUGGEST_API_KEY")
	if endpoint == "" || apiKey == "" {
		return nil, fmt.Errorf("suggest: LARDER_SUGGEST_ENDPOINT and LARDER_SUGGEST_API_KEY must be set")
	}

	if model := os.Getenv("LARDER_SUGGEST_MODEL"); model != "" {
		opts = append([]ClientOption{WithModel(model)}, opts...)
	}

	return NewClient(endpoint, apiKey, opts...), nil
}

// Chat sends a chat-completion request and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	body := payload{
		Messages:    messages,
		Temperature: c.temperature,
		TopP:        c.topP,
		MaxTokens:   c.maxTokens,
		Model:       c.model,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("suggest: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("suggest: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("api-key", c.apiKey)

	c.logger.Debug("suggest: chat request", "endpoint", c.endpoint, "bytes", len(jsonData))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("suggest: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("suggest: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("suggest: API %s: %s", resp.Status, string(respBody))
	}

	var result apiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("suggest: unmarshal response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("suggest: empty response (no choices)")
	}

	return result.Choices[0].Message.Content, nil
}
