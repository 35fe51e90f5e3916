package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cgast/netintent/pkg/topology"
)

// Defaults for the Groq OpenAI-compatible chat-completions endpoint.
const (
	DefaultBaseURL     = "https://api.groq.com/openai/v1"
	DefaultModel       = "llama-3.3-70b-versatile"
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 100
)

// GroqClient calls a chat-completions endpoint to translate intents into
// rules. It implements Generator.
type GroqClient struct {
	baseURL      string
	apiKey       string
	model        string
	temperature  float64
	maxTokens    int
	systemPrompt string
	topo         topology.Topology
	httpClient   *http.Client
}

// GroqOption configures a GroqClient.
type GroqOption func(*GroqClient)

// WithBaseURL overrides the service endpoint.
func WithBaseURL(u string) GroqOption {
	return func(c *GroqClient) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithModel overrides the model name.
func WithModel(m string) GroqOption {
	return func(c *GroqClient) {
		if m != "" {
			c.model = m
		}
	}
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float64) GroqOption {
	return func(c *GroqClient) {
		if t > 0 {
			c.temperature = t
		}
	}
}

// WithMaxTokens overrides the completion token budget.
func WithMaxTokens(n int) GroqOption {
	return func(c *GroqClient) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) GroqOption {
	return func(c *GroqClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewGroqClient creates a rule-generation client for the given topology.
// The API key is required; a missing key is a configuration error that
// must stop the run before any intent is processed.
func NewGroqClient(apiKey string, topo topology.Topology, opts ...GroqOption) (*GroqClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("generate: api key is required")
	}
	c := &GroqClient{
		baseURL:     DefaultBaseURL,
		apiKey:      apiKey,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		topo:        topo,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.systemPrompt = BuildSystemPrompt(topo)
	return c, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate requests one candidate rule for the intent, folding prior-failure
// feedback into the user message when present. The returned text is raw
// model output; callers sanitize it.
func (c *GroqClient) Generate(ctx context.Context, intent, feedback string) (string, error) {
	return c.complete(ctx, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: c.systemPrompt},
			{Role: "user", Content: buildUserMessage(intent, feedback)},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
}

// GenerateFlowRule runs the exploratory one-shot request asking for a
// structured JSON rule. The caller decodes the answer with DecodeFlowRule
// on a best-effort basis.
func (c *GroqClient) GenerateFlowRule(ctx context.Context, intent string) (string, error) {
	return c.complete(ctx, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: buildFlowRulePrompt(c.topo, intent)},
		},
		Temperature: 0.1,
	})
}

func (c *GroqClient) complete(ctx context.Context, reqBody chatRequest) (string, error) {
	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("generate: marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("generate: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return "", fmt.Errorf("generate: read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("generate: decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("generate: service error (status %d): %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("generate: unexpected status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("generate: empty completion")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
