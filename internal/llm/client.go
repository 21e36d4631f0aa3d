package llm

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Result is the outcome of one generation call.
type Result struct {
	Text         string
	Model        string
	UsedFallback bool
}

// Client is an abstraction over text-generation providers.
type Client interface {
	// GenerateContent generates free text using the specified model tier.
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (*Result, error)
	// GenerateJSON generates JSON content using the specified model tier.
	// Markdown code fences are stripped, and refusal-style responses are
	// reported as a RefusalError, never as parse failures.
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (*Result, error)
	// Close releases any resources held by the client.
	Close() error
}

// GeminiClient implements Client for Google Gemini, with a lite-tier
// fallback when the requested model is rate limited.
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyMissing
	}
	if config == nil {
		config = DefaultConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, config: config}, nil
}

// GenerateContent generates free text using the specified model tier.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (*Result, error) {
	return c.generate(ctx, prompt, tier, false)
}

// GenerateJSON generates JSON content using the specified model tier.
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (*Result, error) {
	result, err := c.generate(ctx, prompt, tier, true)
	if err != nil {
		return nil, err
	}

	result.Text = CleanJSONBlock(result.Text)
	if IsRefusal(result.Text) {
		return nil, &RefusalError{Snippet: refusalSnippet(result.Text)}
	}
	return result, nil
}

func (c *GeminiClient) generate(ctx context.Context, prompt string, tier ModelTier, asJSON bool) (*Result, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for tier %s", tier)
	}

	text, err := c.callModel(ctx, modelName, prompt, asJSON)
	if err == nil {
		return &Result{Text: text, Model: modelName}, nil
	}

	if !isRateLimitErr(err) {
		return nil, err
	}

	// Rate limited: retry once on the lite tier if it names a different
	// model, surfacing the downgrade to the caller.
	fallback := c.config.GetModel(TierLite)
	if fallback == "" || fallback == modelName {
		return nil, &RateLimitError{Model: modelName, Cause: err}
	}

	log.Printf("[LLM] %s rate limited, falling back to %s", modelName, fallback)
	text, fbErr := c.callModel(ctx, fallback, prompt, asJSON)
	if fbErr != nil {
		return nil, &RateLimitError{Model: modelName, Cause: err}
	}
	return &Result{Text: text, Model: fallback, UsedFallback: true}, nil
}

func (c *GeminiClient) callModel(ctx context.Context, modelName, prompt string, asJSON bool) (string, error) {
	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.1) // Low temperature for consistent output
	if asJSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return extractText(resp)
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractText joins the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}

// isRateLimitErr sniffs provider errors for quota exhaustion.
func isRateLimitErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource exhausted")
}
