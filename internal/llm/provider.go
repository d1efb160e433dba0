// Package llm implements C7's model transport: a provider-agnostic
// dispatcher over Claude (anthropics/anthropic-sdk-go) and Gemini
// (google.golang.org/genai), grounded on the teacher's
// internal/services/llm/provider.go ProviderFactory (model-prefix
// detection, lazy per-provider client construction, retry-with-backoff
// on any call error, up to three retries). Structured-output schema support and
// KV-storage-backed API key resolution are dropped — this domain's one
// prompt shape needs neither.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/fennelsoft/contactscout/internal/common"
	"github.com/fennelsoft/contactscout/internal/interfaces"
)

type ProviderType string

const (
	ProviderClaude ProviderType = "claude"
	ProviderGemini ProviderType = "gemini"
)

// Dispatcher implements interfaces.LlmClient, routing each Complete call
// to Claude or Gemini based on the configured model name's prefix.
type Dispatcher struct {
	cfg    *common.LLMConfig
	logger arbor.ILogger

	claudeClient *anthropic.Client
	geminiClient *genai.Client
}

func NewDispatcher(cfg *common.LLMConfig, logger arbor.ILogger) *Dispatcher {
	return &Dispatcher{cfg: cfg, logger: logger}
}

// DetectProvider mirrors the teacher's model-prefix detection: explicit
// "claude/"/"gemini/" prefixes win, then bare "claude-"/"gemini-" model
// names, falling back to the configured default provider.
func DetectProvider(model string, defaultProvider string) ProviderType {
	if model == "" {
		return ProviderType(defaultProvider)
	}
	lower := strings.ToLower(model)
	switch {
	case strings.HasPrefix(lower, "claude/"), strings.HasPrefix(lower, "anthropic/"), strings.HasPrefix(lower, "claude-"):
		return ProviderClaude
	case strings.HasPrefix(lower, "gemini/"), strings.HasPrefix(lower, "google/"), strings.HasPrefix(lower, "gemini-"):
		return ProviderGemini
	default:
		return ProviderType(defaultProvider)
	}
}

func NormalizeModel(model string) string {
	for _, prefix := range []string{"claude/", "anthropic/", "gemini/", "google/"} {
		if strings.HasPrefix(strings.ToLower(model), prefix) {
			return model[len(prefix):]
		}
	}
	return model
}

func (d *Dispatcher) Complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, interfaces.TokenUsage, error) {
	provider := DetectProvider(d.cfg.ModelName, d.cfg.DefaultProvider)
	model := NormalizeModel(d.cfg.ModelName)

	switch provider {
	case ProviderGemini:
		return d.completeWithGemini(ctx, model, prompt, temperature, maxTokens)
	default:
		return d.completeWithClaude(ctx, model, prompt, temperature, maxTokens)
	}
}

func (d *Dispatcher) getClaudeClient() *anthropic.Client {
	if d.claudeClient == nil {
		client := anthropic.NewClient(option.WithAPIKey(d.cfg.ClaudeAPIKey))
		d.claudeClient = &client
	}
	return d.claudeClient
}

func (d *Dispatcher) getGeminiClient(ctx context.Context) (*genai.Client, error) {
	if d.geminiClient != nil {
		return d.geminiClient, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  d.cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	d.geminiClient = client
	return client, nil
}

func (d *Dispatcher) completeWithClaude(ctx context.Context, model, prompt string, temperature float64, maxTokens int) (string, interfaces.TokenUsage, error) {
	client := d.getClaudeClient()
	if maxTokens <= 0 {
		maxTokens = d.cfg.MaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if temperature > 0 {
		params.Temperature = anthropic.Float(temperature)
	}

	var resp *anthropic.Message
	var apiErr error
	for attempt := 0; attempt <= 3; attempt++ {
		resp, apiErr = client.Messages.New(ctx, params)
		if apiErr == nil {
			break
		}
		if attempt == 3 {
			break
		}
		backoff := time.Duration(attempt+1) * 2 * time.Second
		if d.logger != nil {
			d.logger.Warn().Int("attempt", attempt+1).Dur("backoff", backoff).Err(apiErr).Msg("Retrying Claude API call")
		}
		select {
		case <-ctx.Done():
			return "", interfaces.TokenUsage{}, ctx.Err()
		case <-time.After(backoff):
		}
	}
	if apiErr != nil {
		return "", interfaces.TokenUsage{}, fmt.Errorf("Claude API call failed: %w", apiErr)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	usage := interfaces.TokenUsage{
		PromptTokens:     int(resp.Usage.InputTokens),
		CompletionTokens: int(resp.Usage.OutputTokens),
		TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
	}
	return text.String(), usage, nil
}

func (d *Dispatcher) completeWithGemini(ctx context.Context, model, prompt string, temperature float64, maxTokens int) (string, interfaces.TokenUsage, error) {
	client, err := d.getGeminiClient(ctx)
	if err != nil {
		return "", interfaces.TokenUsage{}, err
	}

	config := &genai.GenerateContentConfig{Temperature: genai.Ptr(float32(temperature))}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	var resp *genai.GenerateContentResponse
	var apiErr error
	for attempt := 0; attempt <= 3; attempt++ {
		resp, apiErr = client.Models.GenerateContent(ctx, model, contents, config)
		if apiErr == nil {
			break
		}
		if attempt == 3 {
			break
		}
		backoff := time.Duration(attempt+1) * 2 * time.Second
		if d.logger != nil {
			d.logger.Warn().Int("attempt", attempt+1).Dur("backoff", backoff).Err(apiErr).Msg("Retrying Gemini API call")
		}
		select {
		case <-ctx.Done():
			return "", interfaces.TokenUsage{}, ctx.Err()
		case <-time.After(backoff):
		}
	}
	if apiErr != nil {
		return "", interfaces.TokenUsage{}, fmt.Errorf("Gemini API call failed: %w", apiErr)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", interfaces.TokenUsage{}, fmt.Errorf("empty response from Gemini API")
	}

	usage := interfaces.TokenUsage{}
	if resp.UsageMetadata != nil {
		usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		usage.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return resp.Text(), usage, nil
}
