package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = "claude-3-5-haiku-latest"

// maxExtractionTokens bounds the response size. The expected output is a
// small JSON object.
const maxExtractionTokens = 1024

// systemInstruction is the fixed instruction sent with every extraction
// request. The provider must answer with a single JSON object.
const systemInstruction = `You extract event information from noisy text ` +
	`(social posts, scraped pages, OCR output). Respond with exactly one JSON ` +
	`object and nothing else, using these keys where determinable: title, ` +
	`description, start_time (RFC 3339), end_time (RFC 3339), location_name, ` +
	`lat, lon, category, price, url. Omit keys you cannot determine. Never ` +
	`guess dates; omit start_time if no date is present in the text.`

// AnthropicProvider extracts event fields through the Anthropic Messages
// API.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
	apiKey string
}

// NewAnthropicProvider creates a provider with the given API key and
// model. An empty model selects DefaultAnthropicModel.
func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	if model == "" {
		model = DefaultAnthropicModel
	}
	return &AnthropicProvider{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		apiKey: apiKey,
	}
}

// Name identifies the provider.
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// Available reports whether the provider is configured.
func (p *AnthropicProvider) Available() bool {
	return p.apiKey != ""
}

// ExtractEventInfo sends the aggregated context and decodes the JSON
// answer into an Extraction.
func (p *AnthropicProvider) ExtractEventInfo(ctx context.Context, text string) (*Extraction, error) {
	if !p.Available() {
		return nil, ErrProviderUnavailable
	}

	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: maxExtractionTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemInstruction},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic extraction: %w", err)
	}

	var answer strings.Builder
	for _, block := range message.Content {
		answer.WriteString(block.Text)
	}

	return decodeExtraction(answer.String())
}

// decodeExtraction parses the provider answer, tolerating surrounding
// code fences or prose around the JSON object.
func decodeExtraction(answer string) (*Extraction, error) {
	start := strings.Index(answer, "{")
	end := strings.LastIndex(answer, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in provider answer")
	}

	var extraction Extraction
	if err := json.Unmarshal([]byte(answer[start:end+1]), &extraction); err != nil {
		return nil, fmt.Errorf("decode provider answer: %w", err)
	}
	return &extraction, nil
}
