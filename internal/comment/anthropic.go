package comment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicGenerator implements Generator against Anthropic's API.
type AnthropicGenerator struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicGenerator creates a generator using the given API key and
// model.
func NewAnthropicGenerator(apiKey, model string) *AnthropicGenerator {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &AnthropicGenerator{
		client: &client,
		model:  model,
	}
}

// Generate asks the model for comment candidates. The assistant turn is
// prefilled with "[" so the response continues as valid JSON.
func (g *AnthropicGenerator) Generate(ctx context.Context, schema Schema, prompt string) ([]Candidate, error) {
	full := prompt + "\n\n" + schema.Description

	message, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(full)),
			anthropic.NewAssistantMessage(anthropic.NewTextBlock("[")),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call comment model: %w", err)
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}
	if responseText == "" {
		return nil, fmt.Errorf("comment model returned empty response")
	}

	return parseCandidates("[" + responseText)
}

func parseCandidates(raw string) ([]Candidate, error) {
	raw = strings.TrimSpace(raw)
	// Models sometimes trail the array with prose; cut at the closing
	// bracket before decoding.
	if end := strings.LastIndex(raw, "]"); end >= 0 {
		raw = raw[:end+1]
	}

	var candidates []Candidate
	if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
		return nil, fmt.Errorf("failed to parse comment candidates: %w", err)
	}
	return candidates, nil
}
