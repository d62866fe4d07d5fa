package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient is the alternative analysis provider.
type AnthropicClient struct {
	client    *anthropic.Client
	model     anthropic.Model
	modelName string
	maxTokens int64
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicClient{
		client:    &client,
		model:     anthropic.ModelClaudeSonnet4_0,
		modelName: "claude-4-sonnet",
		maxTokens: 4000,
	}
}

func (c *AnthropicClient) Model() string {
	return c.modelName
}

func (c *AnthropicClient) Analyze(ctx context.Context, input AnalysisInput) (*Analysis, error) {
	content, err := c.complete(ctx, analysisSystemPrompt, analysisUserPrompt(input))
	if err != nil {
		return nil, err
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(cleanJSONResponse(content)), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w, content: %s", err, content)
	}

	analysis.ModelUsed = c.modelName
	return &analysis, nil
}

func (c *AnthropicClient) Answer(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, "You are a knowledgeable investment assistant. Answer concisely.", prompt)
}

func (c *AnthropicClient) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("no response from anthropic")
	}

	return resp.Content[0].Text, nil
}
