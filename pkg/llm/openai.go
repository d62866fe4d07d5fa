package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/EnZ0cez/StockAgent/pkg/news"
)

// OpenAIClient talks to any OpenAI-compatible chat completion endpoint.
// The default deployment points it at DeepSeek via the base URL option.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float64
	maxTokens   int
}

type OpenAIOption func(*OpenAIClient)

func WithTemperature(t float64) OpenAIOption {
	return func(c *OpenAIClient) { c.temperature = t }
}

func WithMaxTokens(n int) OpenAIOption {
	return func(c *OpenAIClient) { c.maxTokens = n }
}

// NewOpenAIClient builds a client for the given endpoint. An empty baseURL
// keeps the default OpenAI endpoint.
func NewOpenAIClient(apiKey, baseURL, model string, opts ...OpenAIOption) *OpenAIClient {
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(reqOpts...)

	c := &OpenAIClient{
		client:      &client,
		model:       model,
		temperature: 0.1,
		maxTokens:   4000,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *OpenAIClient) Model() string {
	return c.model
}

func (c *OpenAIClient) Analyze(ctx context.Context, input AnalysisInput) (*Analysis, error) {
	content, err := c.complete(ctx, analysisSystemPrompt, analysisUserPrompt(input))
	if err != nil {
		return nil, err
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(cleanJSONResponse(content)), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w, content: %s", err, content)
	}

	analysis.ModelUsed = c.model
	return &analysis, nil
}

func (c *OpenAIClient) SummarizeNews(ctx context.Context, symbol string, articles []news.Article) (*NewsSummary, error) {
	content, err := c.complete(ctx, newsSummarySystemPrompt, newsUserPrompt(symbol, articles))
	if err != nil {
		return nil, err
	}

	var summary NewsSummary
	if err := json.Unmarshal([]byte(cleanJSONResponse(content)), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse news summary: %w, content: %s", err, content)
	}
	return &summary, nil
}

func (c *OpenAIClient) ClassifyIntent(ctx context.Context, message string, ictx IntentContext) (*Intent, error) {
	content, err := c.complete(ctx, intentSystemPrompt, intentUserPrompt(message, ictx))
	if err != nil {
		return nil, err
	}

	var intent Intent
	if err := json.Unmarshal([]byte(cleanJSONResponse(content)), &intent); err != nil {
		return nil, fmt.Errorf("failed to parse intent: %w, content: %s", err, content)
	}
	return &intent, nil
}

func (c *OpenAIClient) Answer(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, "You are a knowledgeable investment assistant. Answer concisely.", prompt)
}

func (c *OpenAIClient) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(c.temperature),
		MaxTokens:   openai.Int(int64(c.maxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return resp.Choices[0].Message.Content, nil
}
