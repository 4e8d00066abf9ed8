package provider

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"parley/internal/config"
)

const defaultProviderTimeout = 30 * time.Second

// OpenRouter is the primary completion backend. OpenRouter exposes an
// OpenAI-compatible chat completion API, so the request goes through the
// standard client with the base URL and attribution headers swapped in.
type OpenRouter struct {
	client       *openai.Client
	model        string
	systemPrompt string
	temperature  float32
	maxTokens    int
}

// headerTransport injects the attribution headers OpenRouter uses for app
// rankings on every request.
type headerTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		req.Header.Set("X-Title", t.title)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// NewOpenRouter constructs the OpenRouter backend from configuration.
func NewOpenRouter(cfg config.OpenRouter, completion config.Completion) *OpenRouter {
	timeout := defaultProviderTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	clientConfig := openai.DefaultConfig(strings.TrimSpace(cfg.APIKey))
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout: timeout,
		Transport: &headerTransport{
			referer: strings.TrimSpace(cfg.Referer),
			title:   strings.TrimSpace(cfg.Title),
		},
	}

	return &OpenRouter{
		client:       openai.NewClientWithConfig(clientConfig),
		model:        strings.TrimSpace(cfg.Model),
		systemPrompt: completion.SystemPrompt,
		temperature:  float32(completion.Temperature),
		maxTokens:    completion.MaxTokens,
	}
}

// Name identifies the backend in logs and errors.
func (p *OpenRouter) Name() string {
	return "openrouter"
}

// Complete sends the conversation to OpenRouter and returns the reply text.
func (p *OpenRouter) Complete(ctx context.Context, history []Message) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if prompt := strings.TrimSpace(p.systemPrompt); prompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: prompt,
		})
	}
	for _, msg := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &Error{Provider: p.Name(), Status: apiErr.HTTPStatusCode, Err: err}
		}
		return "", &Error{Provider: p.Name(), Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &Error{Provider: p.Name(), Err: errors.New("empty choices")}
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", &Error{Provider: p.Name(), Err: errors.New("empty completion content")}
	}
	return content, nil
}
