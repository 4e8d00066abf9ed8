package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"parley/internal/config"
)

// Gemini is the fallback completion backend. The Generative Language API uses
// its own wire format, so requests are issued directly rather than through an
// OpenAI-compatible client.
type Gemini struct {
	apiKey       string
	baseURL      string
	model        string
	systemPrompt string
	temperature  float64
	maxTokens    int
	httpClient   *http.Client
}

// GeminiOption customizes the Gemini backend.
type GeminiOption func(*Gemini)

// WithGeminiHTTPClient overrides the default HTTP client.
func WithGeminiHTTPClient(client *http.Client) GeminiOption {
	return func(p *Gemini) {
		if client != nil {
			p.httpClient = client
		}
	}
}

// NewGemini constructs the Gemini backend from configuration.
func NewGemini(cfg config.Gemini, completion config.Completion, opts ...GeminiOption) *Gemini {
	timeout := defaultProviderTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	provider := &Gemini{
		apiKey:       strings.TrimSpace(cfg.APIKey),
		baseURL:      strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		model:        strings.TrimSpace(cfg.Model),
		systemPrompt: completion.SystemPrompt,
		temperature:  completion.Temperature,
		maxTokens:    completion.MaxTokens,
		httpClient:   &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(provider)
	}
	return provider
}

// Name identifies the backend in logs and errors.
func (p *Gemini) Name() string {
	return "gemini"
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"system_instruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Complete sends the conversation to Gemini and returns the reply text.
// Assistant turns are relabeled "model" per the Generative Language API.
func (p *Gemini) Complete(ctx context.Context, history []Message) (string, error) {
	if p.apiKey == "" {
		return "", &Error{Provider: p.Name(), Err: errors.New("api key required")}
	}

	payload := geminiRequest{
		Contents: make([]geminiContent, 0, len(history)),
		GenerationConfig: geminiGenerationConfig{
			Temperature:     p.temperature,
			MaxOutputTokens: p.maxTokens,
		},
	}
	if prompt := strings.TrimSpace(p.systemPrompt); prompt != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: prompt}}}
	}
	for _, msg := range history {
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}
		payload.Contents = append(payload.Contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: msg.Content}},
		})
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", &Error{Provider: p.Name(), Err: fmt.Errorf("encode body: %w", err)}
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, p.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", &Error{Provider: p.Name(), Err: fmt.Errorf("new request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", &Error{Provider: p.Name(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Provider: p.Name(), Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", &Error{
			Provider: p.Name(),
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("http %d: %s", resp.StatusCode, summarizeBody(body)),
		}
	}

	var decoded geminiResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", &Error{Provider: p.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}
	if decoded.Error != nil {
		return "", &Error{
			Provider: p.Name(),
			Status:   decoded.Error.Code,
			Err:      fmt.Errorf("api error: %s", strings.TrimSpace(decoded.Error.Message)),
		}
	}

	for _, candidate := range decoded.Candidates {
		for _, part := range candidate.Content.Parts {
			if text := strings.TrimSpace(part.Text); text != "" {
				return text, nil
			}
		}
	}
	return "", &Error{Provider: p.Name(), Err: errors.New("empty completion content")}
}

func summarizeBody(body []byte) string {
	clean := strings.Join(strings.Fields(string(body)), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
