package config

const (
	defaultBind                  = "127.0.0.1:8384"
	defaultRequestTimeoutSeconds = 60
	defaultStateDir              = "~/.local/share/parley"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultOpenRouterBaseURL     = "https://openrouter.ai/api/v1"
	defaultOpenRouterModel       = "tngtech/deepseek-r1t2-chimera:free"
	defaultOpenRouterTitle       = "Parley Chat"
	defaultGeminiBaseURL         = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel           = "gemini-3-flash-preview"
	defaultProviderTimeout       = 30
	defaultTemperature           = 0.2
	defaultMaxTokens             = 512
)

// defaultSystemPrompt is prepended to every completion request so replies stay
// readable when rendered by the web client.
const defaultSystemPrompt = `You are a friendly AI assistant.
Rules:
- Give clean, well-spaced answers
- Use bullet points or tables when useful
- Do NOT use # symbols
- Keep answers clear and readable
- Be concise and helpful`

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			Bind:                  defaultBind,
			RequestTimeoutSeconds: defaultRequestTimeoutSeconds,
		},
		Store: Store{
			StateDir: defaultStateDir,
		},
		OpenRouter: OpenRouter{
			BaseURL:        defaultOpenRouterBaseURL,
			Model:          defaultOpenRouterModel,
			Title:          defaultOpenRouterTitle,
			TimeoutSeconds: defaultProviderTimeout,
		},
		Gemini: Gemini{
			BaseURL:        defaultGeminiBaseURL,
			Model:          defaultGeminiModel,
			TimeoutSeconds: defaultProviderTimeout,
		},
		Completion: Completion{
			SystemPrompt: defaultSystemPrompt,
			Temperature:  defaultTemperature,
			MaxTokens:    defaultMaxTokens,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
