package llm

import "time"

// Provider names accepted by NewProvider.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderMock      = "mock"
)

const (
	defaultMaxTokens   = 2048
	defaultTemperature = 0.7
	defaultTimeout     = 60 * time.Second
)

// RetryConfig tunes the retry decorator.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig returns the retry policy used unless overridden.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Second,
		MaxWait:     10 * time.Second,
		Multiplier:  2.0,
	}
}

// Config selects and tunes a provider.
type Config struct {
	Provider string
	Model    string
	APIKey   string

	// BaseURL overrides the endpoint for OpenAI-compatible servers
	// (Ollama, vLLM, LM Studio). Ignored by other providers.
	BaseURL string

	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	Retry       RetryConfig
}

func (c Config) withDefaults() Config {
	if c.MaxTokens == 0 {
		c.MaxTokens = defaultMaxTokens
	}
	if c.Temperature == 0 {
		c.Temperature = defaultTemperature
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry = DefaultRetryConfig()
	}
	return c
}
