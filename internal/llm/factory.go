package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// NewProvider builds the configured provider wrapped in logging and
// retry decorators. The mock provider needs no API key and is meant for
// tests and offline development.
func NewProvider(ctx context.Context, cfg Config, logger *slog.Logger) (Provider, error) {
	cfg = cfg.withDefaults()

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider: API key is required")
		}
		base = newOpenAIProvider(cfg)
	case ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("anthropic provider: API key is required")
		}
		base = newAnthropicProvider(cfg)
	case ProviderGemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini provider: API key is required")
		}
		base, err = newGeminiProvider(ctx, cfg)
		if err != nil {
			return nil, err
		}
	case ProviderMock:
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}

	return WithRetry(WithLogging(base, logger), cfg.Retry), nil
}
