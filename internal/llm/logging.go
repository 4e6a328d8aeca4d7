package llm

import (
	"context"
	"log/slog"
	"time"
)

// LoggingProvider records every completion with timing, token usage and
// outcome through slog.
type LoggingProvider struct {
	inner  Provider
	logger *slog.Logger
}

// WithLogging wraps p so each Generate call is logged. A nil logger
// falls back to slog.Default.
func WithLogging(p Provider, logger *slog.Logger) *LoggingProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingProvider{inner: p, logger: logger}
}

// ModelID returns the wrapped provider's model identifier.
func (p *LoggingProvider) ModelID() string { return p.inner.ModelID() }

func (p *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := p.inner.Generate(ctx, req)
	elapsed := time.Since(start)

	attrs := []any{
		slog.String("model", p.inner.ModelID()),
		slog.Duration("elapsed", elapsed),
	}
	if purpose := PurposeFrom(ctx); purpose != "" {
		attrs = append(attrs, slog.String("purpose", purpose))
	}
	if req.Schema != nil {
		attrs = append(attrs, slog.String("schema", req.Schema.Name))
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		p.logger.ErrorContext(ctx, "llm generate failed", attrs...)
		return nil, err
	}

	attrs = append(attrs,
		slog.Int("input_tokens", resp.Usage.InputTokens),
		slog.Int("output_tokens", resp.Usage.OutputTokens),
		slog.String("stop_reason", resp.StopReason),
	)
	p.logger.InfoContext(ctx, "llm generate", attrs...)
	return resp, nil
}
