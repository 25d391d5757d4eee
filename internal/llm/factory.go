package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/echotutor/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry and logging middleware.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *zap.Logger) (StreamingProvider, error) {
	var base StreamingProvider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller -> timeout -> retry -> logging -> base
	logged := WithLogging(base, eventRepo, log)
	retried := WithRetry(logged, cfg.Retry)

	return WithTimeout(retried, cfg.Timeout), nil
}

// Initialize builds the configured provider in the background and resolves
// the returned Deferred once it is usable. Generation requests issued before
// then wait up to cfg.ReadyTimeout.
func Initialize(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *zap.Logger) *Deferred {
	d := NewDeferred(cfg.ReadyTimeout)
	go func() {
		if err := cfg.Validate(); err != nil {
			log.Warn("llm configuration invalid", zap.Error(err))
			d.Fail(err)
			return
		}
		p, err := NewProvider(ctx, cfg, eventRepo, log)
		if err != nil {
			log.Warn("llm provider init failed", zap.String("provider", cfg.Provider), zap.Error(err))
			d.Fail(err)
			return
		}
		log.Info("llm provider ready", zap.String("provider", cfg.Provider), zap.String("model", p.ModelID()))
		d.Resolve(p)
	}()
	return d
}
