package llm

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"

	"toolwire/internal/domain"
	"toolwire/internal/infra/config"
)

// RateLimitedGenerator wraps a Generator with a token-bucket rate
// limiter. Generate blocks until a slot is available or the context is
// canceled, smoothing bursts against shared model backends.
type RateLimitedGenerator struct {
	inner   domain.Generator
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewRateLimitedGenerator wraps inner with the configured limit.
func NewRateLimitedGenerator(inner domain.Generator, cfg config.RateLimitConfig, logger *slog.Logger) *RateLimitedGenerator {
	rps := cfg.RPS
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &RateLimitedGenerator{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger,
	}
}

// Generate implements domain.Generator.
func (g *RateLimitedGenerator) Generate(ctx context.Context, promptText string, opts domain.GenerateOptions) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return g.inner.Generate(ctx, promptText, opts)
}

// Name implements domain.Generator.
func (g *RateLimitedGenerator) Name() string { return g.inner.Name() }

var _ domain.Generator = (*RateLimitedGenerator)(nil)
