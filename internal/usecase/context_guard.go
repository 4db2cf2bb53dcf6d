package usecase

import (
	"fmt"
	"log/slog"

	"toolwire/internal/domain"
)

// ContextGuard rejects prompts that would not fit the model's context
// window before a generation call is wasted on them.
type ContextGuard struct {
	maxTokens     int
	reserveTokens int
	safetyMargin  float64 // e.g. 0.15 = 15%
	tokenCounter  domain.TokenCounter
	logger        *slog.Logger
}

// ContextGuardConfig holds settings for the context guard.
type ContextGuardConfig struct {
	MaxTokens     int
	ReserveTokens int
	SafetyMargin  float64
}

// NewContextGuard creates a context guard with the given dependencies.
func NewContextGuard(cfg ContextGuardConfig, counter domain.TokenCounter, logger *slog.Logger) *ContextGuard {
	if cfg.SafetyMargin <= 0 {
		cfg.SafetyMargin = 0.15
	}
	if cfg.SafetyMargin > 0.5 {
		cfg.SafetyMargin = 0.5
	}
	if cfg.ReserveTokens <= 0 {
		cfg.ReserveTokens = 1000
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 32000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ContextGuard{
		maxTokens:     cfg.MaxTokens,
		reserveTokens: cfg.ReserveTokens,
		safetyMargin:  cfg.SafetyMargin,
		tokenCounter:  counter,
		logger:        logger,
	}
}

// Check evaluates the prompt's token count against the window.
// Returns domain.ErrContextOverflow when it does not fit.
func (g *ContextGuard) Check(promptText string) error {
	tokens := g.tokenCounter.Count(promptText)
	limit := int(float64(g.maxTokens)*(1-g.safetyMargin)) - g.reserveTokens

	if tokens <= limit {
		return nil
	}

	g.logger.Error("context guard: prompt exceeds context window",
		"tokens", tokens,
		"limit", limit,
		"max_tokens", g.maxTokens,
	)
	return fmt.Errorf("context guard: %d tokens over limit %d: %w", tokens, limit, domain.ErrContextOverflow)
}
