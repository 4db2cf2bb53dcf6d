package config

import (
	"fmt"
	"strings"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...interface{}) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg for structural correctness. It returns a *ValidationError
// when one or more problems are found, allowing callers to inspect all issues.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateEngine(cfg, ve)
	validateProvider(cfg, ve)
	validateGuard(cfg, ve)
	validateAudit(cfg, ve)
	validateLogger(cfg, ve)
	validateTracer(cfg, ve)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

var validDialects = map[string]bool{
	"":        true,
	"auto":    true,
	"default": true,
	"lfm2":    true,
}

func validateEngine(cfg *Config, ve *ValidationError) {
	if cfg.Engine.MaxToolCalls < 0 {
		ve.Add("engine.max_tool_calls must be >= 0")
	}
	if cfg.Engine.MaxTokens <= 0 {
		ve.Add("engine.max_tokens must be > 0")
	}
	if cfg.Engine.Temperature < 0 || cfg.Engine.Temperature > 2 {
		ve.Add("engine.temperature must be in [0, 2]")
	}
	if !validDialects[strings.ToLower(cfg.Engine.Dialect)] {
		// Unknown dialect names fall back to "default" at runtime; still
		// flag obvious typos in explicit config.
		ve.Add("engine.dialect %q is not one of auto, default, lfm2", cfg.Engine.Dialect)
	}
}

var validProviderTypes = map[string]bool{
	"completion": true,
	"bedrock":    true,
}

func validateProvider(cfg *Config, ve *ValidationError) {
	if !validProviderTypes[cfg.Provider.Type] {
		ve.Add("provider.type %q is not one of completion, bedrock", cfg.Provider.Type)
	}
	if cfg.Provider.Type == "completion" && cfg.Provider.BaseURL == "" {
		ve.Add("provider.base_url is required for the completion provider")
	}
	if cfg.Provider.Model == "" {
		ve.Add("provider.model must not be empty")
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RPS <= 0 {
			ve.Add("rate_limit.rps must be > 0 when rate limiting is enabled")
		}
		if cfg.RateLimit.Burst <= 0 {
			ve.Add("rate_limit.burst must be > 0 when rate limiting is enabled")
		}
	}
	if cfg.CircuitBreaker.Enabled && cfg.CircuitBreaker.MaxFailures == 0 {
		ve.Add("circuit_breaker.max_failures must be > 0 when the breaker is enabled")
	}
}

func validateGuard(cfg *Config, ve *ValidationError) {
	if !cfg.ContextGuard.Enabled {
		return
	}
	if cfg.ContextGuard.MaxTokens <= 0 {
		ve.Add("context_guard.max_tokens must be > 0 when the guard is enabled")
	}
	if cfg.ContextGuard.SafetyMargin < 0 || cfg.ContextGuard.SafetyMargin > 0.5 {
		ve.Add("context_guard.safety_margin must be in [0, 0.5]")
	}
	if cfg.ContextGuard.Encoding == "" {
		ve.Add("context_guard.encoding must not be empty when the guard is enabled")
	}
}

func validateAudit(cfg *Config, ve *ValidationError) {
	if cfg.Audit.Enabled && cfg.Audit.Path == "" {
		ve.Add("audit.path must not be empty when audit is enabled")
	}
}

var validLogLevels = map[string]bool{
	"": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

func validateLogger(cfg *Config, ve *ValidationError) {
	if !validLogLevels[strings.ToLower(cfg.Logger.Level)] {
		ve.Add("logger.level %q is not one of debug, info, warn, error", cfg.Logger.Level)
	}
	switch strings.ToLower(cfg.Logger.Format) {
	case "", "text", "json":
	default:
		ve.Add("logger.format %q is not one of text, json", cfg.Logger.Format)
	}
}

func validateTracer(cfg *Config, ve *ValidationError) {
	if !cfg.Tracer.Enabled {
		return
	}
	switch cfg.Tracer.Exporter {
	case "stdout", "noop", "":
	default:
		ve.Add("tracer.exporter %q is not one of stdout, noop", cfg.Tracer.Exporter)
	}
}
