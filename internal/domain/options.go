package domain

// ToolCallingOptions configures one orchestration run. The struct is
// immutable input: callers build it once and the engine never writes to it.
type ToolCallingOptions struct {
	// MaxToolCalls bounds the number of tool executions per run.
	// Zero means no tool use is permitted: generation still runs once
	// and any detected call is recorded but not executed.
	MaxToolCalls int

	// AutoExecute, when false, switches the loop to single-step manual
	// mode: the run pauses with the pending call surfaced to the caller.
	AutoExecute bool

	// Temperature and MaxTokens are forwarded to generation unchanged.
	Temperature float64
	MaxTokens   int

	// SystemPrompt is optional caller-supplied text. When
	// ReplaceSystemPrompt is true it replaces the tool instructions
	// entirely instead of being prepended to them.
	SystemPrompt        string
	ReplaceSystemPrompt bool

	// KeepToolsAvailable preserves tool instructions in follow-up
	// prompts, enabling sequential multi-tool turns. When false the
	// instructions are dropped after the first call to bias the model
	// toward a final natural-language answer.
	KeepToolsAvailable bool

	// Dialect selects the wire dialect, or DialectAuto to detect it.
	Dialect Dialect
}

// DefaultToolCallingOptions returns the engine defaults:
// five tool calls, auto-execute, temperature 0.7, 1024 tokens.
func DefaultToolCallingOptions() ToolCallingOptions {
	return ToolCallingOptions{
		MaxToolCalls: 5,
		AutoExecute:  true,
		Temperature:  0.7,
		MaxTokens:    1024,
		Dialect:      DialectTagJSON,
	}
}
