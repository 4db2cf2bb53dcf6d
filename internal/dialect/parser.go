// Package dialect detects and parses the wire dialects a model may use to
// request a tool call. Parsing is best-effort: malformed content degrades
// to "no call" with the raw text preserved, never to an error.
package dialect

import (
	"strings"

	"toolwire/internal/domain"
)

// Marker tokens for the supported dialects. These are a public wire
// contract and must remain byte-exact.
const (
	tagOpen  = "<tool_call>"
	tagClose = "</tool_call>"

	funcStart = "<|tool_call_start|>"
	funcEnd   = "<|tool_call_end|>"
)

// Result is the outcome of parsing one model output. When HasCall is
// false, CleanText is the input unchanged.
type Result struct {
	HasCall   bool
	Name      string
	Arguments map[string]any
	CleanText string
	CallID    string
	Dialect   domain.Dialect
}

// noCall returns the safe fallback result for raw output.
func noCall(raw string, d domain.Dialect) Result {
	return Result{CleanText: raw, Dialect: d}
}

// Detect inspects raw output for dialect markers without parsing.
// It never fails; when no marker of either dialect is present it
// degrades to the tag-JSON dialect.
func Detect(raw string) domain.Dialect {
	if strings.Contains(raw, funcStart) {
		return domain.DialectFuncCall
	}
	return domain.DialectTagJSON
}

// Parse auto-detects the dialect and extracts the first tool call, if any.
func Parse(raw string) Result {
	return ParseWithDialect(raw, domain.DialectAuto)
}

// ParseWithDialect parses raw output using the given dialect.
// DialectAuto runs detection first.
func ParseWithDialect(raw string, d domain.Dialect) Result {
	if d == domain.DialectAuto {
		d = Detect(raw)
	}
	switch d {
	case domain.DialectFuncCall:
		return parseFuncCall(raw)
	default:
		return parseTagJSON(raw)
	}
}

// stripBlocks removes every occurrence of an open/close marker pair from
// raw and concatenates the text outside the pairs. A second or later call
// block is stripped but not parsed; only the first block is actionable.
func stripBlocks(raw, open, close string) string {
	var b strings.Builder
	rest := raw
	for {
		start := strings.Index(rest, open)
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.Index(rest[start+len(open):], close)
		if end < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:start])
		rest = rest[start+len(open)+end+len(close):]
	}
	return strings.TrimSpace(b.String())
}
