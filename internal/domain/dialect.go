package domain

import "strings"

// Dialect identifies the textual convention a model uses to request a
// tool call. The set is closed: adding a dialect means adding a constant
// here and a parser in internal/dialect.
type Dialect string

const (
	// DialectAuto selects marker-based auto-detection when parsing.
	// Prompt instructions fall back to the tag-JSON dialect.
	DialectAuto Dialect = ""

	// DialectTagJSON wraps a JSON object in <tool_call> tags:
	// <tool_call>{"tool":"name","arguments":{...}}</tool_call>
	DialectTagJSON Dialect = "default"

	// DialectFuncCall uses Pythonic call syntax between special tokens:
	// <|tool_call_start|>[name(arg="val")]<|tool_call_end|>
	DialectFuncCall Dialect = "lfm2"
)

// DialectFromName resolves a case-insensitive dialect name.
// Unrecognized names fall back to DialectTagJSON rather than erroring.
func DialectFromName(name string) Dialect {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lfm2":
		return DialectFuncCall
	case "auto":
		return DialectAuto
	default:
		return DialectTagJSON
	}
}

// Instruction returns the dialect to use for prompt instructions:
// auto-detection is a parsing concern only, so it maps to tag-JSON.
func (d Dialect) Instruction() Dialect {
	if d == DialectAuto {
		return DialectTagJSON
	}
	return d
}
