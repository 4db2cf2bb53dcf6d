package prompt

import (
	"fmt"
	"strings"

	"toolwire/internal/domain"
)

// Builder composes prompts as role-labeled turns. Both operations are
// pure functions of their inputs so orchestration stays deterministic
// and testable.
type Builder struct {
	dialect domain.Dialect
}

// NewBuilder creates a builder for the given dialect.
func NewBuilder(d domain.Dialect) *Builder {
	return &Builder{dialect: d}
}

// BuildInitial composes the first prompt of an orchestration run.
//
// When ReplaceSystemPrompt is set and a system prompt is supplied, the
// system block is exactly the caller's text: the caller asserts their
// prompt already covers tool-calling syntax, so no tool instructions
// are appended. Otherwise the system block is the caller's system
// prompt (if any) followed by the formatted tool instructions.
func (b *Builder) BuildInitial(userPrompt string, defs []domain.ToolDefinition, opts domain.ToolCallingOptions) string {
	system := b.systemBlock(defs, opts)

	var sb strings.Builder
	if system != "" {
		sb.WriteString("System: ")
		sb.WriteString(system)
		sb.WriteString("\n\n")
	}
	sb.WriteString("User: ")
	sb.WriteString(userPrompt)
	sb.WriteString("\n\nAssistant:")
	return sb.String()
}

// BuildFollowup composes the prompt that resumes generation after a
// tool result is known.
//
// With keepTools true, the original system/tool block and user prompt
// are reconstructed and the result is reported as a turn, leaving
// further tool use open. With keepTools false, tool instructions are
// omitted and the model is told it already used the tool and should
// now answer naturally.
func (b *Builder) BuildFollowup(userPrompt string, defs []domain.ToolDefinition, opts domain.ToolCallingOptions, result domain.ToolResult, keepTools bool) string {
	var sb strings.Builder

	if keepTools {
		if system := b.systemBlock(defs, opts); system != "" {
			sb.WriteString("System: ")
			sb.WriteString(system)
			sb.WriteString("\n\n")
		}
		sb.WriteString("User: ")
		sb.WriteString(userPrompt)
		sb.WriteString("\n\n")
		fmt.Fprintf(&sb, "Tool: %s returned: %s\n\n", result.Name, result.JSON())
		sb.WriteString("Assistant:")
		return sb.String()
	}

	if opts.SystemPrompt != "" {
		sb.WriteString("System: ")
		sb.WriteString(opts.SystemPrompt)
		sb.WriteString("\n\n")
	}
	sb.WriteString("User: ")
	sb.WriteString(userPrompt)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "You already called the tool %q and received this result: %s\n", result.Name, result.JSON())
	sb.WriteString("Answer the user naturally using this result. Do not call any more tools.\n\n")
	sb.WriteString("Assistant:")
	return sb.String()
}

func (b *Builder) systemBlock(defs []domain.ToolDefinition, opts domain.ToolCallingOptions) string {
	if opts.ReplaceSystemPrompt && opts.SystemPrompt != "" {
		return opts.SystemPrompt
	}

	instructions := FormatTools(defs, b.dialect)
	switch {
	case opts.SystemPrompt != "" && instructions != "":
		return opts.SystemPrompt + "\n\n" + instructions
	case opts.SystemPrompt != "":
		return opts.SystemPrompt
	default:
		return instructions
	}
}
