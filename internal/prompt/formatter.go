package prompt

import (
	"fmt"
	"strings"

	"toolwire/internal/domain"
)

// Dialect-specific call-syntax examples. These are part of the wire
// contract and must stay byte-exact.
const (
	tagJSONExample  = `<tool_call>{"tool": "tool_name", "arguments": {"param": "value"}}</tool_call>`
	funcCallExample = `<|tool_call_start|>[tool_name(param="value")]<|tool_call_end|>`
)

// FormatTools renders tool definitions into dialect-specific instruction
// text for a system prompt. An empty definition list yields an empty
// string; callers treat that as "no tools available" and skip the block.
func FormatTools(defs []domain.ToolDefinition, d domain.Dialect) string {
	if len(defs) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("You have access to the following tools:\n\n")
	for _, def := range defs {
		formatDefinition(&sb, def)
	}

	sb.WriteString("To call a tool, respond with exactly this syntax:\n")
	switch d.Instruction() {
	case domain.DialectFuncCall:
		sb.WriteString(funcCallExample)
	default:
		sb.WriteString(tagJSONExample)
	}
	sb.WriteString("\n\nOnly call a tool when it is needed to answer. Otherwise answer directly.")

	return sb.String()
}

func formatDefinition(sb *strings.Builder, def domain.ToolDefinition) {
	fmt.Fprintf(sb, "- %s: %s\n", def.Name, def.Description)
	for _, p := range def.Parameters {
		req := "optional"
		if p.Required {
			req = "required"
		}
		fmt.Fprintf(sb, "  - %s (%s, %s): %s", p.Name, p.Type, req, p.Description)
		if len(p.Enum) > 0 {
			fmt.Fprintf(sb, " [one of: %s]", strings.Join(p.Enum, ", "))
		}
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
}
