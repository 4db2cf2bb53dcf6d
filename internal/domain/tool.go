package domain

import (
	"context"
	"encoding/json"
)

// ParamType enumerates the value types a tool parameter may declare.
type ParamType string

// Supported parameter types.
const (
	ParamString  ParamType = "string"
	ParamNumber  ParamType = "number"
	ParamBoolean ParamType = "boolean"
	ParamObject  ParamType = "object"
	ParamArray   ParamType = "array"
)

// ToolParameter describes a single named parameter of a tool.
// Enum is only meaningful for string parameters.
type ToolParameter struct {
	Name        string    `json:"name"`
	Type        ParamType `json:"type"`
	Description string    `json:"description,omitempty"`
	Required    bool      `json:"required"`
	Default     any       `json:"default,omitempty"`
	Enum        []string  `json:"enum,omitempty"`
}

// ToolDefinition describes a tool for prompt formatting and validation.
// Definitions are owned by the registry; the engine only reads them.
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ToolParameter `json:"parameters,omitempty"`
	Category    string          `json:"category,omitempty"`
}

// JSONSchema derives a JSON Schema object for the tool's parameters,
// suitable for argument validation.
func (d ToolDefinition) JSONSchema() map[string]any {
	props := make(map[string]any, len(d.Parameters))
	var required []string
	for _, p := range d.Parameters {
		prop := map[string]any{"type": string(p.Type)}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if len(p.Enum) > 0 {
			vals := make([]any, len(p.Enum))
			for i, v := range p.Enum {
				vals[i] = v
			}
			prop["enum"] = vals
		}
		props[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// ToolCall is one parsed request to invoke a tool. Created by a dialect
// parser and never mutated afterwards.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
	Dialect   Dialect        `json:"dialect"`
}

// ToolResult is the outcome of executing a tool call. Result is present
// iff Success; Error is present iff not.
type ToolResult struct {
	Name    string         `json:"toolName"`
	Success bool           `json:"success"`
	Result  map[string]any `json:"result,omitempty"`
	Error   string         `json:"error,omitempty"`
	CallID  string         `json:"callId,omitempty"`
}

// JSON serializes the result for inclusion in a follow-up prompt.
// Marshal failures degrade to a minimal error object rather than panicking;
// the follow-up prompt must always be constructible.
func (r ToolResult) JSON() string {
	data, err := json.Marshal(r)
	if err != nil {
		return `{"success":false,"error":"unserializable tool result"}`
	}
	return string(data)
}

// ToolExecutor abstracts the external tool registry.
// Execute must not be called for a name absent from Definitions;
// callers surface an unknown-tool result instead.
type ToolExecutor interface {
	Definitions() []ToolDefinition
	Execute(ctx context.Context, name string, args map[string]any) (*ToolResult, error)
}
