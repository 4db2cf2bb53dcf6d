package tool

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"toolwire/internal/domain"
)

// argumentValidator validates decoded arguments against a tool's
// derived JSON Schema.
type argumentValidator struct {
	schema *jsonschema.Schema
}

// compileValidator compiles the schema derived from a tool definition.
// Definitions without parameters validate trivially.
func compileValidator(def domain.ToolDefinition) (*argumentValidator, error) {
	raw, err := json.Marshal(def.JSONSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema for %q: %w", def.Name, err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource for %q: %w", def.Name, err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema for %q: %w", def.Name, err)
	}

	return &argumentValidator{schema: compiled}, nil
}

func (v *argumentValidator) check(args map[string]any) error {
	// Round-trip through JSON so argument values carry the types the
	// validator expects (int64 from the function-call dialect becomes
	// a JSON number).
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("unserializable arguments: %w", err)
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	return v.schema.Validate(decoded)
}
