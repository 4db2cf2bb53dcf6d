package tool

import (
	"context"
	"fmt"

	"toolwire/internal/domain"
)

// CalculatorDefinition describes the built-in calculate tool.
func CalculatorDefinition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "calculate",
		Description: "Perform a basic arithmetic operation on two numbers",
		Category:    "builtin",
		Parameters: []domain.ToolParameter{
			{
				Name:        "operation",
				Type:        domain.ParamString,
				Description: "Arithmetic operation to perform",
				Required:    true,
				Enum:        []string{"add", "subtract", "multiply", "divide"},
			},
			{Name: "a", Type: domain.ParamNumber, Description: "First operand", Required: true},
			{Name: "b", Type: domain.ParamNumber, Description: "Second operand", Required: true},
		},
	}
}

// RegisterCalculator adds the calculate tool to the registry.
func RegisterCalculator(r *Registry) error {
	return r.Register(CalculatorDefinition(), func(_ context.Context, args map[string]any) (map[string]any, error) {
		a, err := toFloat(args["a"])
		if err != nil {
			return nil, fmt.Errorf("operand a: %w", err)
		}
		b, err := toFloat(args["b"])
		if err != nil {
			return nil, fmt.Errorf("operand b: %w", err)
		}

		op, _ := args["operation"].(string)
		var result float64
		switch op {
		case "add":
			result = a + b
		case "subtract":
			result = a - b
		case "multiply":
			result = a * b
		case "divide":
			if b == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			result = a / b
		default:
			return nil, fmt.Errorf("unsupported operation %q", op)
		}

		return map[string]any{"result": result}, nil
	})
}

// toFloat accepts the numeric shapes the dialect parsers produce.
func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}
