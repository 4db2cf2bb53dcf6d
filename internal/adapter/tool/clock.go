package tool

import (
	"context"
	"fmt"
	"time"

	"toolwire/internal/domain"
)

// ClockDefinition describes the built-in get_time tool.
func ClockDefinition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "get_time",
		Description: "Get the current date and time, optionally in a specific IANA timezone",
		Category:    "builtin",
		Parameters: []domain.ToolParameter{
			{
				Name:        "timezone",
				Type:        domain.ParamString,
				Description: "IANA timezone name, e.g. Europe/Paris. Defaults to UTC.",
			},
		},
	}
}

// RegisterClock adds the get_time tool to the registry. The clock
// function is injectable for tests.
func RegisterClock(r *Registry, now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	return r.Register(ClockDefinition(), func(_ context.Context, args map[string]any) (map[string]any, error) {
		loc := time.UTC
		if tz, ok := args["timezone"].(string); ok && tz != "" {
			var err error
			loc, err = time.LoadLocation(tz)
			if err != nil {
				return nil, fmt.Errorf("unknown timezone %q", tz)
			}
		}
		t := now().In(loc)
		return map[string]any{
			"time":     t.Format(time.RFC3339),
			"timezone": loc.String(),
			"unix":     t.Unix(),
		}, nil
	})
}
