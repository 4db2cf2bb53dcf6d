package tool

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"toolwire/internal/domain"
)

// ExecFunc is a tool implementation. It receives decoded arguments and
// returns the result payload, or an error for execution failures.
type ExecFunc func(ctx context.Context, args map[string]any) (map[string]any, error)

type entry struct {
	def      domain.ToolDefinition
	fn       ExecFunc
	validate *argumentValidator // nil when the schema failed to compile
}

// Registry holds named tools. It is the only process-wide shared state
// of the engine and is read-only during orchestration, so concurrent
// invocations can share one instance.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]entry
	logger *slog.Logger
}

// NewRegistry creates an empty tool registry. Registered tools are
// wrapped with JSON Schema argument validation; if a tool's schema
// fails to compile, it is registered unvalidated and a warning is
// logged.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		tools:  make(map[string]entry),
		logger: logger,
	}
}

// Register adds a tool. Returns an error if the name is empty or
// already registered.
func (r *Registry) Register(def domain.ToolDefinition, fn ExecFunc) error {
	if def.Name == "" || fn == nil {
		return domain.NewDomainError("Registry.Register", domain.ErrInvalidInput, "tool needs a name and an implementation")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("tool %q already registered", def.Name)
	}

	validator, err := compileValidator(def)
	if err != nil {
		r.logger.Warn("schema validation disabled for tool",
			"tool", def.Name, "error", err)
		validator = nil
	}

	r.tools[def.Name] = entry{def: def, fn: fn, validate: validator}
	return nil
}

// Definitions returns all tool definitions, sorted by name so prompt
// construction stays deterministic.
func (r *Registry) Definitions() []domain.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]domain.ToolDefinition, 0, len(r.tools))
	for _, e := range r.tools {
		defs = append(defs, e.def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Execute runs a tool by name. Invalid arguments come back as a failed
// ToolResult rather than an error, so the model sees the validation
// message. Execution failures are returned as errors for the caller to
// fold into the conversation.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (*domain.ToolResult, error) {
	r.mu.RLock()
	e, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.NewDomainError("Registry.Execute", domain.ErrToolNotFound, name)
	}

	if args == nil {
		args = map[string]any{}
	}

	if e.validate != nil {
		if err := e.validate.check(args); err != nil {
			return &domain.ToolResult{
				Name:    name,
				Success: false,
				Error:   fmt.Sprintf("invalid arguments: %v", err),
			}, nil
		}
	}

	out, err := e.fn(ctx, args)
	if err != nil {
		return nil, err
	}
	return &domain.ToolResult{
		Name:    name,
		Success: true,
		Result:  out,
	}, nil
}

var _ domain.ToolExecutor = (*Registry)(nil)
