package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel/trace"

	"toolwire/internal/dialect"
	"toolwire/internal/domain"
	"toolwire/internal/infra/tracer"
	"toolwire/internal/prompt"
)

// OrchestratorDeps holds injected dependencies for the orchestrator.
type OrchestratorDeps struct {
	Generator domain.Generator
	Tools     domain.ToolExecutor
	Logger    *slog.Logger
	Guard     *ContextGuard      // optional, nil = no context window guard
	Audit     domain.AuditLogger // optional, nil = no audit
}

// Orchestrator runs the generate-parse-execute loop. Each invocation is
// strictly sequential: the Nth generation output is fully parsed, and
// any tool execution awaited, before the next generation call is
// issued. Independent invocations share no mutable state.
type Orchestrator struct {
	deps OrchestratorDeps
}

// NewOrchestrator creates an orchestrator with the given dependencies.
func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Orchestrator{deps: deps}
}

// RunResult is the outcome of one orchestration invocation.
//
// IsComplete is true for every terminal state, including iteration
// exhaustion; it is false only when the run paused for manual tool
// execution, in which case PendingCall holds the call awaiting a
// result and the run can be continued with Resume.
type RunResult struct {
	Text       string
	Calls      []domain.ToolCall
	Results    []domain.ToolResult
	IsComplete bool

	PendingCall *domain.ToolCall

	// Resume state, carried across the manual-execution pause.
	userPrompt string
	opts       domain.ToolCallingOptions
	defs       []domain.ToolDefinition
	iterations int
}

// Run processes a user prompt through the bounded tool-calling loop.
// Generation failure is the only condition returned as an error;
// parsing and tool failures are folded back into the conversation.
func (o *Orchestrator) Run(ctx context.Context, userPrompt string, opts domain.ToolCallingOptions) (*RunResult, error) {
	ctx, span := tracer.StartSpan(ctx, "orchestrator.run",
		trace.WithAttributes(
			tracer.StringAttr("dialect", string(opts.Dialect)),
			tracer.IntAttr("max_tool_calls", opts.MaxToolCalls),
		),
	)
	defer span.End()

	defs := o.definitions()
	builder := prompt.NewBuilder(opts.Dialect)

	st := &RunResult{
		userPrompt: userPrompt,
		opts:       opts,
		defs:       defs,
	}
	res, err := o.loop(ctx, st, builder, builder.BuildInitial(userPrompt, defs, opts))
	if err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}
	tracer.SetOK(span)
	return res, nil
}

// Resume continues a run that paused for manual tool execution. The
// caller executed (or declined) the pending call and supplies its
// result; the loop picks up at the follow-up prompt.
func (o *Orchestrator) Resume(ctx context.Context, prev *RunResult, result domain.ToolResult) (*RunResult, error) {
	if prev == nil || prev.IsComplete || prev.PendingCall == nil {
		return nil, domain.NewDomainError("Orchestrator.Resume", domain.ErrRunNotPaused, "")
	}

	ctx, span := tracer.StartSpan(ctx, "orchestrator.resume",
		trace.WithAttributes(tracer.StringAttr("tool.name", prev.PendingCall.Name)),
	)
	defer span.End()

	if result.CallID == "" {
		result.CallID = prev.PendingCall.ID
	}

	st := &RunResult{
		Calls:      prev.Calls,
		Results:    append(prev.Results, result),
		userPrompt: prev.userPrompt,
		opts:       prev.opts,
		defs:       prev.defs,
		iterations: prev.iterations + 1,
	}
	builder := prompt.NewBuilder(st.opts.Dialect)
	next := builder.BuildFollowup(st.userPrompt, st.defs, st.opts, result, st.opts.KeepToolsAvailable)

	res, err := o.loop(ctx, st, builder, next)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}
	tracer.SetOK(span)
	return res, nil
}

func (o *Orchestrator) loop(ctx context.Context, st *RunResult, builder *prompt.Builder, current string) (*RunResult, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if o.deps.Guard != nil {
			if err := o.deps.Guard.Check(current); err != nil {
				return nil, err
			}
		}

		text, err := o.generate(ctx, current, st.opts)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}

		parsed := dialect.ParseWithDialect(text, st.opts.Dialect)
		if !parsed.HasCall {
			st.Text = parsed.CleanText
			st.IsComplete = true
			return st, nil
		}

		call := domain.ToolCall{
			ID:        parsed.CallID,
			Name:      parsed.Name,
			Arguments: parsed.Arguments,
			Dialect:   parsed.Dialect,
		}
		st.Calls = append(st.Calls, call)

		if !st.opts.AutoExecute {
			st.Text = parsed.CleanText
			st.PendingCall = &call
			return st, nil
		}

		// Exhaustion is a normal terminal state, not an error: the
		// recorded call stays unexecuted and the last parsed text wins.
		if st.iterations >= st.opts.MaxToolCalls {
			o.deps.Logger.Warn("tool call budget exhausted",
				"max_tool_calls", st.opts.MaxToolCalls,
				"tool", call.Name,
			)
			st.Text = parsed.CleanText
			st.IsComplete = true
			return st, nil
		}

		result := o.executeCall(ctx, call, st.defs)
		st.Results = append(st.Results, result)
		st.iterations++

		current = builder.BuildFollowup(st.userPrompt, st.defs, st.opts, result, st.opts.KeepToolsAvailable)
	}
}

func (o *Orchestrator) generate(ctx context.Context, current string, opts domain.ToolCallingOptions) (string, error) {
	ctx, span := tracer.StartSpan(ctx, "orchestrator.generate",
		trace.WithAttributes(tracer.IntAttr("prompt.bytes", len(current))),
	)
	defer span.End()

	text, err := o.deps.Generator.Generate(ctx, current, domain.GenerateOptions{
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	o.audit(ctx, domain.AuditEvent{
		Type: domain.AuditGeneration,
		Detail: map[string]string{
			"provider": o.deps.Generator.Name(),
			"success":  strconv.FormatBool(err == nil),
		},
	})
	if err != nil {
		tracer.RecordError(span, err)
		return "", domain.NewDomainError("Orchestrator.generate", domain.ErrGenerationFailed, err.Error())
	}
	return text, nil
}

// executeCall runs a single tool call. Unknown tools and executor
// failures come back as failed ToolResults so the model can react to
// them narratively; they never abort the loop.
func (o *Orchestrator) executeCall(ctx context.Context, call domain.ToolCall, defs []domain.ToolDefinition) domain.ToolResult {
	ctx, span := tracer.StartSpan(ctx, "orchestrator.execute_tool",
		trace.WithAttributes(tracer.StringAttr("tool.name", call.Name)),
	)
	defer span.End()

	known := false
	for _, d := range defs {
		if d.Name == call.Name {
			known = true
			break
		}
	}
	if !known {
		err := domain.NewDomainError("Orchestrator.executeCall", domain.ErrToolNotFound, call.Name)
		tracer.RecordError(span, err)
		o.deps.Logger.Warn("model requested unknown tool", "tool", call.Name)
		o.auditToolExec(ctx, call.Name, false)
		return domain.ToolResult{
			Name:    call.Name,
			Success: false,
			Error:   fmt.Sprintf("unknown tool: %s", call.Name),
			CallID:  call.ID,
		}
	}

	result, err := o.deps.Tools.Execute(ctx, call.Name, call.Arguments)
	if err != nil {
		tracer.RecordError(span, err)
		o.deps.Logger.Warn("tool execution failed", "tool", call.Name, "error", err)
		o.auditToolExec(ctx, call.Name, false)
		return domain.ToolResult{
			Name:    call.Name,
			Success: false,
			Error:   err.Error(),
			CallID:  call.ID,
		}
	}

	out := *result
	if out.CallID == "" {
		out.CallID = call.ID
	}
	o.auditToolExec(ctx, call.Name, out.Success)
	tracer.SetOK(span)
	return out
}

func (o *Orchestrator) definitions() []domain.ToolDefinition {
	if o.deps.Tools == nil {
		return nil
	}
	return o.deps.Tools.Definitions()
}

// audit logs best-effort; a failing sink never disturbs the loop.
func (o *Orchestrator) audit(ctx context.Context, event domain.AuditEvent) {
	if o.deps.Audit == nil {
		return
	}
	if err := o.deps.Audit.Log(ctx, event); err != nil {
		o.deps.Logger.Warn("audit log failed", "error", err)
	}
}

func (o *Orchestrator) auditToolExec(ctx context.Context, tool string, success bool) {
	o.audit(ctx, domain.AuditEvent{
		Type: domain.AuditToolExec,
		Detail: map[string]string{
			"tool":    tool,
			"success": strconv.FormatBool(success),
		},
	})
}
