package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"toolwire/internal/adapter/audit"
	"toolwire/internal/adapter/llm"
	"toolwire/internal/adapter/tool"
	"toolwire/internal/domain"
	"toolwire/internal/infra/config"
	"toolwire/internal/infra/logger"
	"toolwire/internal/infra/tracer"
	"toolwire/internal/prompt"
	"toolwire/internal/usecase"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "--help", "-h", "help":
			showUsage()
			return
		case "encrypt-secret":
			if err := runEncryptSecret(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "encrypt-secret: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fatal [%s]: %v\n", domain.ErrorCodeOf(err), err)
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`toolwire - tool-calling protocol engine for text-completion models

USAGE:
    toolwire [FLAGS] [PROMPT]

COMMANDS:
    encrypt-secret   Encrypt a config secret (reads TOOLWIRE_CONFIG_KEY)

    (no command) - run one orchestration with the given prompt

FLAGS:
    -h, --help           Show this help message
    --config PATH        Config file path (default: ./config.yaml)
    --dialect NAME       Wire dialect: default, lfm2, auto
    --max-tool-calls N   Tool call budget for this run
    --system TEXT        System prompt
    --manual             Surface tool calls instead of executing them
    --json               Print the full run result as JSON

CONFIGURATION:
    Config file: ./config.yaml
    Environment: TOOLWIRE_* variables override config

EXAMPLES:
    toolwire "what time is it in Tokyo?"
    toolwire --dialect lfm2 "add 2 and 40"
    echo "divide 10 by 4" | toolwire --json`)
}

func run(args []string) error {
	fs := flag.NewFlagSet("toolwire", flag.ContinueOnError)
	configPath := fs.String("config", "./config.yaml", "config file path")
	dialectName := fs.String("dialect", "", "wire dialect")
	maxToolCalls := fs.Int("max-tool-calls", -1, "tool call budget")
	systemPrompt := fs.String("system", "", "system prompt")
	manual := fs.Bool("manual", false, "surface tool calls instead of executing")
	asJSON := fs.Bool("json", false, "print run result as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	userPrompt := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if userPrompt == "" {
		var err error
		userPrompt, err = readStdinPrompt()
		if err != nil {
			return err
		}
	}
	if userPrompt == "" {
		return fmt.Errorf("no prompt given (pass as argument or on stdin)")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	log, closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		return err
	}
	defer shutdownTracer(context.Background())

	deps, cleanup, err := buildDeps(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := engineOptions(cfg)
	if *dialectName != "" {
		opts.Dialect = domain.DialectFromName(*dialectName)
	}
	if *maxToolCalls >= 0 {
		opts.MaxToolCalls = *maxToolCalls
	}
	if *systemPrompt != "" {
		opts.SystemPrompt = *systemPrompt
	}
	if *manual {
		opts.AutoExecute = false
	}

	orch := usecase.NewOrchestrator(deps)
	res, err := orch.Run(ctx, userPrompt, opts)
	if err != nil {
		return err
	}

	return printResult(res, *asJSON)
}

// buildDeps wires the provider chain, tool registry, guard and audit
// sink from config.
func buildDeps(cfg *config.Config, log *slog.Logger) (usecase.OrchestratorDeps, func(), error) {
	var noop = func() {}

	gen, err := buildGenerator(cfg, log)
	if err != nil {
		return usecase.OrchestratorDeps{}, noop, err
	}

	registry := tool.NewRegistry(log)
	if err := tool.RegisterClock(registry, nil); err != nil {
		return usecase.OrchestratorDeps{}, noop, err
	}
	if err := tool.RegisterCalculator(registry); err != nil {
		return usecase.OrchestratorDeps{}, noop, err
	}

	deps := usecase.OrchestratorDeps{
		Generator: gen,
		Tools:     registry,
		Logger:    log,
	}

	if cfg.ContextGuard.Enabled {
		var counter domain.TokenCounter
		if tc, err := prompt.NewTiktokenCounter(cfg.ContextGuard.Encoding); err != nil {
			log.Warn("token encoding unavailable, using byte estimate", "error", err)
			counter = prompt.EstimateCounter{}
		} else {
			counter = tc
		}
		deps.Guard = usecase.NewContextGuard(usecase.ContextGuardConfig{
			MaxTokens:     cfg.ContextGuard.MaxTokens,
			ReserveTokens: cfg.ContextGuard.ReserveTokens,
			SafetyMargin:  cfg.ContextGuard.SafetyMargin,
		}, counter, log)
	}

	cleanup := noop
	if cfg.Audit.Enabled {
		sink, err := audit.NewSQLiteAuditLogger(cfg.Audit.Path)
		if err != nil {
			return usecase.OrchestratorDeps{}, noop, err
		}
		deps.Audit = sink
		cleanup = func() { sink.Close() }
	}

	return deps, cleanup, nil
}

func buildGenerator(cfg *config.Config, log *slog.Logger) (domain.Generator, error) {
	var gen domain.Generator
	switch cfg.Provider.Type {
	case "bedrock":
		var err error
		gen, err = createBedrockProvider(cfg.Provider, log)
		if err != nil {
			return nil, err
		}
	default:
		gen = llm.NewCompletionProvider(cfg.Provider, log)
	}

	if cfg.RateLimit.Enabled {
		gen = llm.NewRateLimitedGenerator(gen, cfg.RateLimit, log)
	}
	if cfg.CircuitBreaker.Enabled {
		gen = llm.NewCircuitBreakerGenerator(gen, cfg.CircuitBreaker, log)
	}
	return gen, nil
}

func engineOptions(cfg *config.Config) domain.ToolCallingOptions {
	opts := domain.DefaultToolCallingOptions()
	opts.MaxToolCalls = cfg.Engine.MaxToolCalls
	opts.AutoExecute = cfg.Engine.AutoExecute
	if cfg.Engine.Temperature > 0 {
		opts.Temperature = cfg.Engine.Temperature
	}
	if cfg.Engine.MaxTokens > 0 {
		opts.MaxTokens = cfg.Engine.MaxTokens
	}
	opts.SystemPrompt = cfg.Engine.SystemPrompt
	opts.ReplaceSystemPrompt = cfg.Engine.ReplaceSystemPrompt
	opts.KeepToolsAvailable = cfg.Engine.KeepToolsAvailable
	opts.Dialect = domain.DialectFromName(cfg.Engine.Dialect)
	return opts
}

func printResult(res *usecase.RunResult, asJSON bool) error {
	if asJSON {
		out := map[string]any{
			"text":       res.Text,
			"calls":      res.Calls,
			"results":    res.Results,
			"isComplete": res.IsComplete,
		}
		if res.PendingCall != nil {
			out["pendingCall"] = res.PendingCall
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if !res.IsComplete && res.PendingCall != nil {
		fmt.Printf("awaiting manual execution of %s(%v) [call %s]\n",
			res.PendingCall.Name, res.PendingCall.Arguments, res.PendingCall.ID)
		return nil
	}
	fmt.Println(res.Text)
	return nil
}

func readStdinPrompt() (string, error) {
	info, err := os.Stdin.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice != 0 {
		return "", nil
	}
	var sb strings.Builder
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		sb.WriteString(sc.Text())
		sb.WriteByte('\n')
	}
	return strings.TrimSpace(sb.String()), sc.Err()
}

func runEncryptSecret(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: toolwire encrypt-secret <plaintext>")
	}
	passphrase := os.Getenv("TOOLWIRE_CONFIG_KEY")
	if passphrase == "" {
		return fmt.Errorf("TOOLWIRE_CONFIG_KEY is not set")
	}
	enc, err := config.EncryptValue(args[0], passphrase)
	if err != nil {
		return err
	}
	fmt.Println("enc:" + enc)
	return nil
}
