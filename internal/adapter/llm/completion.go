package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"toolwire/internal/domain"
	"toolwire/internal/infra/config"
	"toolwire/internal/infra/tracer"
)

// Compile-time interface assertion.
var _ domain.Generator = (*CompletionProvider)(nil)

// Default completion timeouts: short connect (usually local), long
// response (model loading can take a while on first call).
const (
	completionDefaultConnTimeout = 5 * time.Second
	completionDefaultRespTimeout = 300 * time.Second
)

// CompletionProvider generates text through an Ollama-compatible
// /api/generate endpoint. The engine hands it a fully built prompt and
// expects the fully joined output back; streaming is disabled on the
// wire so there is exactly one response document per call.
type CompletionProvider struct {
	name    string
	model   string
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewCompletionProvider creates a provider from config.
func NewCompletionProvider(cfg config.ProviderConfig, logger *slog.Logger) *CompletionProvider {
	provCfg := cfg
	if provCfg.ConnTimeout == 0 {
		provCfg.ConnTimeout = completionDefaultConnTimeout
	}
	if provCfg.RespTimeout == 0 {
		provCfg.RespTimeout = completionDefaultRespTimeout
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	name := cfg.Name
	if name == "" {
		name = "completion"
	}

	return &CompletionProvider{
		name:    name,
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client:  NewHTTPClient(provCfg),
		logger:  logger,
	}
}

type completionRequest struct {
	Model   string            `json:"model"`
	Prompt  string            `json:"prompt"`
	Stream  bool              `json:"stream"`
	Options completionOptions `json:"options,omitempty"`
}

type completionOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type completionResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate implements domain.Generator.
func (p *CompletionProvider) Generate(ctx context.Context, promptText string, opts domain.GenerateOptions) (string, error) {
	ctx, span := tracer.StartSpan(ctx, "llm.generate",
		trace.WithAttributes(
			tracer.StringAttr("llm.provider", p.name),
			tracer.StringAttr("llm.model", p.model),
			tracer.IntAttr("llm.max_tokens", opts.MaxTokens),
		),
	)
	defer span.End()

	body, err := json.Marshal(completionRequest{
		Model:  p.model,
		Prompt: promptText,
		Stream: false,
		Options: completionOptions{
			Temperature: opts.Temperature,
			NumPredict:  opts.MaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	headers := map[string]string{}
	if p.apiKey != "" {
		headers["Authorization"] = "Bearer " + p.apiKey
	}

	respBody, err := doJSONRequest(ctx, p.client, p.baseURL+"/api/generate", body, headers)
	if err != nil {
		tracer.RecordError(span, err)
		return "", err
	}

	var resp completionResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		tracer.RecordError(span, err)
		return "", fmt.Errorf("parse response: %w", err)
	}

	p.logger.Debug("generation completed",
		"provider", p.name,
		"model", p.model,
		"output_bytes", len(resp.Response),
	)
	tracer.SetOK(span)
	return resp.Response, nil
}

// Name implements domain.Generator.
func (p *CompletionProvider) Name() string { return p.name }
