//go:build bedrock

package main

import (
	"log/slog"

	"toolwire/internal/adapter/llm"
	"toolwire/internal/domain"
	"toolwire/internal/infra/config"
)

func createBedrockProvider(pc config.ProviderConfig, log *slog.Logger) (domain.Generator, error) {
	return llm.NewBedrockProvider(pc, log)
}
