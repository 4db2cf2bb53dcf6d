//go:build !bedrock

package main

import (
	"fmt"
	"log/slog"

	"toolwire/internal/domain"
	"toolwire/internal/infra/config"
)

func createBedrockProvider(_ config.ProviderConfig, _ *slog.Logger) (domain.Generator, error) {
	return nil, fmt.Errorf("bedrock provider requires build with -tags bedrock")
}
