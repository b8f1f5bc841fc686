package services

import (
	"context"

	"social-post-studio/internal/ai"
	"social-post-studio/internal/logger"
	"social-post-studio/internal/pipeline"
)

// refinementConfig is the sampling used by all refinement helpers. Lower
// temperature than primary generation; these are transformations, not
// creative writing.
var refinementConfig = ai.GenerationConfig{
	Temperature:     0.4,
	MaxOutputTokens: 1024,
}

// completeJSON runs the shared refinement pattern: select a provider, invoke
// it, normalize the response. Any failure returns nil so the caller can apply
// its content-preserving fallback; refinement errors never reach the user.
func completeJSON(ctx context.Context, providers []ai.TextProvider, systemPrompt, userPrompt string, cfg ai.GenerationConfig) map[string]any {
	provider, err := ai.SelectProvider(providers)
	if err != nil {
		logger.Debug("Refinement skipped, no provider configured", "error", err)
		return nil
	}

	raw, err := provider.Generate(ctx, systemPrompt, userPrompt, cfg)
	if err != nil {
		logger.Warn("Refinement provider call failed", "provider", provider.Name(), "error", err)
		return nil
	}

	parsed := pipeline.ParseStructuredResponse(raw)
	if parsed == nil {
		logger.Warn("Refinement response was not parseable", "provider", provider.Name())
	}
	return parsed
}
