package ai

import (
	"context"
)

// GenerationConfig carries per-call sampling settings.
type GenerationConfig struct {
	Temperature     float32
	MaxOutputTokens int32
}

// TextProvider is the uniform interface over text generation backends.
// Implementations hide SDK differences behind one call shape.
type TextProvider interface {
	Name() string

	// IsConfigured is true iff the backend's API key is non-empty. No runtime
	// capability negotiation happens beyond this boolean.
	IsConfigured() bool

	// Generate returns the completed response text for the prompt pair.
	Generate(ctx context.Context, systemPrompt, userPrompt string, cfg GenerationConfig) (string, error)

	// GenerateStream returns a channel of response chunks. The channel is
	// closed when the provider finishes or the context is cancelled.
	GenerateStream(ctx context.Context, systemPrompt, userPrompt string, cfg GenerationConfig) (<-chan string, error)
}

// SelectProvider walks the ordered fallback list and returns the first
// configured backend. All-unconfigured is a ConfigurationError.
func SelectProvider(providers []TextProvider) (TextProvider, error) {
	for _, p := range providers {
		if p != nil && p.IsConfigured() {
			return p, nil
		}
	}
	return nil, &ConfigurationError{Reason: "no text generation provider configured - set GEMINI_API_KEY or OPENAI_API_KEY"}
}
