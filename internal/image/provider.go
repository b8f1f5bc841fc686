package image

import (
	"context"
)

// GenerateRequest is a normalized request passed to any image provider.
type GenerateRequest struct {
	Prompt         string
	NegativePrompt string
	Style          string
	Seed           int64
}

// Provider is the uniform interface over image generation backends. Generate
// returns a public URL or data URI for the image; the pipeline treats the
// result as an opaque string either way.
type Provider interface {
	Name() string
	IsConfigured() bool
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// SelectProvider returns the first configured backend, or nil when none is.
// A missing image provider degrades to a post without an image, so unlike the
// text side this is not an error.
func SelectProvider(providers []Provider) Provider {
	for _, p := range providers {
		if p != nil && p.IsConfigured() {
			return p
		}
	}
	return nil
}
