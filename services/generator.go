package services

import (
	"context"
	"fmt"
	"strings"

	"social-post-studio/internal/ai"
	"social-post-studio/internal/image"
	"social-post-studio/internal/logger"
	"social-post-studio/internal/pipeline"
)

// GenerateParams is one end-to-end generation attempt.
type GenerateParams struct {
	pipeline.PostRequest

	// ReferenceURL optionally points at a page whose title/description are
	// fetched and appended to the prompt as context.
	ReferenceURL string

	// GenerateImage controls whether the visual prompt is sent to an image
	// provider after text generation.
	GenerateImage bool
}

// GeneratorService runs the content generation pipeline: prompt building,
// provider dispatch, response normalization, image generation, and platform
// formatting.
type GeneratorService struct {
	providers      []ai.TextProvider
	imageProviders []image.Provider
	linkPreviews   *LinkPreviewService
	genConfig      ai.GenerationConfig
}

func NewGeneratorService(providers []ai.TextProvider, imageProviders []image.Provider, linkPreviews *LinkPreviewService, genConfig ai.GenerationConfig) *GeneratorService {
	return &GeneratorService{
		providers:      providers,
		imageProviders: imageProviders,
		linkPreviews:   linkPreviews,
		genConfig:      genConfig,
	}
}

// GeneratePost produces a complete, platform-formatted post. Text must
// succeed; a failed image generation degrades to a post without an image.
func (g *GeneratorService) GeneratePost(ctx context.Context, params GenerateParams) (*pipeline.PostOutput, error) {
	provider, userPrompt, err := g.prepare(ctx, &params)
	if err != nil {
		return nil, err
	}

	raw, err := provider.Generate(ctx, pipeline.SystemPrompt(), userPrompt, g.genConfig)
	if err != nil {
		return nil, err
	}

	parsed := pipeline.ParseStructuredResponse(raw)
	if parsed == nil {
		// Parse failure on the primary path is user-facing, never a
		// partially-filled post.
		return nil, &ai.ParseError{Raw: raw}
	}

	out := pipeline.NormalizePostOutput(parsed)

	// Image generation is sequenced after text because the image prompt is
	// derived from the visualPrompt field.
	if params.GenerateImage && out.VisualPrompt != "" {
		if url := g.generateImage(ctx, out.VisualPrompt, params.VisualStyle); url != "" {
			out.ImageURL = url
		}
	}

	out.MainContent = pipeline.FormatForPlatform(out.MainContent, params.Platform, out.Hashtags, pipeline.FormatOptions{
		TruncateIfNeeded: true,
		AddEllipsis:      true,
	})

	return &out, nil
}

// GeneratePostStream validates and dispatches a streamed generation. Chunks
// are forwarded as the provider emits them; a cancelled request persists
// nothing.
func (g *GeneratorService) GeneratePostStream(ctx context.Context, params GenerateParams) (<-chan string, error) {
	provider, userPrompt, err := g.prepare(ctx, &params)
	if err != nil {
		return nil, err
	}
	return provider.GenerateStream(ctx, pipeline.SystemPrompt(), userPrompt, g.genConfig)
}

// GenerateImage regenerates just the illustration for an existing visual
// prompt.
func (g *GeneratorService) GenerateImage(ctx context.Context, visualPrompt string, style pipeline.VisualStyle) (string, error) {
	if strings.TrimSpace(visualPrompt) == "" {
		return "", &ai.ValidationError{Field: "visual_prompt", Reason: "must not be empty"}
	}
	provider := image.SelectProvider(g.imageProviders)
	if provider == nil {
		return "", &ai.ConfigurationError{Reason: "no image generation provider configured - set HUGGINGFACE_API_KEY or REPLICATE_API_TOKEN"}
	}

	prompt, negative := pipeline.EnhanceImagePrompt(visualPrompt, style)
	return provider.Generate(ctx, image.GenerateRequest{
		Prompt:         prompt,
		NegativePrompt: negative,
		Style:          string(style),
	})
}

func (g *GeneratorService) prepare(ctx context.Context, params *GenerateParams) (ai.TextProvider, string, error) {
	if strings.TrimSpace(params.Topic) == "" {
		return nil, "", &ai.ValidationError{Field: "topic", Reason: "must not be empty"}
	}
	params.ApplyDefaults()

	provider, err := ai.SelectProvider(g.providers)
	if err != nil {
		return nil, "", err
	}

	userPrompt := pipeline.BuildPostPrompt(params.PostRequest)

	if params.ReferenceURL != "" && g.linkPreviews != nil {
		preview, err := g.linkPreviews.Fetch(ctx, params.ReferenceURL)
		if err != nil {
			// Enrichment is best-effort; the post can be generated without it.
			logger.Warn("Reference URL enrichment failed", "url", params.ReferenceURL, "error", err)
		} else {
			userPrompt += fmt.Sprintf("\n\nReference material from %s:\nTitle: %s\nDescription: %s",
				params.ReferenceURL, preview.Title, preview.Description)
		}
	}

	return provider, userPrompt, nil
}

func (g *GeneratorService) generateImage(ctx context.Context, visualPrompt string, style pipeline.VisualStyle) string {
	provider := image.SelectProvider(g.imageProviders)
	if provider == nil {
		logger.Debug("No image provider configured, skipping image generation")
		return ""
	}

	prompt, negative := pipeline.EnhanceImagePrompt(visualPrompt, style)
	url, err := provider.Generate(ctx, image.GenerateRequest{
		Prompt:         prompt,
		NegativePrompt: negative,
		Style:          string(style),
	})
	if err != nil {
		logger.Warn("Image generation failed, continuing without image", "provider", provider.Name(), "error", err)
		return ""
	}
	return url
}
