package services

import (
	"context"
	"fmt"
	"strings"

	"social-post-studio/internal/ai"
	"social-post-studio/internal/pipeline"
)

// RefinePromptRequest asks for a terse topic expanded into a richer brief.
type RefinePromptRequest struct {
	Topic    string            `json:"topic" binding:"required"`
	Tone     pipeline.Tone     `json:"tone"`
	Platform pipeline.Platform `json:"platform"`
}

// RefinePromptResult always carries a usable prompt. Refined is false when
// the service fell back to the original topic.
type RefinePromptResult struct {
	RefinedPrompt string `json:"refined_prompt"`
	Refined       bool   `json:"refined"`
}

// PromptRefiner expands a terse topic into a descriptive generation brief.
// On any failure it returns the original topic unchanged.
type PromptRefiner struct {
	providers []ai.TextProvider
}

func NewPromptRefiner(providers []ai.TextProvider) *PromptRefiner {
	return &PromptRefiner{providers: providers}
}

func (r *PromptRefiner) Refine(ctx context.Context, req RefinePromptRequest) RefinePromptResult {
	fallback := RefinePromptResult{RefinedPrompt: req.Topic, Refined: false}

	if strings.TrimSpace(req.Topic) == "" {
		return fallback
	}

	tone := req.Tone
	if !tone.Valid() {
		tone = pipeline.ToneFriendly
	}
	platform := req.Platform
	if !platform.Valid() {
		platform = pipeline.PlatformInstagram
	}

	prompt := fmt.Sprintf(`Expand this terse social media topic into a rich, specific content brief of two or three sentences.

Topic: %s
Target platform: %s
Tone: %s

Mention the angle, the audience, and one concrete detail worth highlighting.
Respond with a single JSON object: {"refinedPrompt": "the expanded brief"}`,
		req.Topic, platform, tone)

	parsed := completeJSON(ctx, r.providers, pipeline.SystemPrompt(), prompt, refinementConfig)
	if parsed == nil {
		return fallback
	}

	refined := pipeline.StringField(parsed, "refinedPrompt")
	if strings.TrimSpace(refined) == "" {
		return fallback
	}

	return RefinePromptResult{RefinedPrompt: refined, Refined: true}
}
