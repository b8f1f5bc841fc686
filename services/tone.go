package services

import (
	"context"
	"fmt"

	"social-post-studio/internal/ai"
	"social-post-studio/internal/pipeline"
)

// ToneAdjustRequest asks for existing content rewritten in a different voice.
type ToneAdjustRequest struct {
	Content    string            `json:"content" binding:"required"`
	TargetTone pipeline.Tone     `json:"target_tone" binding:"required"`
	Platform   pipeline.Platform `json:"platform"`
}

// ToneAdjustResult always carries usable content. Adjusted is false when the
// service fell back to the original.
type ToneAdjustResult struct {
	AdjustedContent string `json:"adjusted_content"`
	Adjusted        bool   `json:"adjusted"`
	Notes           string `json:"notes,omitempty"`
}

// ToneAdjuster rewrites content in a target tone. On any failure it returns
// the original content unchanged; tone adjustment never surfaces an error.
type ToneAdjuster struct {
	providers []ai.TextProvider
}

func NewToneAdjuster(providers []ai.TextProvider) *ToneAdjuster {
	return &ToneAdjuster{providers: providers}
}

func (t *ToneAdjuster) Adjust(ctx context.Context, req ToneAdjustRequest) ToneAdjustResult {
	fallback := ToneAdjustResult{AdjustedContent: req.Content, Adjusted: false}

	tone := req.TargetTone
	if !tone.Valid() {
		return fallback
	}

	prompt := fmt.Sprintf(`Rewrite the following social media content in a different tone.

Target tone: %s
Tone guidance: %s

Content:
%s

Preserve the meaning, any hashtags, and roughly the original length.
Respond with a single JSON object: {"adjustedContent": "the rewritten text", "notes": "one sentence on what changed"}`,
		tone, pipeline.ToneGuidance(tone), req.Content)

	parsed := completeJSON(ctx, t.providers, pipeline.SystemPrompt(), prompt, refinementConfig)
	if parsed == nil {
		return fallback
	}

	adjusted := pipeline.StringField(parsed, "adjustedContent")
	if adjusted == "" {
		return fallback
	}

	return ToneAdjustResult{
		AdjustedContent: adjusted,
		Adjusted:        true,
		Notes:           pipeline.StringField(parsed, "notes"),
	}
}
