package services

import (
	"context"
	"fmt"

	"social-post-studio/internal/ai"
	"social-post-studio/internal/pipeline"
)

// neutralScore is the fallback value for every metric when the provider call
// or parsing fails.
const neutralScore = 70

// AnalyzeRequest asks for a quality assessment of a draft post.
type AnalyzeRequest struct {
	Content  string            `json:"content" binding:"required"`
	Platform pipeline.Platform `json:"platform"`
}

// AnalysisResult scores a draft on a 0-100 scale per metric.
type AnalysisResult struct {
	Engagement  int      `json:"engagement"`
	Readability int      `json:"readability"`
	Sentiment   int      `json:"sentiment"`
	Overall     int      `json:"overall"`
	Strengths   []string `json:"strengths"`
	Suggestions []string `json:"suggestions"`
	Analyzed    bool     `json:"analyzed"`
}

// ContentAnalyzer scores and critiques draft content. On any failure it
// returns a fixed neutral score across all metrics.
type ContentAnalyzer struct {
	providers []ai.TextProvider
}

func NewContentAnalyzer(providers []ai.TextProvider) *ContentAnalyzer {
	return &ContentAnalyzer{providers: providers}
}

func (a *ContentAnalyzer) Analyze(ctx context.Context, req AnalyzeRequest) AnalysisResult {
	fallback := AnalysisResult{
		Engagement:  neutralScore,
		Readability: neutralScore,
		Sentiment:   neutralScore,
		Overall:     neutralScore,
		Strengths:   []string{},
		Suggestions: []string{},
		Analyzed:    false,
	}

	platform := req.Platform
	if !platform.Valid() {
		platform = pipeline.PlatformInstagram
	}

	prompt := fmt.Sprintf(`Score this draft %s post on a 0-100 scale for engagement potential, readability, and sentiment, plus an overall score.

Draft:
%s

Respond with a single JSON object:
{"engagement": 0, "readability": 0, "sentiment": 0, "overall": 0, "strengths": ["..."], "suggestions": ["..."]}`,
		platform, req.Content)

	parsed := completeJSON(ctx, a.providers, pipeline.SystemPrompt(), prompt, refinementConfig)
	if parsed == nil {
		return fallback
	}

	return AnalysisResult{
		Engagement:  clampScore(pipeline.NumberField(parsed, "engagement", neutralScore)),
		Readability: clampScore(pipeline.NumberField(parsed, "readability", neutralScore)),
		Sentiment:   clampScore(pipeline.NumberField(parsed, "sentiment", neutralScore)),
		Overall:     clampScore(pipeline.NumberField(parsed, "overall", neutralScore)),
		Strengths:   pipeline.StringSliceField(parsed, "strengths"),
		Suggestions: pipeline.StringSliceField(parsed, "suggestions"),
		Analyzed:    true,
	}
}

func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}
