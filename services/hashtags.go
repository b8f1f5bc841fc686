package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"social-post-studio/internal/ai"
	"social-post-studio/internal/pipeline"
)

// The fixed hashtag taxonomy. Every result is categorized into these eight
// buckets; unrecognized provider categories land in "general".
var hashtagCategories = []string{
	"trending", "industry", "branded", "campaign",
	"location", "product", "community", "general",
}

// HashtagRequest asks for hashtag suggestions for a topic or draft.
type HashtagRequest struct {
	Topic    string            `json:"topic" binding:"required"`
	Content  string            `json:"content"`
	Platform pipeline.Platform `json:"platform"`
	Brand    string            `json:"brand"`
}

// HashtagResult holds all suggested tags, the same tags grouped by category,
// and a recommended subset capped at the platform's convention. Every tag
// starts with '#'.
type HashtagResult struct {
	All         []string            `json:"all"`
	Categorized map[string][]string `json:"categorized"`
	Recommended []string            `json:"recommended"`
}

// HashtagService generates categorized hashtags. The fallback is a single
// slugified hashtag derived from the topic.
type HashtagService struct {
	providers []ai.TextProvider
}

func NewHashtagService(providers []ai.TextProvider) *HashtagService {
	return &HashtagService{providers: providers}
}

func (h *HashtagService) Generate(ctx context.Context, req HashtagRequest) HashtagResult {
	platform := req.Platform
	if !platform.Valid() {
		platform = pipeline.PlatformInstagram
	}
	cap := pipeline.RulesFor(platform).MaxHashtags

	prompt := h.buildPrompt(req, platform)
	parsed := completeJSON(ctx, h.providers, pipeline.SystemPrompt(), prompt, refinementConfig)
	if parsed == nil {
		return h.fallback(req.Topic)
	}

	categorized := make(map[string][]string, len(hashtagCategories))
	for _, category := range hashtagCategories {
		categorized[category] = []string{}
	}

	seen := make(map[string]bool)
	all := []string{}

	rawCategories, _ := parsed["categorized"].(map[string]any)
	for category, rawTags := range rawCategories {
		bucket := category
		if !isKnownCategory(bucket) {
			bucket = "general"
		}
		tags, ok := rawTags.([]any)
		if !ok {
			continue
		}
		for _, rawTag := range tags {
			s, ok := rawTag.(string)
			if !ok {
				continue
			}
			tag := NormalizeHashtag(s)
			if tag == "" || seen[strings.ToLower(tag)] {
				continue
			}
			seen[strings.ToLower(tag)] = true
			categorized[bucket] = append(categorized[bucket], tag)
			all = append(all, tag)
		}
	}

	if len(all) == 0 {
		return h.fallback(req.Topic)
	}

	recommended := []string{}
	for _, raw := range pipeline.StringSliceField(parsed, "recommended") {
		tag := NormalizeHashtag(raw)
		if tag == "" || len(recommended) >= cap {
			continue
		}
		recommended = append(recommended, tag)
	}
	if len(recommended) == 0 {
		for _, tag := range all {
			if len(recommended) >= cap {
				break
			}
			recommended = append(recommended, tag)
		}
	}

	return HashtagResult{All: all, Categorized: categorized, Recommended: recommended}
}

func (h *HashtagService) buildPrompt(req HashtagRequest, platform pipeline.Platform) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest hashtags for a %s post about: %s\n", platform, req.Topic)
	if req.Content != "" {
		fmt.Fprintf(&b, "\nDraft content:\n%s\n", req.Content)
	}
	if req.Brand != "" {
		fmt.Fprintf(&b, "\nBrand name: %s\n", req.Brand)
	}
	fmt.Fprintf(&b, `
Group the hashtags into these categories: %s.
Respond with a single JSON object:
{
  "categorized": {"trending": ["tag"], "industry": ["tag"], "branded": [], "campaign": [], "location": [], "product": [], "community": [], "general": []},
  "recommended": ["the", "best", "tags", "for", "this", "platform"]
}`, strings.Join(hashtagCategories, ", "))
	return b.String()
}

func (h *HashtagService) fallback(topic string) HashtagResult {
	tag := SlugHashtag(topic)

	categorized := make(map[string][]string, len(hashtagCategories))
	for _, category := range hashtagCategories {
		categorized[category] = []string{}
	}
	categorized["general"] = []string{tag}

	return HashtagResult{
		All:         []string{tag},
		Categorized: categorized,
		Recommended: []string{tag},
	}
}

func isKnownCategory(category string) bool {
	for _, known := range hashtagCategories {
		if category == known {
			return true
		}
	}
	return false
}

// NormalizeHashtag trims a raw tag and guarantees the leading '#'. Interior
// whitespace is removed. Empty or symbol-only input yields "".
func NormalizeHashtag(raw string) string {
	cleaned := strings.TrimSpace(strings.TrimLeft(raw, "#"))
	cleaned = strings.Join(strings.Fields(cleaned), "")
	if cleaned == "" {
		return ""
	}
	return "#" + cleaned
}

// SlugHashtag lowercases the topic and strips everything but letters and
// digits to form a single hashtag.
func SlugHashtag(topic string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(topic) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "#post"
	}
	return "#" + b.String()
}
