package pipeline

import (
	"fmt"
	"strings"
)

const systemPersona = "You are an expert social media content creator. You write engaging, on-brand posts tailored to each platform's conventions, and you always answer with exactly the JSON structure you are asked for, nothing else."

var platformInstructions = map[Platform]string{
	PlatformTwitter:   "Write a punchy, concise post for Twitter/X. Keep the main content under 280 characters. Strong hooks, no filler.",
	PlatformInstagram: "Write an engaging Instagram post with an eye-catching caption. Emoji are welcome where they fit the tone.",
	PlatformLinkedIn:  "Write a professional, insight-focused LinkedIn post. Lead with a clear takeaway and keep the voice credible.",
	PlatformFacebook:  "Write a conversational Facebook post. Questions and calls for comments work well here.",
}

var toneGuidance = map[Tone]string{
	ToneProfessional:  "Authoritative, knowledgeable, and polished. No slang.",
	ToneFriendly:      "Warm, approachable, and conversational, like talking to a friend.",
	ToneHumorous:      "Playful and witty. Light jokes are fine, never mean-spirited.",
	ToneInspirational: "Uplifting and motivating. Paint the bigger picture.",
	ToneInformative:   "Clear, factual, and educational. Lead with the useful detail.",
	ToneCasual:        "Relaxed and informal. Short sentences, everyday language.",
}

// PlatformInstruction returns the fixed formatting clause for a platform.
func PlatformInstruction(p Platform) string {
	if clause, ok := platformInstructions[p]; ok {
		return clause
	}
	return platformInstructions[PlatformInstagram]
}

// ToneGuidance returns the fixed voice clause for a tone.
func ToneGuidance(t Tone) string {
	if clause, ok := toneGuidance[t]; ok {
		return clause
	}
	return toneGuidance[ToneFriendly]
}

// SystemPrompt returns the fixed persona used as the system message for every
// request.
func SystemPrompt() string {
	return systemPersona
}

// BuildPostPrompt composes the user prompt for a post generation request.
// Pure string composition; the caller has already validated the topic and
// applied defaults.
func BuildPostPrompt(req PostRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a social media post about: %s\n\n", req.Topic)
	fmt.Fprintf(&b, "Platform guidance: %s\n", PlatformInstruction(req.Platform))
	fmt.Fprintf(&b, "Tone: %s\n", ToneGuidance(req.Tone))

	if req.BrandGuidelines != "" {
		fmt.Fprintf(&b, "Brand guidelines to respect: %s\n", req.BrandGuidelines)
	}

	fmt.Fprintf(&b, "Keep the main content under %d characters.\n\n", req.MaxLength)

	b.WriteString(`Respond with a single JSON object with exactly these fields:
{
  "mainContent": "the post text",
  "caption": "a short caption or summary",
  "hashtags": ["relevant", "hashtags", "without", "the", "# symbol"],
  "visualPrompt": "a descriptive prompt for an image that illustrates the post"
}`)

	return b.String()
}

var styleSuffixes = map[VisualStyle]string{
	StyleRealistic:   "photorealistic, natural lighting, high detail, shot on a professional camera",
	StyleArtistic:    "expressive brush strokes, vivid color palette, fine art composition",
	StyleMinimalist:  "clean minimal composition, generous negative space, soft neutral palette",
	StyleIllustrated: "flat vector illustration, bold outlines, friendly color scheme",
	StyleCinematic:   "cinematic lighting, dramatic composition, shallow depth of field, film still",
}

const baseNegativePrompt = "blurry, low quality, watermark, text overlay, distorted anatomy, extra limbs"

// EnhanceImagePrompt appends style-specific descriptive suffixes to a visual
// prompt and computes the matching negative prompt.
func EnhanceImagePrompt(visualPrompt string, style VisualStyle) (prompt, negative string) {
	suffix, ok := styleSuffixes[style]
	if !ok {
		suffix = styleSuffixes[StyleRealistic]
	}

	prompt = strings.TrimSpace(visualPrompt)
	if prompt != "" {
		prompt = prompt + ", " + suffix
	} else {
		prompt = suffix
	}

	negative = baseNegativePrompt
	switch style {
	case StyleMinimalist:
		negative += ", cluttered, busy background"
	case StyleRealistic, StyleCinematic:
		negative += ", cartoon, illustration, painting"
	}

	return prompt, negative
}
