package pipeline

// Tone is the requested voice of the generated content.
type Tone string

const (
	ToneProfessional  Tone = "professional"
	ToneFriendly      Tone = "friendly"
	ToneHumorous      Tone = "humorous"
	ToneInspirational Tone = "inspirational"
	ToneInformative   Tone = "informative"
	ToneCasual        Tone = "casual"
)

// Platform is the target social network.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformFacebook  Platform = "facebook"
)

// VisualStyle guides the image prompt enhancer.
type VisualStyle string

const (
	StyleRealistic   VisualStyle = "realistic"
	StyleArtistic    VisualStyle = "artistic"
	StyleMinimalist  VisualStyle = "minimalist"
	StyleIllustrated VisualStyle = "illustrated"
	StyleCinematic   VisualStyle = "cinematic"
)

// PostRequest is one generation attempt. Immutable, request-scoped, never
// persisted directly.
type PostRequest struct {
	Topic           string      `json:"topic" binding:"required"`
	Tone            Tone        `json:"tone"`
	Platform        Platform    `json:"platform"`
	VisualStyle     VisualStyle `json:"visual_style"`
	BrandGuidelines string      `json:"brand_guidelines"`
	MaxLength       int         `json:"max_length"`
}

// ApplyDefaults fills unset optional fields with the documented defaults.
func (r *PostRequest) ApplyDefaults() {
	if r.Tone == "" {
		r.Tone = ToneFriendly
	}
	if r.Platform == "" {
		r.Platform = PlatformInstagram
	}
	if r.VisualStyle == "" {
		r.VisualStyle = StyleRealistic
	}
	if r.MaxLength <= 0 {
		r.MaxLength = 280
	}
}

// PostOutput is the normalized generation result. All four core fields are
// always present after normalization.
type PostOutput struct {
	MainContent  string   `json:"mainContent"`
	Caption      string   `json:"caption"`
	Hashtags     []string `json:"hashtags"`
	VisualPrompt string   `json:"visualPrompt"`
	ImageURL     string   `json:"imageUrl,omitempty"`
}

func (t Tone) Valid() bool {
	switch t {
	case ToneProfessional, ToneFriendly, ToneHumorous, ToneInspirational, ToneInformative, ToneCasual:
		return true
	}
	return false
}

func (p Platform) Valid() bool {
	switch p {
	case PlatformInstagram, PlatformTwitter, PlatformLinkedIn, PlatformFacebook:
		return true
	}
	return false
}

func (v VisualStyle) Valid() bool {
	switch v {
	case StyleRealistic, StyleArtistic, StyleMinimalist, StyleIllustrated, StyleCinematic:
		return true
	}
	return false
}
