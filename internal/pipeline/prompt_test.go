package pipeline

import (
	"strings"
	"testing"
)

func TestBuildPostPromptEmbedsClauses(t *testing.T) {
	tones := []Tone{ToneProfessional, ToneFriendly, ToneHumorous, ToneInspirational, ToneInformative, ToneCasual}
	platforms := []Platform{PlatformInstagram, PlatformTwitter, PlatformLinkedIn, PlatformFacebook}

	for _, tone := range tones {
		for _, platform := range platforms {
			req := PostRequest{Topic: "sustainable coffee roasting", Tone: tone, Platform: platform, MaxLength: 280}
			prompt := BuildPostPrompt(req)

			if !strings.Contains(prompt, "sustainable coffee roasting") {
				t.Errorf("%s/%s: topic missing from prompt", tone, platform)
			}
			if !strings.Contains(prompt, ToneGuidance(tone)) {
				t.Errorf("%s/%s: tone clause missing", tone, platform)
			}
			if !strings.Contains(prompt, PlatformInstruction(platform)) {
				t.Errorf("%s/%s: platform clause missing", tone, platform)
			}
		}
	}
}

func TestBuildPostPromptProfessionalTone(t *testing.T) {
	req := PostRequest{Topic: "Q3 earnings", Tone: ToneProfessional, Platform: PlatformLinkedIn, MaxLength: 3000}
	prompt := BuildPostPrompt(req)
	if !strings.Contains(prompt, "Authoritative, knowledgeable") {
		t.Fatalf("professional tone clause not embedded:\n%s", prompt)
	}
}

func TestBuildPostPromptBrandGuidelines(t *testing.T) {
	req := PostRequest{Topic: "launch day", Tone: ToneFriendly, Platform: PlatformInstagram, MaxLength: 2200}
	without := BuildPostPrompt(req)
	if strings.Contains(without, "Brand guidelines") {
		t.Fatal("brand guidelines section should be omitted when empty")
	}

	req.BrandGuidelines = "always mention our mascot Otto"
	with := BuildPostPrompt(req)
	if !strings.Contains(with, "always mention our mascot Otto") {
		t.Fatal("brand guidelines not embedded")
	}
}

func TestBuildPostPromptRequestsJSONShape(t *testing.T) {
	prompt := BuildPostPrompt(PostRequest{Topic: "x", Tone: ToneCasual, Platform: PlatformTwitter, MaxLength: 280})
	for _, field := range []string{"mainContent", "caption", "hashtags", "visualPrompt"} {
		if !strings.Contains(prompt, field) {
			t.Errorf("JSON shape instruction missing field %q", field)
		}
	}
}

func TestUnknownToneAndPlatformFallBack(t *testing.T) {
	if ToneGuidance("sardonic") != ToneGuidance(ToneFriendly) {
		t.Error("unknown tone should fall back to friendly guidance")
	}
	if PlatformInstruction("myspace") != PlatformInstruction(PlatformInstagram) {
		t.Error("unknown platform should fall back to instagram instruction")
	}
}

func TestEnhanceImagePrompt(t *testing.T) {
	prompt, negative := EnhanceImagePrompt("a barista pouring latte art", StyleCinematic)
	if !strings.HasPrefix(prompt, "a barista pouring latte art, ") {
		t.Errorf("style suffix should append after the prompt, got %q", prompt)
	}
	if !strings.Contains(prompt, "cinematic lighting") {
		t.Errorf("cinematic suffix missing: %q", prompt)
	}
	if !strings.Contains(negative, "cartoon") {
		t.Errorf("cinematic negative prompt should exclude cartoon styles: %q", negative)
	}

	prompt, _ = EnhanceImagePrompt("", StyleMinimalist)
	if !strings.Contains(prompt, "negative space") {
		t.Errorf("empty visual prompt should still yield a usable style prompt, got %q", prompt)
	}

	prompt, _ = EnhanceImagePrompt("a skyline", "vaporwave")
	if !strings.Contains(prompt, styleSuffixes[StyleRealistic]) {
		t.Errorf("unknown style should fall back to realistic, got %q", prompt)
	}
}
