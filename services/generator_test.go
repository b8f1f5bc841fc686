package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-post-studio/internal/ai"
	"social-post-studio/internal/image"
	"social-post-studio/internal/pipeline"
)

// fakeProvider is a canned text provider for pipeline tests.
type fakeProvider struct {
	name       string
	configured bool
	response   string
	err        error

	lastSystem string
	lastUser   string
	calls      int
}

func (f *fakeProvider) Name() string       { return f.name }
func (f *fakeProvider) IsConfigured() bool { return f.configured }

func (f *fakeProvider) Generate(ctx context.Context, system, user string, cfg ai.GenerationConfig) (string, error) {
	f.calls++
	f.lastSystem = system
	f.lastUser = user
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeProvider) GenerateStream(ctx context.Context, system, user string, cfg ai.GenerationConfig) (<-chan string, error) {
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan string, 1)
	ch <- f.response
	close(ch)
	return ch, nil
}

type fakeImageProvider struct {
	configured bool
	url        string
	err        error
	lastReq    image.GenerateRequest
}

func (f *fakeImageProvider) Name() string       { return "fake-image" }
func (f *fakeImageProvider) IsConfigured() bool { return f.configured }

func (f *fakeImageProvider) Generate(ctx context.Context, req image.GenerateRequest) (string, error) {
	f.lastReq = req
	return f.url, f.err
}

var testGenConfig = ai.GenerationConfig{Temperature: 0.7, MaxOutputTokens: 2048}

const validResponse = `{
  "mainContent": "Fresh beans just landed at the roastery.",
  "caption": "New arrivals",
  "hashtags": ["coffee", "roastery"],
  "visualPrompt": "a burlap sack of coffee beans on a wooden counter"
}`

func TestGeneratePostHappyPath(t *testing.T) {
	text := &fakeProvider{name: "fake", configured: true, response: validResponse}
	img := &fakeImageProvider{configured: true, url: "/uploads/abc.png"}
	svc := NewGeneratorService([]ai.TextProvider{text}, []image.Provider{img}, nil, testGenConfig)

	out, err := svc.GeneratePost(context.Background(), GenerateParams{
		PostRequest: pipeline.PostRequest{
			Topic:    "new coffee arrivals",
			Tone:     pipeline.ToneFriendly,
			Platform: pipeline.PlatformInstagram,
		},
		GenerateImage: true,
	})
	require.NoError(t, err)

	assert.Contains(t, out.MainContent, "Fresh beans just landed at the roastery.")
	assert.Contains(t, out.MainContent, "\n\n#coffee #roastery", "instagram hashtag block")
	assert.Equal(t, "New arrivals", out.Caption)
	assert.Equal(t, "/uploads/abc.png", out.ImageURL)
	assert.Contains(t, img.lastReq.Prompt, "burlap sack", "image prompt derived from visualPrompt")
	assert.Contains(t, img.lastReq.Prompt, "photorealistic", "default realistic style suffix applied")
	assert.Contains(t, text.lastUser, "new coffee arrivals")
	assert.Equal(t, pipeline.SystemPrompt(), text.lastSystem)
}

func TestGeneratePostMalformedResponse(t *testing.T) {
	text := &fakeProvider{name: "fake", configured: true, response: "I'm sorry, I can't produce JSON today."}
	svc := NewGeneratorService([]ai.TextProvider{text}, nil, nil, testGenConfig)

	out, err := svc.GeneratePost(context.Background(), GenerateParams{
		PostRequest: pipeline.PostRequest{Topic: "anything"},
	})
	assert.Nil(t, out)

	var parseErr *ai.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Raw, "I'm sorry")
}

func TestGeneratePostEmptyTopic(t *testing.T) {
	svc := NewGeneratorService(nil, nil, nil, testGenConfig)

	_, err := svc.GeneratePost(context.Background(), GenerateParams{
		PostRequest: pipeline.PostRequest{Topic: "   "},
	})
	var valErr *ai.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "topic", valErr.Field)
}

func TestGeneratePostProviderFallbackOrder(t *testing.T) {
	unconfigured := &fakeProvider{name: "first", configured: false, response: validResponse}
	configured := &fakeProvider{name: "second", configured: true, response: validResponse}
	svc := NewGeneratorService([]ai.TextProvider{unconfigured, configured}, nil, nil, testGenConfig)

	_, err := svc.GeneratePost(context.Background(), GenerateParams{
		PostRequest: pipeline.PostRequest{Topic: "fallback"},
	})
	require.NoError(t, err)
	assert.Zero(t, unconfigured.calls, "unconfigured provider must be skipped")
	assert.Equal(t, 1, configured.calls)
}

func TestGeneratePostNoProviderConfigured(t *testing.T) {
	svc := NewGeneratorService([]ai.TextProvider{&fakeProvider{configured: false}}, nil, nil, testGenConfig)

	_, err := svc.GeneratePost(context.Background(), GenerateParams{
		PostRequest: pipeline.PostRequest{Topic: "no providers"},
	})
	var cfgErr *ai.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestGeneratePostProviderErrorPropagates(t *testing.T) {
	provErr := &ai.ProviderError{Provider: "fake", StatusCode: 429, Err: errors.New("quota exceeded")}
	text := &fakeProvider{name: "fake", configured: true, err: provErr}
	svc := NewGeneratorService([]ai.TextProvider{text}, nil, nil, testGenConfig)

	_, err := svc.GeneratePost(context.Background(), GenerateParams{
		PostRequest: pipeline.PostRequest{Topic: "rate limited"},
	})
	var got *ai.ProviderError
	require.ErrorAs(t, err, &got)
	assert.True(t, got.RateLimited())
}

func TestGeneratePostImageFailureDegrades(t *testing.T) {
	text := &fakeProvider{name: "fake", configured: true, response: validResponse}
	img := &fakeImageProvider{configured: true, err: errors.New("gpu on fire")}
	svc := NewGeneratorService([]ai.TextProvider{text}, []image.Provider{img}, nil, testGenConfig)

	out, err := svc.GeneratePost(context.Background(), GenerateParams{
		PostRequest:   pipeline.PostRequest{Topic: "resilience"},
		GenerateImage: true,
	})
	require.NoError(t, err, "image failure must not fail the post")
	assert.Empty(t, out.ImageURL)
	assert.NotEmpty(t, out.MainContent)
}

func TestGeneratePostSkipsImageWhenDisabled(t *testing.T) {
	text := &fakeProvider{name: "fake", configured: true, response: validResponse}
	img := &fakeImageProvider{configured: true, url: "/uploads/x.png"}
	svc := NewGeneratorService([]ai.TextProvider{text}, []image.Provider{img}, nil, testGenConfig)

	out, err := svc.GeneratePost(context.Background(), GenerateParams{
		PostRequest:   pipeline.PostRequest{Topic: "text only"},
		GenerateImage: false,
	})
	require.NoError(t, err)
	assert.Empty(t, out.ImageURL)
	assert.Empty(t, img.lastReq.Prompt, "image provider must not be called")
}

func TestGeneratePostTwitterTruncation(t *testing.T) {
	long := strings.Repeat("a very long sentence about distributed systems ", 30)
	response := `{"mainContent": "` + long + `", "caption": "c", "hashtags": ["golang"], "visualPrompt": ""}`
	text := &fakeProvider{name: "fake", configured: true, response: response}
	svc := NewGeneratorService([]ai.TextProvider{text}, nil, nil, testGenConfig)

	out, err := svc.GeneratePost(context.Background(), GenerateParams{
		PostRequest: pipeline.PostRequest{Topic: "limits", Platform: pipeline.PlatformTwitter},
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(out.MainContent)), 280)
	assert.Contains(t, out.MainContent, "#golang", "hashtags survive truncation")
}

func TestGeneratePostStream(t *testing.T) {
	text := &fakeProvider{name: "fake", configured: true, response: "chunk"}
	svc := NewGeneratorService([]ai.TextProvider{text}, nil, nil, testGenConfig)

	ch, err := svc.GeneratePostStream(context.Background(), GenerateParams{
		PostRequest: pipeline.PostRequest{Topic: "stream me"},
	})
	require.NoError(t, err)

	var got []string
	for chunk := range ch {
		got = append(got, chunk)
	}
	assert.Equal(t, []string{"chunk"}, got)
}

func TestGenerateImageStandalone(t *testing.T) {
	img := &fakeImageProvider{configured: true, url: "data:image/png;base64,xyz"}
	svc := NewGeneratorService(nil, []image.Provider{img}, nil, testGenConfig)

	url, err := svc.GenerateImage(context.Background(), "a lighthouse at dusk", pipeline.StyleCinematic)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,xyz", url)
	assert.Contains(t, img.lastReq.Prompt, "cinematic lighting")
	assert.Contains(t, img.lastReq.NegativePrompt, "watermark")
}

func TestGenerateImageNoProvider(t *testing.T) {
	svc := NewGeneratorService(nil, []image.Provider{&fakeImageProvider{configured: false}}, nil, testGenConfig)

	_, err := svc.GenerateImage(context.Background(), "anything", pipeline.StyleRealistic)
	var cfgErr *ai.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestGenerateImageEmptyPrompt(t *testing.T) {
	svc := NewGeneratorService(nil, nil, nil, testGenConfig)

	_, err := svc.GenerateImage(context.Background(), "  ", pipeline.StyleRealistic)
	var valErr *ai.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "visual_prompt", valErr.Field)
}
