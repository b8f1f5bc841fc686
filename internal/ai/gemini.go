package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"

	genai "github.com/google/generative-ai-go/genai"

	"social-post-studio/internal/logger"
)

// GeminiProvider adapts the Gemini SDK to the TextProvider interface. The
// genai client is constructed once at process start and injected.
type GeminiProvider struct {
	apiKey      string
	model       string
	client      *genai.Client
	breaker     *gobreaker.CircuitBreaker
	rateLimiter *rate.Limiter
}

func NewGeminiProvider(client *genai.Client, apiKey, model string) *GeminiProvider {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "GeminiAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	// Free tier RPM with some headroom
	rateLimiter := rate.NewLimiter(rate.Limit(10*0.9/60.0), 2)

	return &GeminiProvider{
		apiKey:      apiKey,
		model:       model,
		client:      client,
		breaker:     breaker,
		rateLimiter: rateLimiter,
	}
}

func (gp *GeminiProvider) Name() string { return "gemini" }

func (gp *GeminiProvider) IsConfigured() bool {
	return gp.apiKey != "" && gp.client != nil
}

func (gp *GeminiProvider) Generate(ctx context.Context, systemPrompt, userPrompt string, cfg GenerationConfig) (string, error) {
	tracer := otel.Tracer("gemini-provider")
	ctx, span := tracer.Start(ctx, "gemini.generate")
	defer span.End()

	span.SetAttributes(
		attribute.String("gemini.model", gp.model),
		attribute.Int("gemini.prompt_chars", len(systemPrompt)+len(userPrompt)),
	)

	if err := gp.rateLimiter.Wait(ctx); err != nil {
		span.SetAttributes(attribute.Bool("gemini.rate_limited", true))
		return "", &ProviderError{Provider: gp.Name(), Err: err}
	}

	result, err := gp.breaker.Execute(func() (interface{}, error) {
		model := gp.newModel(systemPrompt, cfg)
		resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
		if err != nil {
			return nil, err
		}
		if resp.UsageMetadata != nil {
			span.SetAttributes(attribute.Int("gemini.total_tokens", int(resp.UsageMetadata.TotalTokenCount)))
		}
		return extractResponseText(resp), nil
	})

	if err != nil {
		span.SetAttributes(attribute.Bool("gemini.error", true))
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return "", &ProviderError{Provider: gp.Name(), StatusCode: 429, Err: err}
		}
		return "", gp.wrapError(err)
	}

	span.SetAttributes(attribute.Bool("gemini.success", true))
	return result.(string), nil
}

func (gp *GeminiProvider) GenerateStream(ctx context.Context, systemPrompt, userPrompt string, cfg GenerationConfig) (<-chan string, error) {
	if err := gp.rateLimiter.Wait(ctx); err != nil {
		return nil, &ProviderError{Provider: gp.Name(), Err: err}
	}

	model := gp.newModel(systemPrompt, cfg)
	iter := model.GenerateContentStream(ctx, genai.Text(userPrompt))

	ch := make(chan string)
	go func() {
		defer close(ch)
		for {
			resp, err := iter.Next()
			if err == iterator.Done {
				return
			}
			if err != nil {
				logger.Warn("Gemini stream interrupted", "error", err)
				return
			}
			chunk := extractResponseText(resp)
			if chunk == "" {
				continue
			}
			select {
			case ch <- chunk:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

func (gp *GeminiProvider) newModel(systemPrompt string, cfg GenerationConfig) *genai.GenerativeModel {
	model := gp.client.GenerativeModel(gp.model)
	model.SetTemperature(cfg.Temperature)
	model.SetMaxOutputTokens(cfg.MaxOutputTokens)
	if systemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}
	return model
}

func (gp *GeminiProvider) wrapError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &ProviderError{Provider: gp.Name(), StatusCode: gerr.Code, Err: err}
	}
	return &ProviderError{Provider: gp.Name(), Err: err}
}

// extractResponseText flattens candidate parts into one string
func extractResponseText(resp *genai.GenerateContentResponse) string {
	var result strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					result.WriteString(string(text))
				}
			}
		}
	}
	return result.String()
}
