package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"social-post-studio/internal/logger"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int32         `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
	Delta   chatMessage `json:"delta"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// OpenAIProvider speaks the chat-completions wire format over plain HTTP. The
// http.Client is constructed once at process start and injected.
type OpenAIProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewOpenAIProvider(httpClient *http.Client, apiKey, baseURL, model string) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: httpClient,
	}
}

func (op *OpenAIProvider) Name() string { return "openai" }

func (op *OpenAIProvider) IsConfigured() bool {
	return op.apiKey != ""
}

func (op *OpenAIProvider) Generate(ctx context.Context, systemPrompt, userPrompt string, cfg GenerationConfig) (string, error) {
	tracer := otel.Tracer("openai-provider")
	ctx, span := tracer.Start(ctx, "openai.generate")
	defer span.End()
	span.SetAttributes(attribute.String("openai.model", op.model))

	resp, err := op.doRequest(ctx, systemPrompt, userPrompt, cfg, false)
	if err != nil {
		span.SetAttributes(attribute.Bool("openai.error", true))
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Provider: op.Name(), Err: fmt.Errorf("failed to read response: %v", err)}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", &ProviderError{Provider: op.Name(), Err: fmt.Errorf("failed to unmarshal response: %v", err)}
	}

	if chatResp.Error != nil {
		return "", &ProviderError{Provider: op.Name(), StatusCode: resp.StatusCode, Err: fmt.Errorf("API error: %s", chatResp.Error.Message)}
	}

	if len(chatResp.Choices) == 0 {
		return "", &ProviderError{Provider: op.Name(), Err: fmt.Errorf("no choices in response")}
	}

	span.SetAttributes(attribute.Bool("openai.success", true))
	return chatResp.Choices[0].Message.Content, nil
}

func (op *OpenAIProvider) GenerateStream(ctx context.Context, systemPrompt, userPrompt string, cfg GenerationConfig) (<-chan string, error) {
	resp, err := op.doRequest(ctx, systemPrompt, userPrompt, cfg, true)
	if err != nil {
		return nil, err
	}

	ch := make(chan string)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if payload == "[DONE]" {
				return
			}
			var chunk chatResponse
			if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
				continue
			}
			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				continue
			}
			select {
			case ch <- chunk.Choices[0].Delta.Content:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Warn("OpenAI stream interrupted", "error", err)
		}
	}()

	return ch, nil
}

func (op *OpenAIProvider) doRequest(ctx context.Context, systemPrompt, userPrompt string, cfg GenerationConfig, stream bool) (*http.Response, error) {
	messages := make([]chatMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userPrompt})

	reqBody := chatRequest{
		Model:       op.model,
		Messages:    messages,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxOutputTokens,
		Stream:      stream,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ProviderError{Provider: op.Name(), Err: fmt.Errorf("failed to marshal request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, op.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, &ProviderError{Provider: op.Name(), Err: fmt.Errorf("failed to create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+op.apiKey)

	resp, err := op.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: op.Name(), Err: fmt.Errorf("request failed: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &ProviderError{
			Provider:   op.Name(),
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("non-success status: %s", strings.TrimSpace(string(body))),
		}
	}

	return resp, nil
}
