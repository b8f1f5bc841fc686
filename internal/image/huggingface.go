package image

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"social-post-studio/internal/ai"
)

type hfParameters struct {
	NegativePrompt string `json:"negative_prompt,omitempty"`
	Seed           int64  `json:"seed,omitempty"`
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

// HuggingFaceProvider calls the Hugging Face inference API, which responds
// with raw image bytes. With a Storage the image is persisted under the
// uploads dir; without one it is returned as an inline data URI.
type HuggingFaceProvider struct {
	apiKey     string
	model      string
	httpClient *http.Client
	storage    *Storage
}

func NewHuggingFaceProvider(httpClient *http.Client, apiKey, model string, storage *Storage) *HuggingFaceProvider {
	return &HuggingFaceProvider{
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
		storage:    storage,
	}
}

func (hp *HuggingFaceProvider) Name() string { return "huggingface" }

func (hp *HuggingFaceProvider) IsConfigured() bool {
	return hp.apiKey != ""
}

func (hp *HuggingFaceProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	body, err := json.Marshal(hfRequest{
		Inputs: req.Prompt,
		Parameters: hfParameters{
			NegativePrompt: req.NegativePrompt,
			Seed:           req.Seed,
		},
	})
	if err != nil {
		return "", &ai.ProviderError{Provider: hp.Name(), Err: fmt.Errorf("failed to marshal request: %v", err)}
	}

	url := "https://api-inference.huggingface.co/models/" + hp.model
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", &ai.ProviderError{Provider: hp.Name(), Err: fmt.Errorf("failed to create request: %v", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+hp.apiKey)

	resp, err := hp.httpClient.Do(httpReq)
	if err != nil {
		return "", &ai.ProviderError{Provider: hp.Name(), Err: fmt.Errorf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &ai.ProviderError{
			Provider:   hp.Name(),
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("non-success status: %s", string(msg)),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ai.ProviderError{Provider: hp.Name(), Err: fmt.Errorf("failed to read image bytes: %v", err)}
	}

	contentType := resp.Header.Get("Content-Type")
	if hp.storage != nil {
		return hp.storage.Save(data, contentType)
	}
	return DataURI(data, contentType), nil
}
