package image

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"social-post-studio/internal/ai"
)

const replicateBaseURL = "https://api.replicate.com/v1"

type replicateInput struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	Seed           int64  `json:"seed,omitempty"`
}

type replicateCreateRequest struct {
	Version string         `json:"version"`
	Input   replicateInput `json:"input"`
}

type replicatePrediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  string          `json:"error"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

// ReplicateProvider creates a prediction and polls until it settles.
// Replicate returns hosted URLs, so no local storage is involved.
type ReplicateProvider struct {
	apiToken   string
	version    string
	httpClient *http.Client
}

func NewReplicateProvider(httpClient *http.Client, apiToken, version string) *ReplicateProvider {
	return &ReplicateProvider{
		apiToken:   apiToken,
		version:    version,
		httpClient: httpClient,
	}
}

func (rp *ReplicateProvider) Name() string { return "replicate" }

func (rp *ReplicateProvider) IsConfigured() bool {
	return rp.apiToken != "" && rp.version != ""
}

func (rp *ReplicateProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	prediction, err := rp.createPrediction(ctx, req)
	if err != nil {
		return "", err
	}

	// Poll until the prediction settles; cancellation is caller-driven.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		switch prediction.Status {
		case "succeeded":
			return firstOutputURL(prediction.Output)
		case "failed", "canceled":
			return "", &ai.ProviderError{Provider: rp.Name(), Err: fmt.Errorf("prediction %s: %s", prediction.Status, prediction.Error)}
		}

		select {
		case <-ctx.Done():
			return "", &ai.ProviderError{Provider: rp.Name(), Err: ctx.Err()}
		case <-ticker.C:
		}

		prediction, err = rp.getPrediction(ctx, prediction.URLs.Get)
		if err != nil {
			return "", err
		}
	}
}

func (rp *ReplicateProvider) createPrediction(ctx context.Context, req GenerateRequest) (*replicatePrediction, error) {
	body, err := json.Marshal(replicateCreateRequest{
		Version: rp.version,
		Input: replicateInput{
			Prompt:         req.Prompt,
			NegativePrompt: req.NegativePrompt,
			Seed:           req.Seed,
		},
	})
	if err != nil {
		return nil, &ai.ProviderError{Provider: rp.Name(), Err: fmt.Errorf("failed to marshal request: %v", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, replicateBaseURL+"/predictions", bytes.NewBuffer(body))
	if err != nil {
		return nil, &ai.ProviderError{Provider: rp.Name(), Err: fmt.Errorf("failed to create request: %v", err)}
	}
	return rp.doPredictionRequest(httpReq)
}

func (rp *ReplicateProvider) getPrediction(ctx context.Context, url string) (*replicatePrediction, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &ai.ProviderError{Provider: rp.Name(), Err: fmt.Errorf("failed to create request: %v", err)}
	}
	return rp.doPredictionRequest(httpReq)
}

func (rp *ReplicateProvider) doPredictionRequest(httpReq *http.Request) (*replicatePrediction, error) {
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Token "+rp.apiToken)

	resp, err := rp.httpClient.Do(httpReq)
	if err != nil {
		return nil, &ai.ProviderError{Provider: rp.Name(), Err: fmt.Errorf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &ai.ProviderError{
			Provider:   rp.Name(),
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("non-success status: %s", string(msg)),
		}
	}

	var prediction replicatePrediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, &ai.ProviderError{Provider: rp.Name(), Err: fmt.Errorf("failed to decode prediction: %v", err)}
	}
	return &prediction, nil
}

// firstOutputURL handles both output shapes Replicate models use: a plain
// string or an array of URLs.
func firstOutputURL(output json.RawMessage) (string, error) {
	if len(output) == 0 {
		return "", fmt.Errorf("prediction succeeded with empty output")
	}

	var single string
	if err := json.Unmarshal(output, &single); err == nil && single != "" {
		return single, nil
	}

	var list []string
	if err := json.Unmarshal(output, &list); err == nil && len(list) > 0 {
		return list[0], nil
	}

	return "", fmt.Errorf("unrecognized prediction output shape")
}
