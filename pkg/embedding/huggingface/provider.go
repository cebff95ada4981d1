package huggingface

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"yt-coach-be/pkg/embedding"
)

// HuggingFaceProvider embeds text with the HF serverless inference API.
// Default model is BAAI/bge-m3 (1024 dimensions), the model the transcript
// index was built with.
type HuggingFaceProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type featureExtractionRequest struct {
	Inputs []string `json:"inputs"`
}

func NewHuggingFaceProvider(apiKey, model string) embedding.EmbeddingProvider {
	if model == "" {
		model = "BAAI/bge-m3"
	}
	return &HuggingFaceProvider{
		apiKey:  apiKey,
		baseURL: "https://router.huggingface.co/hf-inference/models",
		model:   model,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (p *HuggingFaceProvider) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	// TaskType is ignored; bge-m3 uses the same encoder for queries and documents

	reqBody := featureExtractionRequest{
		Inputs: []string{text},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/pipeline/feature-extraction", p.baseURL, p.model)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.apiKey))

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("huggingface inference error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	// The feature-extraction pipeline returns one vector per input
	var vectors [][]float32
	if err := json.Unmarshal(bodyBytes, &vectors); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("empty embedding from huggingface inference")
	}

	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{
			Values: vectors[0],
		},
	}, nil
}
