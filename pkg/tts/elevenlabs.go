package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ElevenLabsClient turns answer text into speech audio (mp3) via the
// ElevenLabs text-to-speech API.
type ElevenLabsClient struct {
	apiKey  string
	baseURL string
	voiceId string
	modelId string
	client  *http.Client
}

type synthesizeRequest struct {
	Text    string `json:"text"`
	ModelId string `json:"model_id"`
}

func NewElevenLabsClient(apiKey, voiceId, modelId string) *ElevenLabsClient {
	if voiceId == "" {
		voiceId = "JBFqnCBsd6RMkjVDRZzb"
	}
	if modelId == "" {
		modelId = "eleven_multilingual_v2"
	}
	return &ElevenLabsClient{
		apiKey:  apiKey,
		baseURL: "https://api.elevenlabs.io/v1",
		voiceId: voiceId,
		modelId: modelId,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Synthesize returns the raw mp3 bytes for the given text.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	reqBody := synthesizeRequest{
		Text:    text,
		ModelId: c.modelId,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, c.voiceId)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("elevenlabs error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	return bodyBytes, nil
}
