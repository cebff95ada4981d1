package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"yt-coach-be/pkg/llm"
	"yt-coach-be/pkg/rag/prompt"
)

// Judge is a stateless LLM-backed binary classifier deciding whether the
// retrieved context suffices to answer a query. Single attempt, no retry;
// a failed call or non-conforming output propagates to the caller.
type Judge struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func New(llmProvider llm.LLMProvider, logger *log.Logger) *Judge {
	return &Judge{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

type verdict struct {
	Sufficient *bool `json:"sufficient"`
}

func (j *Judge) Judge(ctx context.Context, query, contextText string) (bool, error) {
	promptText := prompt.ContextAnalysis(query, contextText)

	response, err := j.llmProvider.Generate(ctx, promptText, llm.WithTemperature(0.0))
	if err != nil {
		return false, fmt.Errorf("sufficiency judge call: %w", err)
	}

	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return false, fmt.Errorf("sufficiency judge: no JSON found in response")
	}

	var v verdict
	if err := json.Unmarshal([]byte(jsonContent), &v); err != nil {
		return false, fmt.Errorf("sufficiency judge: malformed JSON: %w", err)
	}
	if v.Sufficient == nil {
		return false, fmt.Errorf("sufficiency judge: response missing 'sufficient' field")
	}

	j.logger.Printf("[JUDGE] sufficient=%v", *v.Sufficient)
	return *v.Sufficient, nil
}

// extractJSON pulls the outermost JSON object out of a model response that
// may wrap it in prose or code fences.
func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
