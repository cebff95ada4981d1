package answer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"yt-coach-be/pkg/llm"
	"yt-coach-be/pkg/rag"
	"yt-coach-be/pkg/rag/prompt"
)

// Generator is a stateless LLM-backed answer generator. The model is asked
// for strict JSON matching the Response shape; anything else is an error,
// never silently coerced. Single attempt only.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func New(llmProvider llm.LLMProvider, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// raw mirrors rag.Response with pointer fields so missing keys are
// distinguishable from zero values.
type raw struct {
	Answer     *string  `json:"answer"`
	Source     *string  `json:"source"`
	Confidence *float64 `json:"confidence"`
}

func (g *Generator) Generate(
	ctx context.Context,
	query, contextText string,
	history []llm.Message,
	sourceInfo string,
) (*rag.Response, error) {
	promptText := prompt.AnswerGeneration(query, contextText, renderHistory(history), sourceInfo)

	response, err := g.llmProvider.Generate(ctx, promptText)
	if err != nil {
		return nil, fmt.Errorf("answer generation call: %w", err)
	}

	result, err := parseResponse(response)
	if err != nil {
		return nil, err
	}

	g.logger.Printf("[GENERATION] source=%q confidence=%.2f", result.Source, result.Confidence)
	return result, nil
}

func parseResponse(response string) (*rag.Response, error) {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return nil, fmt.Errorf("answer generation: no JSON found in response")
	}

	var r raw
	if err := json.Unmarshal([]byte(jsonContent), &r); err != nil {
		return nil, fmt.Errorf("answer generation: malformed JSON: %w", err)
	}
	if r.Answer == nil || r.Source == nil || r.Confidence == nil {
		return nil, fmt.Errorf("answer generation: response missing required fields")
	}
	if *r.Confidence < 0 || *r.Confidence > 1 {
		return nil, fmt.Errorf("answer generation: confidence %.3f outside [0,1]", *r.Confidence)
	}

	return &rag.Response{
		Answer:     *r.Answer,
		Source:     *r.Source,
		Confidence: *r.Confidence,
	}, nil
}

// renderHistory flattens chat messages for the prompt template. An empty
// history becomes a fixed placeholder.
func renderHistory(history []llm.Message) string {
	if len(history) == 0 {
		return "No previous conversation."
	}

	var b strings.Builder
	for _, msg := range history {
		b.WriteString(fmt.Sprintf("%s: %s\n", msg.Role, msg.Content))
	}
	return strings.TrimRight(b.String(), "\n")
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
