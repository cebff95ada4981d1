package rag

import (
	"context"
	"fmt"
	"log"
	"strings"

	"yt-coach-be/pkg/llm"
	"yt-coach-be/pkg/rag/memory"
)

// Pipeline drives one query through the fixed linear workflow
// retrieve -> analyze sufficiency -> web search -> generate answer.
// There are no cycles and no retries; each stage is a transform on *State.
type Pipeline struct {
	retriever Retriever
	searcher  WebSearcher
	judge     SufficiencyJudge
	generator AnswerGenerator
	logger    *log.Logger
}

func NewPipeline(
	retriever Retriever,
	searcher WebSearcher,
	judge SufficiencyJudge,
	generator AnswerGenerator,
	logger *log.Logger,
) *Pipeline {
	return &Pipeline{
		retriever: retriever,
		searcher:  searcher,
		judge:     judge,
		generator: generator,
		logger:    logger,
	}
}

type stage func(ctx context.Context, s *State) error

// Run executes the workflow to completion and never returns an error to the
// caller: any stage failure is converted at this boundary into a well-formed
// Response with Source = "error" and Confidence = 0.
func (p *Pipeline) Run(ctx context.Context, query string, history []memory.Turn) *Response {
	state := &State{
		Query:   query,
		History: history,
	}

	stages := []stage{
		p.retrieveContext,
		p.analyzeContext,
		p.performWebSearch,
		p.generateAnswer,
	}

	for _, s := range stages {
		if err := s(ctx, state); err != nil {
			p.logger.Printf("[PIPELINE] Run failed: %v", err)
			return &Response{
				Answer:     fmt.Sprintf("I encountered an error processing your request: %s", err),
				Source:     SourceError,
				Confidence: 0.0,
			}
		}
	}

	return state.Result
}

// retrieveContext fills State.Retrieved from the transcript index. An empty
// result set is stored as-is; it is a valid outcome, not a failure.
func (p *Pipeline) retrieveContext(ctx context.Context, s *State) error {
	passages, err := p.retriever.Retrieve(ctx, s.Query)
	if err != nil {
		return fmt.Errorf("retrieve context: %w", err)
	}
	s.Retrieved = passages
	p.logger.Printf("[PIPELINE] Retrieved %d passages", len(passages))
	return nil
}

// analyzeContext asks the judge whether the retrieved passages suffice.
// When nothing was retrieved the judge call is skipped entirely; the outcome
// is already known to need escalation.
func (p *Pipeline) analyzeContext(ctx context.Context, s *State) error {
	if len(s.Retrieved) == 0 {
		s.NeedsWebSearch = true
		p.logger.Printf("[PIPELINE] No local passages, escalating to web search")
		return nil
	}

	sufficient, err := p.judge.Judge(ctx, s.Query, joinPassages(s.Retrieved))
	if err != nil {
		return fmt.Errorf("analyze context: %w", err)
	}

	s.NeedsWebSearch = !sufficient
	p.logger.Printf("[PIPELINE] Context sufficient: %v", sufficient)
	return nil
}

// performWebSearch runs as a stage unconditionally but is a no-op unless the
// analyze stage flagged escalation.
func (p *Pipeline) performWebSearch(ctx context.Context, s *State) error {
	if !s.NeedsWebSearch {
		return nil
	}

	results, err := p.searcher.Search(ctx, s.Query)
	if err != nil {
		return fmt.Errorf("web search: %w", err)
	}
	s.WebResults = results
	p.logger.Printf("[PIPELINE] Web search returned %d snippets", len(results))
	return nil
}

// generateAnswer assembles the passage set, derives the source label and
// invokes the generator. With no usable passages at all it short-circuits to
// the fixed "no information" response without a model call.
func (p *Pipeline) generateAnswer(ctx context.Context, s *State) error {
	documents := make([]Passage, 0, len(s.Retrieved)+len(s.WebResults))
	documents = append(documents, s.Retrieved...)

	sourceType := SourceVectorDB
	videoURL := ""
	webpageURL := ""

	if len(s.Retrieved) > 0 {
		videoURL = s.Retrieved[0].SourceURL
	}

	if s.NeedsWebSearch && len(s.WebResults) > 0 {
		documents = append(documents, s.WebResults...)
		if len(s.Retrieved) == 0 {
			sourceType = SourceWebSearch
		} else {
			sourceType = SourceVectorDBAndWeb
		}
		webpageURL = extractSnippetLink(s.WebResults[0].Text)
	}

	if len(documents) == 0 {
		s.Result = &Response{
			Answer:     NoInformationAnswer,
			Source:     SourceNone,
			Confidence: 0.0,
		}
		return nil
	}

	sourceInfo := deriveSourceInfo(sourceType, videoURL, webpageURL)

	result, err := p.generator.Generate(ctx, s.Query, joinPassages(documents), buildChatHistory(s.History), sourceInfo)
	if err != nil {
		return fmt.Errorf("generate answer: %w", err)
	}

	s.Result = result
	return nil
}

// deriveSourceInfo turns the source type and the extracted attribution
// details into the human-readable label handed to the generator.
func deriveSourceInfo(sourceType, videoURL, webpageURL string) string {
	if videoURL != "" && strings.HasPrefix(sourceType, SourceVectorDB) {
		return fmt.Sprintf("YouTube Video: %s", videoURL)
	}
	if webpageURL != "" && strings.Contains(sourceType, SourceWebSearch) {
		return fmt.Sprintf("Web Search: %s", webpageURL)
	}
	return sourceType
}

// extractSnippetLink pulls the URL embedded after a "link:" marker out of a
// raw search snippet, up to the next comma or end-of-string. This is the
// documented snippet format of the search tool, not a heuristic.
func extractSnippetLink(snippet string) string {
	idx := strings.Index(snippet, "link:")
	if idx == -1 {
		return ""
	}

	rest := snippet[idx+len("link:"):]
	if comma := strings.Index(rest, ","); comma != -1 {
		rest = rest[:comma]
	}
	return strings.TrimSpace(rest)
}

// buildChatHistory maps stored turns onto provider messages. Human turns
// become user messages, ai turns become assistant messages; anything else is
// skipped silently.
func buildChatHistory(turns []memory.Turn) []llm.Message {
	messages := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case memory.RoleHuman:
			messages = append(messages, llm.Message{Role: "user", Content: t.Content})
		case memory.RoleAI:
			messages = append(messages, llm.Message{Role: "assistant", Content: t.Content})
		}
	}
	return messages
}

// joinPassages concatenates passage texts with a blank-line separator in
// collection order.
func joinPassages(passages []Passage) string {
	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	return strings.Join(texts, "\n\n")
}
