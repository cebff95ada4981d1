package rag

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"yt-coach-be/pkg/llm"
	"yt-coach-be/pkg/rag/memory"
)

type fakeRetriever struct {
	passages []Passage
	err      error
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string) ([]Passage, error) {
	return f.passages, f.err
}

type fakeSearcher struct {
	passages []Passage
	err      error
	called   bool
}

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]Passage, error) {
	f.called = true
	return f.passages, f.err
}

type fakeJudge struct {
	sufficient bool
	err        error
	called     bool
}

func (f *fakeJudge) Judge(ctx context.Context, query, contextText string) (bool, error) {
	f.called = true
	return f.sufficient, f.err
}

type fakeGenerator struct {
	response   *Response
	err        error
	called     bool
	sourceInfo string
	context    string
	history    []llm.Message
}

func (f *fakeGenerator) Generate(ctx context.Context, query, contextText string, history []llm.Message, sourceInfo string) (*Response, error) {
	f.called = true
	f.sourceInfo = sourceInfo
	f.context = contextText
	f.history = history
	return f.response, f.err
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestRunSufficientContextSkipsWebSearch(t *testing.T) {
	searcher := &fakeSearcher{}
	generator := &fakeGenerator{response: &Response{Answer: "a", Source: SourceVectorDB, Confidence: 0.9}}

	p := NewPipeline(
		&fakeRetriever{passages: []Passage{{Text: "passage", SourceURL: "u1"}}},
		searcher,
		&fakeJudge{sufficient: true},
		generator,
		discardLogger(),
	)

	res := p.Run(context.Background(), "q", nil)

	if searcher.called {
		t.Error("web search ran despite sufficient context")
	}
	if res.Source != SourceVectorDB {
		t.Errorf("Source = %q, want %q", res.Source, SourceVectorDB)
	}
	if generator.sourceInfo != "YouTube Video: u1" {
		t.Errorf("sourceInfo = %q, want %q", generator.sourceInfo, "YouTube Video: u1")
	}
}

func TestRunEmptyRetrievalSkipsJudge(t *testing.T) {
	judge := &fakeJudge{}
	searcher := &fakeSearcher{passages: []Passage{{Text: "snippet, link: http://x.com"}}}
	generator := &fakeGenerator{response: &Response{Answer: "a", Source: SourceWebSearch, Confidence: 0.5}}

	p := NewPipeline(&fakeRetriever{}, searcher, judge, generator, discardLogger())

	res := p.Run(context.Background(), "q", nil)

	if judge.called {
		t.Error("judge ran despite empty retrieval")
	}
	if !searcher.called {
		t.Error("web search did not run for empty retrieval")
	}
	if generator.sourceInfo != "Web Search: http://x.com" {
		t.Errorf("sourceInfo = %q, want %q", generator.sourceInfo, "Web Search: http://x.com")
	}
	if res.Source != SourceWebSearch {
		t.Errorf("Source = %q, want %q", res.Source, SourceWebSearch)
	}
}

func TestRunBothSourcesEmptyShortCircuits(t *testing.T) {
	generator := &fakeGenerator{}

	p := NewPipeline(&fakeRetriever{}, &fakeSearcher{}, &fakeJudge{}, generator, discardLogger())

	res := p.Run(context.Background(), "q", nil)

	if generator.called {
		t.Error("generator ran despite no passages at all")
	}
	if res.Answer != NoInformationAnswer {
		t.Errorf("Answer = %q, want fixed no-information answer", res.Answer)
	}
	if res.Source != SourceNone {
		t.Errorf("Source = %q, want %q", res.Source, SourceNone)
	}
	if res.Confidence != 0.0 {
		t.Errorf("Confidence = %v, want 0.0", res.Confidence)
	}
}

func TestRunInsufficientContextCombinesSources(t *testing.T) {
	generator := &fakeGenerator{response: &Response{Answer: "a", Source: SourceVectorDBAndWeb, Confidence: 0.7}}

	p := NewPipeline(
		&fakeRetriever{passages: []Passage{{Text: "local", SourceURL: "u1"}}},
		&fakeSearcher{passages: []Passage{{Text: "web snippet, link: http://y.org"}}},
		&fakeJudge{sufficient: false},
		generator,
		discardLogger(),
	)

	res := p.Run(context.Background(), "q", nil)

	// Video attribution wins when local passages contributed.
	if generator.sourceInfo != "YouTube Video: u1" {
		t.Errorf("sourceInfo = %q, want %q", generator.sourceInfo, "YouTube Video: u1")
	}
	if !strings.Contains(generator.context, "local") || !strings.Contains(generator.context, "web snippet") {
		t.Errorf("context %q missing a passage source", generator.context)
	}
	if res.Source != SourceVectorDBAndWeb {
		t.Errorf("Source = %q, want %q", res.Source, SourceVectorDBAndWeb)
	}
}

func TestRunStageErrorBecomesErrorResponse(t *testing.T) {
	tests := []struct {
		name      string
		retriever Retriever
		judge     SufficiencyJudge
		searcher  WebSearcher
		generator AnswerGenerator
	}{
		{
			name:      "retriever failure",
			retriever: &fakeRetriever{err: errors.New("db down")},
			judge:     &fakeJudge{},
			searcher:  &fakeSearcher{},
			generator: &fakeGenerator{},
		},
		{
			name:      "judge failure",
			retriever: &fakeRetriever{passages: []Passage{{Text: "p"}}},
			judge:     &fakeJudge{err: context.DeadlineExceeded},
			searcher:  &fakeSearcher{},
			generator: &fakeGenerator{},
		},
		{
			name:      "search failure",
			retriever: &fakeRetriever{},
			judge:     &fakeJudge{},
			searcher:  &fakeSearcher{err: errors.New("network")},
			generator: &fakeGenerator{},
		},
		{
			name:      "generator failure",
			retriever: &fakeRetriever{passages: []Passage{{Text: "p"}}},
			judge:     &fakeJudge{sufficient: true},
			searcher:  &fakeSearcher{},
			generator: &fakeGenerator{err: errors.New("bad json")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline(tt.retriever, tt.searcher, tt.judge, tt.generator, discardLogger())
			res := p.Run(context.Background(), "q", nil)

			if res == nil {
				t.Fatal("Run returned nil response")
			}
			if res.Source != SourceError {
				t.Errorf("Source = %q, want %q", res.Source, SourceError)
			}
			if res.Confidence != 0.0 {
				t.Errorf("Confidence = %v, want 0.0", res.Confidence)
			}
			if !strings.HasPrefix(res.Answer, "I encountered an error processing your request: ") {
				t.Errorf("Answer = %q, missing error prefix", res.Answer)
			}
		})
	}
}

func TestExtractSnippetLink(t *testing.T) {
	tests := []struct {
		name    string
		snippet string
		want    string
	}{
		{"marker with trailing comma", "title, link: http://x.com, more", "http://x.com"},
		{"marker at end", "title, link: http://x.com", "http://x.com"},
		{"no marker", "plain snippet text", ""},
		{"padded url", "link:   http://y.org  ", "http://y.org"},
		{"empty snippet", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractSnippetLink(tt.snippet); got != tt.want {
				t.Errorf("extractSnippetLink(%q) = %q, want %q", tt.snippet, got, tt.want)
			}
		})
	}
}

func TestDeriveSourceInfo(t *testing.T) {
	tests := []struct {
		name       string
		sourceType string
		videoURL   string
		webpageURL string
		want       string
	}{
		{"video only", SourceVectorDB, "http://v", "", "YouTube Video: http://v"},
		{"combined prefers video", SourceVectorDBAndWeb, "http://v", "http://w", "YouTube Video: http://v"},
		{"web only", SourceWebSearch, "", "http://w", "Web Search: http://w"},
		{"no urls falls back to label", SourceWebSearch, "", "", SourceWebSearch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deriveSourceInfo(tt.sourceType, tt.videoURL, tt.webpageURL); got != tt.want {
				t.Errorf("deriveSourceInfo() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildChatHistoryMapsRoles(t *testing.T) {
	turns := []memory.Turn{
		{Role: memory.RoleHuman, Content: "hi"},
		{Role: memory.RoleAI, Content: "hello"},
		{Role: "system", Content: "skipped"},
	}

	messages := buildChatHistory(turns)

	if len(messages) != 2 {
		t.Fatalf("len = %d, want 2", len(messages))
	}
	if messages[0].Role != "user" || messages[0].Content != "hi" {
		t.Errorf("messages[0] = %+v", messages[0])
	}
	if messages[1].Role != "assistant" || messages[1].Content != "hello" {
		t.Errorf("messages[1] = %+v", messages[1])
	}
}

func TestRunPassesHistoryToGenerator(t *testing.T) {
	generator := &fakeGenerator{response: &Response{Answer: "a", Source: SourceVectorDB, Confidence: 1.0}}

	p := NewPipeline(
		&fakeRetriever{passages: []Passage{{Text: "p"}}},
		&fakeSearcher{},
		&fakeJudge{sufficient: true},
		generator,
		discardLogger(),
	)

	history := []memory.Turn{
		{Role: memory.RoleHuman, Content: "earlier question"},
		{Role: memory.RoleAI, Content: `{"answer":"earlier answer"}`},
	}
	p.Run(context.Background(), "q", history)

	if len(generator.history) != 2 {
		t.Fatalf("generator got %d history messages, want 2", len(generator.history))
	}
	if generator.history[0].Role != "user" {
		t.Errorf("history[0].Role = %q, want user", generator.history[0].Role)
	}
}
