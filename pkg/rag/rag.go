package rag

import (
	"context"

	"yt-coach-be/pkg/llm"
	"yt-coach-be/pkg/rag/memory"
)

// Passage is a unit of retrieved or searched text with optional source
// attribution metadata. It is never mutated after creation.
type Passage struct {
	Text      string
	SourceURL string // origin video or webpage URL, empty when unknown
	Position  int    // chunk index within the origin, 0 when unknown
}

// Response is the sole externally visible result of a pipeline run.
type Response struct {
	Answer     string  `json:"answer"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
}

// Source labels. Response.Source for a well-formed run is always one of these
// or whatever the generator echoed back for the model-backed cases.
const (
	SourceNone           = "none"
	SourceError          = "error"
	SourceVectorDB       = "vector_db"
	SourceWebSearch      = "web_search"
	SourceVectorDBAndWeb = "vector_db_and_web_search"
)

// NoInformationAnswer is the fixed fallback answer when neither the transcript
// index nor web search produced any usable passage.
const NoInformationAnswer = "I couldn't find relevant information to answer your question."

// State is the mutable record threaded through one pipeline run. It is owned
// exclusively by that run and discarded once the response is produced.
type State struct {
	Query          string
	Retrieved      []Passage // unset until the retrieve stage ran
	WebResults     []Passage // unset unless web search was triggered
	History        []memory.Turn
	NeedsWebSearch bool
	Result         *Response
}

// Retriever returns scored transcript passages for a query, most relevant
// first, deduplicated by exact text. An empty result is a legitimate
// "no local match", not an error.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]Passage, error)
}

// WebSearcher returns web snippets for a query. Snippet text may embed a
// "link:" marker followed by the source URL, terminated by a comma or
// end-of-string; that convention feeds source attribution.
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]Passage, error)
}

// SufficiencyJudge decides whether the retrieved context can answer the query
// without escalating to web search.
type SufficiencyJudge interface {
	Judge(ctx context.Context, query, contextText string) (bool, error)
}

// AnswerGenerator produces the final structured answer from the query, the
// assembled context, the chat history and the pre-derived source label.
type AnswerGenerator interface {
	Generate(ctx context.Context, query, contextText string, history []llm.Message, sourceInfo string) (*Response, error)
}
