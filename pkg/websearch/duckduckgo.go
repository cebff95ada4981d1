package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"yt-coach-be/pkg/rag"
)

// DuckDuckGoSearcher queries the DuckDuckGo Instant Answer API and converts
// results into passages. Each snippet keeps the legacy textual convention
// "..., link: <url>" because source attribution parses it; the structured
// SourceURL field carries the same URL for consumers that prefer it.
type DuckDuckGoSearcher struct {
	baseURL    string
	maxResults int
	client     *http.Client
}

var _ rag.WebSearcher = &DuckDuckGoSearcher{}

type instantAnswer struct {
	Heading       string         `json:"Heading"`
	AbstractText  string         `json:"AbstractText"`
	AbstractURL   string         `json:"AbstractURL"`
	RelatedTopics []relatedTopic `json:"RelatedTopics"`
}

type relatedTopic struct {
	Text     string         `json:"Text"`
	FirstURL string         `json:"FirstURL"`
	Topics   []relatedTopic `json:"Topics"` // nested category groups
}

func NewDuckDuckGoSearcher(maxResults int) *DuckDuckGoSearcher {
	if maxResults <= 0 {
		maxResults = 3
	}
	return &DuckDuckGoSearcher{
		baseURL:    "https://api.duckduckgo.com/",
		maxResults: maxResults,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (d *DuckDuckGoSearcher) Search(ctx context.Context, query string) ([]rag.Passage, error) {
	endpoint := fmt.Sprintf("%s?q=%s&format=json&no_html=1&no_redirect=1&skip_disambig=1",
		d.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var answer instantAnswer
	if err := json.Unmarshal(bodyBytes, &answer); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return d.toPassages(answer), nil
}

func (d *DuckDuckGoSearcher) toPassages(answer instantAnswer) []rag.Passage {
	var passages []rag.Passage

	if answer.AbstractText != "" {
		passages = append(passages, formatSnippet(answer.Heading, answer.AbstractText, answer.AbstractURL))
	}

	for _, topic := range flattenTopics(answer.RelatedTopics) {
		if len(passages) >= d.maxResults {
			break
		}
		if topic.Text == "" {
			continue
		}
		passages = append(passages, formatSnippet("", topic.Text, topic.FirstURL))
	}

	return passages
}

// formatSnippet renders one search result into the snippet wire format. The
// URL goes last so the comma-terminated "link:" parse stays unambiguous.
func formatSnippet(title, snippet, sourceURL string) rag.Passage {
	text := snippet
	if title != "" {
		text = fmt.Sprintf("title: %s, snippet: %s", title, snippet)
	}
	if sourceURL != "" {
		text = fmt.Sprintf("%s, link: %s", text, sourceURL)
	}
	return rag.Passage{
		Text:      text,
		SourceURL: sourceURL,
	}
}

func flattenTopics(topics []relatedTopic) []relatedTopic {
	var flat []relatedTopic
	for _, t := range topics {
		if len(t.Topics) > 0 {
			flat = append(flat, flattenTopics(t.Topics)...)
			continue
		}
		flat = append(flat, t)
	}
	return flat
}
