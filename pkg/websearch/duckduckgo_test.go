package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFormatSnippet(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		snippet   string
		sourceURL string
		wantText  string
	}{
		{
			name:      "title and url",
			title:     "Leadership",
			snippet:   "Leading by example.",
			sourceURL: "http://example.com",
			wantText:  "title: Leadership, snippet: Leading by example., link: http://example.com",
		},
		{
			name:     "no url",
			title:    "Leadership",
			snippet:  "Leading by example.",
			wantText: "title: Leadership, snippet: Leading by example.",
		},
		{
			name:      "no title",
			snippet:   "Plain related topic.",
			sourceURL: "http://example.com/t",
			wantText:  "Plain related topic., link: http://example.com/t",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatSnippet(tt.title, tt.snippet, tt.sourceURL)
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if got.SourceURL != tt.sourceURL {
				t.Errorf("SourceURL = %q, want %q", got.SourceURL, tt.sourceURL)
			}
			// The link marker must stay last so a comma-terminated parse
			// recovers the full URL.
			if tt.sourceURL != "" && !strings.HasSuffix(got.Text, "link: "+tt.sourceURL) {
				t.Errorf("Text %q does not end with the link marker", got.Text)
			}
		})
	}
}

func TestFlattenTopicsRecursesNestedGroups(t *testing.T) {
	topics := []relatedTopic{
		{Text: "top level", FirstURL: "http://a"},
		{
			Topics: []relatedTopic{
				{Text: "nested one", FirstURL: "http://b"},
				{Text: "nested two", FirstURL: "http://c"},
			},
		},
	}

	flat := flattenTopics(topics)
	if len(flat) != 3 {
		t.Fatalf("len = %d, want 3", len(flat))
	}
	if flat[1].Text != "nested one" || flat[2].Text != "nested two" {
		t.Errorf("flatten order = %q, %q", flat[1].Text, flat[2].Text)
	}
}

func TestSearchParsesInstantAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("format = %q, want json", got)
		}
		w.Write([]byte(`{
			"Heading": "Leadership",
			"AbstractText": "The ability to lead.",
			"AbstractURL": "http://abstract.example",
			"RelatedTopics": [
				{"Text": "Related A", "FirstURL": "http://a"},
				{"Topics": [{"Text": "Related B", "FirstURL": "http://b"}]}
			]
		}`))
	}))
	defer srv.Close()

	d := NewDuckDuckGoSearcher(2)
	d.baseURL = srv.URL + "/"

	passages, err := d.Search(context.Background(), "what is leadership")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}

	if len(passages) != 2 {
		t.Fatalf("len = %d, want 2 (maxResults bound)", len(passages))
	}
	if passages[0].SourceURL != "http://abstract.example" {
		t.Errorf("passages[0].SourceURL = %q", passages[0].SourceURL)
	}
	if !strings.Contains(passages[0].Text, "link: http://abstract.example") {
		t.Errorf("passages[0].Text = %q missing link marker", passages[0].Text)
	}
}

func TestSearchEmptyAnswerYieldsNoPassages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Heading": "", "AbstractText": "", "RelatedTopics": []}`))
	}))
	defer srv.Close()

	d := NewDuckDuckGoSearcher(3)
	d.baseURL = srv.URL + "/"

	passages, err := d.Search(context.Background(), "gibberish query")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(passages) != 0 {
		t.Errorf("len = %d, want 0", len(passages))
	}
}

func TestSearchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	d := NewDuckDuckGoSearcher(3)
	d.baseURL = srv.URL + "/"

	if _, err := d.Search(context.Background(), "q"); err == nil {
		t.Fatal("Search succeeded, want error")
	}
}
