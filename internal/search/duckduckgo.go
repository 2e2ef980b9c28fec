package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	instantAnswerURL = "https://api.duckduckgo.com/"
	snippetMaxChars  = 200
)

// DuckDuckGo queries the DuckDuckGo Instant Answer API. Failures of any kind
// degrade to an empty result; verification is advisory, never blocking.
type DuckDuckGo struct {
	httpClient *http.Client
}

// NewDuckDuckGo builds a provider with the given HTTP client.
func NewDuckDuckGo(httpClient *http.Client) *DuckDuckGo {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &DuckDuckGo{httpClient: httpClient}
}

type instantAnswer struct {
	AbstractText  string `json:"AbstractText"`
	Answer        string `json:"Answer"`
	Definition    string `json:"Definition"`
	RelatedTopics []struct {
		Text string `json:"Text"`
	} `json:"RelatedTopics"`
}

// Search runs one query and returns a snippet capped at 200 characters.
func (d *DuckDuckGo) Search(ctx context.Context, query string) string {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, instantAnswerURL+"?"+q.Encode(), nil)
	if err != nil {
		return ""
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		slog.Debug("web search failed", "query", query, "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var answer instantAnswer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return ""
	}

	return clipSnippet(pickText(answer))
}

func pickText(a instantAnswer) string {
	for _, s := range []string{a.AbstractText, a.Answer, a.Definition} {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	for _, t := range a.RelatedTopics {
		if strings.TrimSpace(t.Text) != "" {
			return t.Text
		}
	}
	return ""
}

func clipSnippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= snippetMaxChars {
		return s
	}
	return s[:snippetMaxChars]
}
