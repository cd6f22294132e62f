package wiki

import (
	"encoding/json"
	"fmt"
	"sort"
)

// QueryResponse is the part of an action=query&prop=langlinks reply we use
type QueryResponse struct {
	Query struct {
		Normalized []Normalization `json:"normalized"`
		Pages      map[string]Page `json:"pages"`
	} `json:"query"`
	Error *APIError `json:"error,omitempty"`
}

// Normalization records how the API rewrote a requested title
type Normalization struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Page is one page of the reply, keyed by page id (negative for missing pages)
type Page struct {
	PageID    int        `json:"pageid"`
	Title     string     `json:"title"`
	LangLinks []LangLink `json:"langlinks"`
}

// LangLink is a cross-language link; Title carries the "*" member of the classic format
type LangLink struct {
	Lang  string `json:"lang"`
	Title string `json:"*"`
}

// APIError is the error object MediaWiki returns with HTTP 200
type APIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

// ParseResponse decodes a raw langlinks reply
func ParseResponse(body []byte) (*QueryResponse, error) {
	var resp QueryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrAPI, resp.Error.Code, resp.Error.Info)
	}
	return &resp, nil
}

// Target returns the first target-language title of the page
func (p Page) Target() (string, bool) {
	if len(p.LangLinks) == 0 {
		return "", false
	}
	return p.LangLinks[0].Title, true
}

// SortedPages returns the pages ordered by title, so folding is deterministic
func (r *QueryResponse) SortedPages() []Page {
	pages := make([]Page, 0, len(r.Query.Pages))
	for _, p := range r.Query.Pages {
		pages = append(pages, p)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Title < pages[j].Title })
	return pages
}

// Denormalizer maps normalized titles back to the titles that were requested
func (r *QueryResponse) Denormalizer() map[string]string {
	back := make(map[string]string, len(r.Query.Normalized))
	for _, n := range r.Query.Normalized {
		back[n.To] = n.From
	}
	return back
}
