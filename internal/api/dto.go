package api

import "github.com/ansdev/patternhub/internal/patternsvc"

// PatternDetail is the full pattern response type (aliased from the domain layer).
type PatternDetail = patternsvc.PatternDetail

// PatternListItem is a lightweight item in a list response (aliased from the domain layer).
type PatternListItem = patternsvc.PatternListItem

// PatternListResponse wraps pattern listings.
type PatternListResponse struct {
	Patterns []PatternListItem `json:"patterns"`
	Total    int               `json:"total"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}
