// Package patternsvc coordinates storage and catalog operations and owns
// the Markdown rendering pipeline.
package patternsvc

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/ansdev/patternhub/internal/checksum"
	"github.com/ansdev/patternhub/internal/index"
	"github.com/ansdev/patternhub/internal/storage"
)

// PatternDetail is the full representation of a pattern document.
type PatternDetail struct {
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PatternListItem is a lightweight item in a list response.
type PatternListItem struct {
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service coordinates storage and catalog operations.
type Service struct {
	store storage.Provider
	db    *index.DB
	md    goldmark.Markdown
}

// NewService creates a new pattern service.
func NewService(store storage.Provider, db *index.DB) *Service {
	return &Service{
		store: store,
		db:    db,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Get reads a pattern document from storage. The content is returned
// byte-for-byte as stored on disk.
func (s *Service) Get(_ context.Context, name string) (*PatternDetail, error) {
	data, err := s.store.Read(name)
	if err != nil {
		return nil, err
	}
	return &PatternDetail{
		Name:      name,
		Title:     deriveTitle(data),
		Content:   string(data),
		Checksum:  checksum.Sum(data),
		UpdatedAt: time.Now(),
	}, nil
}

// Names returns the identifiers of every document in the library, computed
// on demand from the directory listing.
func (s *Service) Names(_ context.Context) ([]string, error) {
	metas, err := s.store.List()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(metas))
	for i, m := range metas {
		names[i] = m.Name
	}
	return names, nil
}

// List returns catalogued patterns with titles, ordered by name.
func (s *Service) List(_ context.Context) ([]PatternListItem, error) {
	rows, err := s.db.ListPatterns()
	if err != nil {
		return nil, err
	}
	items := make([]PatternListItem, len(rows))
	for i, r := range rows {
		items[i] = PatternListItem{
			Name:      r.Name,
			Title:     r.Title,
			Checksum:  r.Checksum,
			UpdatedAt: r.UpdatedAt,
		}
	}
	return items, nil
}

// Search delegates full-text search to the catalog.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// RenderHTML reads a pattern document and renders it to HTML.
func (s *Service) RenderHTML(ctx context.Context, name string) ([]byte, error) {
	data, err := s.store.Read(name)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := s.md.Convert(data, &buf); err != nil {
		return nil, fmt.Errorf("patternsvc: render %q: %w", name, err)
	}
	return buf.Bytes(), nil
}

// deriveTitle returns the first H1 heading, or empty string.
func deriveTitle(data []byte) string {
	for _, line := range bytes.Split(data, []byte("\n")) {
		trimmed := bytes.TrimSpace(line)
		if bytes.HasPrefix(trimmed, []byte("# ")) {
			return string(bytes.TrimSpace(trimmed[2:]))
		}
	}
	return ""
}
