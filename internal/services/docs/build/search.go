package build

import (
	"encoding/json"
	"fmt"

	"github.com/louisbranch/adp-docs/internal/services/docs/routepath"
)

// SearchEntry is one document of a locale's search index.
type SearchEntry struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url"`
	Headings    []string `json:"headings,omitempty"`
	Text        string   `json:"text"`
	Translated  bool     `json:"translated"`
}

// SearchIndex is the search.json document of one locale.
type SearchIndex struct {
	Locale  string        `json:"locale"`
	Entries []SearchEntry `json:"entries"`
}

func (b *Builder) renderSearch(s *site, locale string) ([]byte, error) {
	index := SearchIndex{Locale: locale, Entries: []SearchEntry{}}
	for _, slug := range s.slugs[locale] {
		page, translated, err := s.source.Page(locale, slug)
		if err != nil {
			return nil, err
		}
		doc, err := s.docs.get(page)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", page.Path, err)
		}
		entry := SearchEntry{
			ID:          slug,
			Title:       page.Frontmatter.Title,
			Description: page.Frontmatter.Description,
			URL:         routepath.Doc(locale, slug),
			Text:        doc.Text,
			Translated:  translated,
		}
		for _, heading := range doc.TOC {
			entry.Headings = append(entry.Headings, heading.Text)
		}
		index.Entries = append(index.Entries, entry)
	}
	data, err := json.Marshal(index)
	if err != nil {
		return nil, fmt.Errorf("encode search index: %w", err)
	}
	return data, nil
}
