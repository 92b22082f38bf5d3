// Package content loads the "docs" and "meta" content collections: markdown
// and MDX pages with YAML frontmatter, and per-folder meta files that order
// the navigation tree.
package content

import (
	"errors"
	"fmt"
	"path"
	"strings"

	platformi18n "github.com/louisbranch/adp-docs/internal/platform/i18n"
)

// Kind identifies what a collection holds.
type Kind string

const (
	// KindDocs collects markdown and MDX pages.
	KindDocs Kind = "docs"
	// KindMeta collects folder meta files.
	KindMeta Kind = "meta"
)

// DefaultDir is the content root shared by both default collections.
const DefaultDir = "content/docs"

var (
	// ErrNotFound reports a page missing in every locale.
	ErrNotFound = errors.New("page not found")
	// ErrInvalidFrontmatter reports frontmatter that cannot be decoded.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")
)

// Collection registers one logical document set.
type Collection struct {
	Name string
	Dir  string
	Kind Kind
}

// DefaultCollections returns the docs and meta collections rooted at DefaultDir.
func DefaultCollections() []Collection {
	return []Collection{
		{Name: "docs", Dir: DefaultDir, Kind: KindDocs},
		{Name: "meta", Dir: DefaultDir, Kind: KindMeta},
	}
}

// ValidateCollections reports configuration mistakes in a collection set.
func ValidateCollections(collections []Collection) error {
	if len(collections) == 0 {
		return fmt.Errorf("at least one collection is required")
	}
	seen := map[string]struct{}{}
	for _, c := range collections {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return fmt.Errorf("collection name is required")
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("collection %q registered twice", name)
		}
		seen[name] = struct{}{}
		if strings.TrimSpace(c.Dir) == "" {
			return fmt.Errorf("collection %q: dir is required", name)
		}
		if c.Kind != KindDocs && c.Kind != KindMeta {
			return fmt.Errorf("collection %q: unknown kind %q", name, c.Kind)
		}
	}
	return nil
}

// Issue is one validation problem in one file.
type Issue struct {
	Path    string
	Message string
}

// ValidationError aggregates every issue found while loading collections.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Path+": "+issue.Message)
	}
	return fmt.Sprintf("content validation failed (%d issues): %s", len(e.Issues), strings.Join(parts, "; "))
}

func (e *ValidationError) add(p string, format string, args ...any) {
	e.Issues = append(e.Issues, Issue{Path: p, Message: fmt.Sprintf(format, args...)})
}

// fileName splits a content file name into its base name, locale and
// extension. "guide.zh.mdx" yields ("guide", "zh", ".mdx"); a middle segment
// that is not a supported locale stays part of the name.
func fileName(name string) (base string, locale string, ext string) {
	ext = path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	locale = platformi18n.DefaultLocale
	if dot := strings.LastIndex(stem, "."); dot > 0 {
		candidate := stem[dot+1:]
		if platformi18n.IsSupported(candidate) {
			return stem[:dot], candidate, ext
		}
	}
	return stem, locale, ext
}

// slugFor returns the slug of a page file relative to its collection dir.
// "index" pages take the slug of their folder.
func slugFor(rel string) (slug string, locale string) {
	dir := path.Dir(rel)
	base, locale, _ := fileName(path.Base(rel))
	if dir == "." {
		dir = ""
	}
	if base == "index" {
		return dir, locale
	}
	if dir == "" {
		return base, locale
	}
	return dir + "/" + base, locale
}
