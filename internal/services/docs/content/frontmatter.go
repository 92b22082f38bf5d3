package content

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the docs page schema. Unknown keys are kept in Extra.
type Frontmatter struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Keywords    []string       `yaml:"keywords"`
	Icon        string         `yaml:"icon"`
	Full        bool           `yaml:"full"`
	Extra       map[string]any `yaml:",inline"`
}

// MetaFile is the folder meta schema.
type MetaFile struct {
	Title       string   `yaml:"title"`
	Pages       []string `yaml:"pages"`
	Root        bool     `yaml:"root"`
	DefaultOpen bool     `yaml:"defaultOpen"`
	Icon        string   `yaml:"icon"`
}

var frontmatterFence = []byte("---")

// SplitFrontmatter separates a leading YAML block fenced by "---" lines from
// the body. Content without a leading fence returns nil frontmatter.
func SplitFrontmatter(src []byte) (frontmatter []byte, body []byte, err error) {
	src = bytes.TrimPrefix(src, []byte("\uFEFF"))
	normalized := bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, append(append([]byte{}, frontmatterFence...), '\n')) {
		return nil, normalized, nil
	}
	rest := normalized[len(frontmatterFence)+1:]
	if bytes.HasPrefix(rest, append(append([]byte{}, frontmatterFence...), '\n')) {
		return []byte{}, rest[len(frontmatterFence)+1:], nil
	}
	end := bytes.Index(rest, []byte("\n---\n"))
	if end < 0 {
		if bytes.HasSuffix(rest, []byte("\n---")) {
			return rest[:len(rest)-len("\n---")], nil, nil
		}
		return nil, nil, fmt.Errorf("%w: unterminated frontmatter block", ErrInvalidFrontmatter)
	}
	return rest[:end], rest[end+len("\n---\n"):], nil
}

// ParseFrontmatter decodes a docs page frontmatter block.
func ParseFrontmatter(data []byte) (Frontmatter, error) {
	var fm Frontmatter
	if len(bytes.TrimSpace(data)) == 0 {
		return fm, nil
	}
	if err := yaml.Unmarshal(data, &fm); err != nil {
		return Frontmatter{}, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
	}
	fm.Title = strings.TrimSpace(fm.Title)
	fm.Description = strings.TrimSpace(fm.Description)
	return fm, nil
}

// ParseMeta decodes a meta.json or meta.yaml file. JSON is valid YAML, so one
// decoder serves both.
func ParseMeta(data []byte) (MetaFile, error) {
	var meta MetaFile
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return MetaFile{}, fmt.Errorf("decode meta: %w", err)
	}
	meta.Title = strings.TrimSpace(meta.Title)
	return meta, nil
}

// validateFrontmatter applies the default docs schema.
func validateFrontmatter(fm Frontmatter) []string {
	var problems []string
	if fm.Title == "" {
		problems = append(problems, "title is required")
	}
	for i, keyword := range fm.Keywords {
		if strings.TrimSpace(keyword) == "" {
			problems = append(problems, fmt.Sprintf("keywords[%d] is blank", i))
		}
	}
	return problems
}

// validateMeta applies the default meta schema.
func validateMeta(meta MetaFile) []string {
	var problems []string
	seen := map[string]struct{}{}
	for i, entry := range meta.Pages {
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			problems = append(problems, fmt.Sprintf("pages[%d] is blank", i))
			continue
		}
		if _, ok := seen[trimmed]; ok && trimmed != restMarker && !isSeparator(trimmed) {
			problems = append(problems, fmt.Sprintf("pages[%d] %q is listed twice", i, trimmed))
		}
		seen[trimmed] = struct{}{}
	}
	return problems
}
