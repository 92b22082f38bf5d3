// Package metadata resolves the per-locale page metadata (title, description,
// keywords, Open Graph and Twitter card fields) rendered into every page head.
//
// Each field is looked up independently: a locale that defines a title but no
// description inherits the default locale's description.
package metadata

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	platformi18n "github.com/louisbranch/adp-docs/internal/platform/i18n"
	"gopkg.in/yaml.v3"
)

//go:embed metadata.yaml
var defaultTableYAML []byte

// ErrInvalidTable reports a metadata table that cannot serve the default locale.
var ErrInvalidTable = errors.New("invalid metadata table")

// Image describes the social preview image.
type Image struct {
	URL    string
	Alt    string
	Width  int
	Height int
}

// Record is the metadata resolved for one locale.
type Record struct {
	Locale          string
	SiteName        string
	Title           string
	Description     string
	Keywords        []string
	Image           Image
	OpenGraphLocale string
	OpenGraphType   string
	TwitterCard     string
	TwitterSite     string
}

// PageMeta carries the frontmatter fields a page contributes to its head.
type PageMeta struct {
	Title       string
	Description string
	Keywords    []string
}

// Table holds locale-keyed metadata fields plus the locale-independent ones.
type Table struct {
	DefaultLocale    string
	SiteName         string
	TitleTemplate    string
	ImageURL         string
	ImageWidth       int
	ImageHeight      int
	TwitterCard      string
	TwitterSite      string
	Titles           map[string]string
	Descriptions     map[string]string
	Keywords         map[string][]string
	OpenGraphLocales map[string]string
	ImageAlts        map[string]string
}

type tableFile struct {
	DefaultLocale string `yaml:"default_locale"`
	SiteName      string `yaml:"site_name"`
	TitleTemplate string `yaml:"title_template"`
	Image         struct {
		URL    string `yaml:"url"`
		Width  int    `yaml:"width"`
		Height int    `yaml:"height"`
	} `yaml:"image"`
	Twitter struct {
		Card string `yaml:"card"`
		Site string `yaml:"site"`
	} `yaml:"twitter"`
	Locales map[string]localeFile `yaml:"locales"`
}

type localeFile struct {
	Title       *string  `yaml:"title"`
	Description *string  `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
	OGLocale    *string  `yaml:"og_locale"`
	ImageAlt    *string  `yaml:"image_alt"`
}

// Default returns the embedded metadata table.
func Default() Table {
	table, err := Parse(defaultTableYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded metadata table: %v", err))
	}
	return table
}

// Parse decodes a metadata table from YAML without validating it.
// A locale only contributes the fields it sets, so absent fields fall back.
func Parse(data []byte) (Table, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Table{}, fmt.Errorf("decode metadata: %w", err)
	}
	table := newTable()
	table.DefaultLocale = strings.TrimSpace(file.DefaultLocale)
	table.SiteName = file.SiteName
	table.TitleTemplate = file.TitleTemplate
	table.ImageURL = file.Image.URL
	table.ImageWidth = file.Image.Width
	table.ImageHeight = file.Image.Height
	table.TwitterCard = file.Twitter.Card
	table.TwitterSite = file.Twitter.Site

	for locale, entry := range file.Locales {
		if entry.Title != nil {
			table.Titles[locale] = *entry.Title
		}
		if entry.Description != nil {
			table.Descriptions[locale] = *entry.Description
		}
		if entry.Keywords != nil {
			table.Keywords[locale] = entry.Keywords
		}
		if entry.OGLocale != nil {
			table.OpenGraphLocales[locale] = *entry.OGLocale
		}
		if entry.ImageAlt != nil {
			table.ImageAlts[locale] = *entry.ImageAlt
		}
	}
	return table, nil
}

func newTable() Table {
	return Table{
		Titles:           map[string]string{},
		Descriptions:     map[string]string{},
		Keywords:         map[string][]string{},
		OpenGraphLocales: map[string]string{},
		ImageAlts:        map[string]string{},
	}
}

// Validate checks that the default locale can satisfy every fallback.
func (t Table) Validate() error {
	def := t.defaultLocale()
	var problems []string
	if _, ok := t.Titles[def]; !ok {
		problems = append(problems, "title")
	}
	if _, ok := t.Descriptions[def]; !ok {
		problems = append(problems, "description")
	}
	if _, ok := t.OpenGraphLocales[def]; !ok {
		problems = append(problems, "og_locale")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: default locale %q is missing %s", ErrInvalidTable, def, strings.Join(problems, ", "))
	}
	return nil
}

// Merge returns a table where every field set in override replaces the
// corresponding field of t.
func (t Table) Merge(override Table) Table {
	out := newTable()
	out.DefaultLocale = firstNonEmpty(override.DefaultLocale, t.DefaultLocale)
	out.SiteName = firstNonEmpty(override.SiteName, t.SiteName)
	out.TitleTemplate = firstNonEmpty(override.TitleTemplate, t.TitleTemplate)
	out.ImageURL = firstNonEmpty(override.ImageURL, t.ImageURL)
	out.ImageWidth = firstPositive(override.ImageWidth, t.ImageWidth)
	out.ImageHeight = firstPositive(override.ImageHeight, t.ImageHeight)
	out.TwitterCard = firstNonEmpty(override.TwitterCard, t.TwitterCard)
	out.TwitterSite = firstNonEmpty(override.TwitterSite, t.TwitterSite)
	mergeMap(out.Titles, t.Titles, override.Titles)
	mergeMap(out.Descriptions, t.Descriptions, override.Descriptions)
	mergeMap(out.Keywords, t.Keywords, override.Keywords)
	mergeMap(out.OpenGraphLocales, t.OpenGraphLocales, override.OpenGraphLocales)
	mergeMap(out.ImageAlts, t.ImageAlts, override.ImageAlts)
	return out
}

// Resolve returns the metadata for locale, applying the default-locale
// fallback to each field on its own.
func (t Table) Resolve(locale string) Record {
	def := t.defaultLocale()
	return Record{
		Locale:          locale,
		SiteName:        t.SiteName,
		Title:           platformi18n.Resolve(t.Titles, locale, def),
		Description:     platformi18n.Resolve(t.Descriptions, locale, def),
		Keywords:        cloneStrings(platformi18n.Resolve(t.Keywords, locale, def)),
		OpenGraphLocale: platformi18n.Resolve(t.OpenGraphLocales, locale, def),
		OpenGraphType:   "website",
		Image: Image{
			URL:    t.ImageURL,
			Alt:    platformi18n.Resolve(t.ImageAlts, locale, def),
			Width:  t.ImageWidth,
			Height: t.ImageHeight,
		},
		TwitterCard: t.TwitterCard,
		TwitterSite: t.TwitterSite,
	}
}

// ForPage layers page frontmatter over the site record. The page title is
// formatted through the title template; empty page fields keep site values.
func (t Table) ForPage(site Record, page PageMeta) Record {
	out := site
	out.Keywords = cloneStrings(site.Keywords)
	out.OpenGraphType = "article"
	if title := strings.TrimSpace(page.Title); title != "" {
		out.Title = t.FormatTitle(title)
	}
	if description := strings.TrimSpace(page.Description); description != "" {
		out.Description = description
	}
	out.Keywords = mergeKeywords(out.Keywords, page.Keywords)
	return out
}

// FormatTitle applies the title template to a page title.
func (t Table) FormatTitle(title string) string {
	if t.TitleTemplate == "" || !strings.Contains(t.TitleTemplate, "%s") {
		return title
	}
	return fmt.Sprintf(t.TitleTemplate, title)
}

func (t Table) defaultLocale() string {
	if t.DefaultLocale != "" {
		return t.DefaultLocale
	}
	return platformi18n.DefaultLocale
}

func mergeKeywords(base []string, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, keyword := range append(append([]string{}, base...), extra...) {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		key := strings.ToLower(keyword)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, keyword)
	}
	return out
}

func mergeMap[T any](dst, base, override map[string]T) {
	for key, value := range base {
		dst[key] = value
	}
	for key, value := range override {
		dst[key] = value
	}
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	return append([]string(nil), values...)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, value := range values {
		if value > 0 {
			return value
		}
	}
	return 0
}
