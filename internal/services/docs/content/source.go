package content

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	platformi18n "github.com/louisbranch/adp-docs/internal/platform/i18n"
)

// Page is one markdown or MDX document in one locale.
type Page struct {
	Collection  string
	Slug        string
	Locale      string
	Path        string
	MDX         bool
	Frontmatter Frontmatter
	Body        []byte
}

// Name returns the last slug segment, or "index" for a folder index page.
func (p *Page) Name() string {
	if p.IsIndex() {
		return "index"
	}
	return path.Base(p.Slug)
}

// IsIndex reports whether the page is the index of its folder.
func (p *Page) IsIndex() bool {
	base, _, _ := fileName(path.Base(p.Path))
	return base == "index"
}

// Meta is one folder meta file in one locale.
type Meta struct {
	Collection string
	Dir        string
	Locale     string
	Path       string
	MetaFile
}

type localeKey struct {
	locale string
	key    string
}

// Source holds every loaded page and meta file.
type Source struct {
	pages map[localeKey]*Page
	metas map[localeKey]*Meta
	slugs []string
	index map[string]bool
	dirs  map[string]struct{}
}

// Load walks every collection in fsys and validates what it finds. All
// validation issues across files are returned together as *ValidationError.
func Load(ctx context.Context, fsys fs.FS, collections []Collection) (*Source, error) {
	if err := ValidateCollections(collections); err != nil {
		return nil, err
	}
	src := &Source{
		pages: map[localeKey]*Page{},
		metas: map[localeKey]*Meta{},
		index: map[string]bool{},
		dirs:  map[string]struct{}{"": {}},
	}
	verr := &ValidationError{}

	for _, c := range collections {
		root := path.Clean(strings.TrimPrefix(c.Dir, "/"))
		err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), "_") && p != root {
					return fs.SkipDir
				}
				return nil
			}
			rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
			switch c.Kind {
			case KindDocs:
				if isPageFile(d.Name()) {
					src.addPage(fsys, c, p, rel, verr)
				}
			case KindMeta:
				if isMetaFile(d.Name()) {
					src.addMeta(fsys, c, p, rel, verr)
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk collection %s: %w", c.Name, err)
		}
	}

	if len(verr.Issues) > 0 {
		return nil, verr
	}
	src.indexSlugs()
	return src, nil
}

func isPageFile(name string) bool {
	ext := path.Ext(name)
	return ext == ".md" || ext == ".mdx"
}

func isMetaFile(name string) bool {
	base, _, ext := fileName(name)
	return base == "meta" && (ext == ".json" || ext == ".yaml" || ext == ".yml")
}

func (s *Source) addPage(fsys fs.FS, c Collection, p, rel string, verr *ValidationError) {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		verr.add(p, "read: %v", err)
		return
	}
	rawFM, body, err := SplitFrontmatter(data)
	if err != nil {
		verr.add(p, "%v", err)
		return
	}
	fm, err := ParseFrontmatter(rawFM)
	if err != nil {
		verr.add(p, "%v", err)
		return
	}
	for _, problem := range validateFrontmatter(fm) {
		verr.add(p, "%s", problem)
	}

	slug, locale := slugFor(rel)
	key := localeKey{locale: locale, key: slug}
	if existing, ok := s.pages[key]; ok {
		verr.add(p, "slug %q in locale %s already defined by %s", slug, locale, existing.Path)
		return
	}
	s.pages[key] = &Page{
		Collection:  c.Name,
		Slug:        slug,
		Locale:      locale,
		Path:        p,
		MDX:         path.Ext(p) == ".mdx",
		Frontmatter: fm,
		Body:        body,
	}
	for dir := path.Dir(rel); dir != "." && dir != ""; dir = path.Dir(dir) {
		s.dirs[dir] = struct{}{}
	}
}

func (s *Source) addMeta(fsys fs.FS, c Collection, p, rel string, verr *ValidationError) {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		verr.add(p, "read: %v", err)
		return
	}
	meta, err := ParseMeta(data)
	if err != nil {
		verr.add(p, "%v", err)
		return
	}
	for _, problem := range validateMeta(meta) {
		verr.add(p, "%s", problem)
	}
	dir := path.Dir(rel)
	if dir == "." {
		dir = ""
	}
	_, locale, _ := fileName(path.Base(rel))
	key := localeKey{locale: locale, key: dir}
	if existing, ok := s.metas[key]; ok {
		verr.add(p, "meta for %q in locale %s already defined by %s", dir, locale, existing.Path)
		return
	}
	s.metas[key] = &Meta{Collection: c.Name, Dir: dir, Locale: locale, Path: p, MetaFile: meta}
}

func (s *Source) indexSlugs() {
	seen := map[string]struct{}{}
	for key, page := range s.pages {
		if page.IsIndex() {
			s.index[key.key] = true
		}
		if _, ok := seen[key.key]; ok {
			continue
		}
		seen[key.key] = struct{}{}
		s.slugs = append(s.slugs, key.key)
	}
	sort.Strings(s.slugs)
}

// Slugs returns every page slug present in at least one locale, sorted.
func (s *Source) Slugs() []string {
	out := make([]string, len(s.slugs))
	copy(out, s.slugs)
	return out
}

// Has reports whether slug resolves in locale, either through its own page
// or through the default-locale page.
func (s *Source) Has(locale string, slug string) bool {
	slug = strings.Trim(slug, "/")
	if _, ok := s.pages[localeKey{locale: locale, key: slug}]; ok {
		return true
	}
	_, ok := s.pages[localeKey{locale: platformi18n.DefaultLocale, key: slug}]
	return ok
}

// LocaleSlugs returns the sorted slugs that resolve in locale. A page written
// only for another locale is left out.
func (s *Source) LocaleSlugs(locale string) []string {
	var out []string
	for _, slug := range s.slugs {
		if s.Has(locale, slug) {
			out = append(out, slug)
		}
	}
	return out
}

// Page returns the page for slug in locale, falling back to the default
// locale. translated is false when the fallback was used.
func (s *Source) Page(locale string, slug string) (page *Page, translated bool, err error) {
	slug = strings.Trim(slug, "/")
	if page, ok := s.pages[localeKey{locale: locale, key: slug}]; ok {
		return page, true, nil
	}
	if page, ok := s.pages[localeKey{locale: platformi18n.DefaultLocale, key: slug}]; ok {
		return page, false, nil
	}
	return nil, false, fmt.Errorf("%w: %q", ErrNotFound, slug)
}

// Meta returns the meta file for dir in locale with default-locale fallback.
func (s *Source) Meta(locale string, dir string) (*Meta, bool) {
	if meta, ok := s.metas[localeKey{locale: locale, key: dir}]; ok {
		return meta, true
	}
	meta, ok := s.metas[localeKey{locale: platformi18n.DefaultLocale, key: dir}]
	return meta, ok
}

// Pages returns every page stored for locale without fallback, sorted by slug.
func (s *Source) Pages(locale string) []*Page {
	var out []*Page
	for _, slug := range s.slugs {
		if page, ok := s.pages[localeKey{locale: locale, key: slug}]; ok {
			out = append(out, page)
		}
	}
	return out
}
