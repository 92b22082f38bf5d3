package content

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"content/docs/index.mdx":                 {Data: []byte("---\ntitle: Introduction\n---\n# Hi\n")},
		"content/docs/index.zh.mdx":              {Data: []byte("---\ntitle: 介绍\n---\n# 你好\n")},
		"content/docs/adp-parameter-passing.mdx": {Data: []byte("---\ntitle: Parameter passing\ndescription: How values travel.\nkeywords: [adp, session]\nowner: platform\n---\nBody\n")},
		"content/docs/contributing.md":           {Data: []byte("---\ntitle: Contributing\n---\nBody\n")},
		"content/docs/guides/index.md":           {Data: []byte("---\ntitle: Guides\n---\n")},
		"content/docs/guides/setup.md":           {Data: []byte("---\ntitle: Setup\n---\n")},
		"content/docs/guides/advanced.md":        {Data: []byte("---\ntitle: Advanced\n---\n")},
		"content/docs/guides/meta.json":          {Data: []byte(`{"title": "How-to guides", "defaultOpen": true}`)},
		"content/docs/meta.json":                 {Data: []byte(`{"pages": ["index", "---Reference---", "adp-parameter-passing", "..."]}`)},
		"content/docs/meta.zh.json":              {Data: []byte(`{"pages": ["index", "adp-parameter-passing"]}`)},
		"content/docs/_drafts/secret.md":         {Data: []byte("no frontmatter")},
	}
}

func loadTestSource(t *testing.T) *Source {
	t.Helper()
	src, err := Load(context.Background(), testFS(), DefaultCollections())
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	return src
}

func TestDefaultCollections(t *testing.T) {
	t.Parallel()

	collections := DefaultCollections()
	if len(collections) != 2 {
		t.Fatalf("len(DefaultCollections()) = %d, want 2", len(collections))
	}
	if collections[0].Name != "docs" || collections[0].Kind != KindDocs {
		t.Fatalf("collections[0] = %+v", collections[0])
	}
	if collections[1].Name != "meta" || collections[1].Kind != KindMeta {
		t.Fatalf("collections[1] = %+v", collections[1])
	}
	if err := ValidateCollections(collections); err != nil {
		t.Fatalf("ValidateCollections() = %v", err)
	}
}

func TestValidateCollectionsRejectsDuplicates(t *testing.T) {
	t.Parallel()

	err := ValidateCollections([]Collection{
		{Name: "docs", Dir: "a", Kind: KindDocs},
		{Name: "docs", Dir: "b", Kind: KindMeta},
	})
	if err == nil {
		t.Fatal("expected duplicate collection error")
	}
	if err := ValidateCollections([]Collection{{Name: "x", Dir: "a", Kind: "blog"}}); err == nil {
		t.Fatal("expected unknown kind error")
	}
}

func TestLoadParsesPagesAndSlugs(t *testing.T) {
	t.Parallel()

	src := loadTestSource(t)
	want := []string{"", "adp-parameter-passing", "contributing", "guides", "guides/advanced", "guides/setup"}
	if diff := cmp.Diff(want, src.Slugs()); diff != "" {
		t.Fatalf("Slugs() mismatch (-want +got):\n%s", diff)
	}

	page, translated, err := src.Page("en", "adp-parameter-passing")
	if err != nil {
		t.Fatalf("Page() = %v", err)
	}
	if !translated || !page.MDX {
		t.Fatalf("page = %+v, translated = %t", page, translated)
	}
	if page.Frontmatter.Description != "How values travel." {
		t.Fatalf("Description = %q", page.Frontmatter.Description)
	}
	if page.Frontmatter.Extra["owner"] != "platform" {
		t.Fatalf("Extra = %v, want owner preserved", page.Frontmatter.Extra)
	}
	if string(page.Body) != "Body\n" {
		t.Fatalf("Body = %q", page.Body)
	}
}

func TestPageFallsBackToDefaultLocale(t *testing.T) {
	t.Parallel()

	src := loadTestSource(t)

	page, translated, err := src.Page("zh", "")
	if err != nil {
		t.Fatalf("Page(zh, index) = %v", err)
	}
	if !translated || page.Frontmatter.Title != "介绍" {
		t.Fatalf("zh index = %q translated=%t", page.Frontmatter.Title, translated)
	}

	page, translated, err = src.Page("zh", "contributing")
	if err != nil {
		t.Fatalf("Page(zh, contributing) = %v", err)
	}
	if translated || page.Locale != "en" {
		t.Fatalf("expected en fallback, got locale %s translated=%t", page.Locale, translated)
	}

	if _, _, err := src.Page("en", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Page(missing) = %v, want ErrNotFound", err)
	}
}

func TestLocaleOnlyPagesStayInTheirLocale(t *testing.T) {
	t.Parallel()

	fsys := testFS()
	fsys["content/docs/faq.zh.md"] = &fstest.MapFile{Data: []byte("---\ntitle: 常见问题\n---\n")}
	fsys["content/docs/notes/index.zh.md"] = &fstest.MapFile{Data: []byte("---\ntitle: 笔记\n---\n")}
	src, err := Load(context.Background(), fsys, DefaultCollections())
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if !src.Has("zh", "faq") || src.Has("en", "faq") {
		t.Fatalf("Has(faq) zh=%t en=%t, want true false", src.Has("zh", "faq"), src.Has("en", "faq"))
	}
	if !src.Has("zh", "contributing") {
		t.Fatal("Has(zh, contributing) = false, want default-locale fallback")
	}
	for _, slug := range src.LocaleSlugs("en") {
		if slug == "faq" || slug == "notes" {
			t.Fatalf("LocaleSlugs(en) contains %q", slug)
		}
	}

	zh := map[string]bool{}
	for _, slug := range src.LocaleSlugs("zh") {
		zh[slug] = true
	}
	if !zh["faq"] || !zh["notes"] || !zh["contributing"] {
		t.Fatalf("LocaleSlugs(zh) = %v", src.LocaleSlugs("zh"))
	}

	for _, node := range src.Tree("en").Flatten() {
		if node == nil || node.Slug == "faq" || node.Slug == "notes" {
			t.Fatalf("en tree holds %+v", node)
		}
	}
	for _, node := range src.Tree("en").Children {
		if node.Slug == "notes" {
			t.Fatalf("en tree holds the zh-only folder %+v", node)
		}
	}
}

func TestLoadAggregatesValidationIssues(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"content/docs/a.md":      {Data: []byte("---\ndescription: no title\n---\n")},
		"content/docs/b.mdx":     {Data: []byte("---\ntitle: [broken\n---\n")},
		"content/docs/c.md":      {Data: []byte("---\ntitle: open\n")},
		"content/docs/meta.json": {Data: []byte(`{"pages": ["a", "a", ""]}`)},
	}
	_, err := Load(context.Background(), fsys, DefaultCollections())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Load() = %v, want *ValidationError", err)
	}
	if len(verr.Issues) != 5 {
		t.Fatalf("issues = %+v, want 5", verr.Issues)
	}
}

func TestLoadRejectsDuplicateSlugs(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"content/docs/guide.md":  {Data: []byte("---\ntitle: A\n---\n")},
		"content/docs/guide.mdx": {Data: []byte("---\ntitle: B\n---\n")},
	}
	if _, err := Load(context.Background(), fsys, DefaultCollections()); err == nil {
		t.Fatal("expected duplicate slug error")
	}
}

func TestLoadHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, testFS(), DefaultCollections()); !errors.Is(err, context.Canceled) {
		t.Fatalf("Load() = %v, want context.Canceled", err)
	}
}

func TestSplitFrontmatter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		fm      string
		body    string
		wantErr bool
	}{
		{name: "fenced", input: "---\ntitle: A\n---\nbody", fm: "title: A", body: "body"},
		{name: "crlf", input: "---\r\ntitle: A\r\n---\r\nbody", fm: "title: A", body: "body"},
		{name: "empty block", input: "---\n---\nbody", fm: "", body: "body"},
		{name: "none", input: "# Title", fm: "", body: "# Title"},
		{name: "unterminated", input: "---\ntitle: A\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, err := SplitFrontmatter([]byte(tt.input))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFrontmatter) {
					t.Fatalf("err = %v, want ErrInvalidFrontmatter", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitFrontmatter() = %v", err)
			}
			if string(fm) != tt.fm || string(body) != tt.body {
				t.Fatalf("got (%q, %q), want (%q, %q)", fm, body, tt.fm, tt.body)
			}
		})
	}
}

func TestTreeFollowsMetaOrder(t *testing.T) {
	t.Parallel()

	tree := loadTestSource(t).Tree("en")
	var got []string
	for _, node := range tree.Children {
		got = append(got, string(node.Type)+":"+node.Name)
	}
	want := []string{
		"page:Introduction",
		"separator:Reference",
		"page:Parameter passing",
		"page:Contributing",
		"folder:How-to guides",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}

	folder := tree.Children[4]
	if !folder.DefaultOpen || folder.Index == nil || folder.Index.Name != "Guides" {
		t.Fatalf("folder = %+v", folder)
	}
	if len(folder.Children) != 2 || folder.Children[0].Name != "Advanced" {
		t.Fatalf("folder children = %+v", folder.Children)
	}
}

func TestTreeUsesLocaleMetaWithoutRestMarker(t *testing.T) {
	t.Parallel()

	tree := loadTestSource(t).Tree("zh")
	if len(tree.Children) != 2 {
		t.Fatalf("len(children) = %d, want 2", len(tree.Children))
	}
	if tree.Children[0].Name != "介绍" || !tree.Children[0].Translated {
		t.Fatalf("children[0] = %+v", tree.Children[0])
	}
	if tree.Children[1].Name != "Parameter passing" || tree.Children[1].Translated {
		t.Fatalf("children[1] = %+v, want untranslated fallback", tree.Children[1])
	}
}

func TestTreeWithoutMetaSortsIndexFirst(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"content/docs/zeta.md":  {Data: []byte("---\ntitle: Zeta\n---\n")},
		"content/docs/alpha.md": {Data: []byte("---\ntitle: Alpha\n---\n")},
		"content/docs/index.md": {Data: []byte("---\ntitle: Home\n---\n")},
	}
	src, err := Load(context.Background(), fsys, DefaultCollections())
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	var got []string
	for _, node := range src.Tree("en").Children {
		got = append(got, node.Name)
	}
	if diff := cmp.Diff([]string{"Home", "Alpha", "Zeta"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestNeighbours(t *testing.T) {
	t.Parallel()

	tree := loadTestSource(t).Tree("en")
	previous, next := tree.Neighbours("contributing")
	if previous == nil || previous.Slug != "adp-parameter-passing" {
		t.Fatalf("previous = %+v", previous)
	}
	if next == nil || next.Slug != "guides" {
		t.Fatalf("next = %+v", next)
	}
	previous, _ = tree.Neighbours("")
	if previous != nil {
		t.Fatalf("first page previous = %+v, want nil", previous)
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, base, locale, ext string
	}{
		{"guide.mdx", "guide", "en", ".mdx"},
		{"guide.zh.mdx", "guide", "zh", ".mdx"},
		{"v1.2.md", "v1.2", "en", ".md"},
		{"meta.zh.json", "meta", "zh", ".json"},
	}
	for _, tt := range tests {
		base, locale, ext := fileName(tt.in)
		if base != tt.base || locale != tt.locale || ext != tt.ext {
			t.Fatalf("fileName(%q) = (%q, %q, %q)", tt.in, base, locale, ext)
		}
	}
}
