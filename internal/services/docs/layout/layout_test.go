package layout

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/louisbranch/adp-docs/internal/platform/branding"
	"github.com/louisbranch/adp-docs/internal/services/docs/content"
	"github.com/louisbranch/adp-docs/internal/services/docs/markdown"
	"github.com/louisbranch/adp-docs/internal/services/docs/metadata"
	"github.com/louisbranch/adp-docs/internal/services/shared/i18nhttp"
	"golang.org/x/text/message"
)

type mapLocalizer map[string]string

func (m mapLocalizer) Sprintf(key message.Reference, _ ...any) string {
	if value, ok := m[key.(string)]; ok {
		return value
	}
	return key.(string)
}

func render(t *testing.T, ctx context.Context, component templ.Component) string {
	t.Helper()
	var b strings.Builder
	if err := component.Render(ctx, &b); err != nil {
		t.Fatalf("Render() = %v", err)
	}
	return b.String()
}

func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestBaseOptionsUsesLogo(t *testing.T) {
	t.Parallel()

	opts := BaseOptions()
	if opts.Nav.Logo.Src != branding.LogoPath || opts.Nav.Logo.Alt != branding.AppName {
		t.Fatalf("logo = %+v", opts.Nav.Logo)
	}
	got := render(t, context.Background(), opts.Nav.Title)
	assertContains(t, got, `src="/logo.svg"`, `alt="ADP Docs"`, `width="120"`, `height="32"`)
	if len(opts.Links) != 1 || !opts.Links[0].External {
		t.Fatalf("links = %+v", opts.Links)
	}
}

func TestOptionsForWithoutRepository(t *testing.T) {
	t.Parallel()

	brand := branding.Default()
	brand.RepositoryURL = ""
	if opts := OptionsFor(brand); len(opts.Links) != 0 {
		t.Fatalf("links = %+v, want none", opts.Links)
	}
}

func TestRootLayoutRendersMetadataAndProvider(t *testing.T) {
	t.Parallel()

	record := metadata.Default().Resolve("zh")
	props := RootProps{
		Locale:       "zh",
		Meta:         record,
		BaseURL:      "https://docs.example.com",
		CanonicalURL: "/zh/",
		Alternates: []Alternate{
			{Locale: "en", HrefLang: "en", URL: "/en/", OpenGraphLocale: "en_US"},
			{Locale: "zh", HrefLang: "zh", URL: "/zh/", OpenGraphLocale: "zh_CN"},
			{HrefLang: "x-default", URL: "/en/"},
		},
		Translations: map[string]string{"nav.home": "首页"},
		Languages:    []i18nhttp.LanguageOption{{Locale: "zh", Label: "简体中文", URL: "/zh/", Active: true}},
		Stylesheets:  []string{"/site.css"},
	}
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>page body</p>")
		return err
	})
	got := render(t, templ.WithChildren(context.Background(), body), RootLayout(props))

	assertContains(t, got,
		`<html lang="zh" dir="ltr">`,
		"<title>ADP 集成文档</title>",
		`<meta property="og:locale" content="zh_CN">`,
		`<meta property="og:locale:alternate" content="en_US">`,
		`<link rel="alternate" hreflang="x-default" href="https://docs.example.com/en/">`,
		`<link rel="canonical" href="https://docs.example.com/zh/">`,
		`<meta property="og:image" content="https://docs.example.com/og-image.png">`,
		`<div data-i18n-provider data-locale="zh">`,
		`"translations":{"nav.home":"首页"}`,
		"<p>page body</p></div>",
	)
	if strings.Index(got, "<p>page body</p>") < strings.Index(got, "data-i18n-provider") {
		t.Fatal("children must render inside the provider")
	}
}

func TestRootLayoutEscapesScriptBreakout(t *testing.T) {
	t.Parallel()

	props := RootProps{
		Locale:       "en",
		Meta:         metadata.Default().Resolve("en"),
		Translations: map[string]string{"x": "</script><script>alert(1)</script>"},
	}
	got := render(t, context.Background(), RootLayout(props))
	if strings.Contains(got, "<script>alert(1)") {
		t.Fatalf("translation broke out of the JSON script:\n%s", got)
	}
}

func TestProviderEmbedsLocalizationJSON(t *testing.T) {
	t.Parallel()

	languages := []i18nhttp.LanguageOption{{Locale: "en", Label: "English", URL: "/en/", Active: true}}
	got := render(t, context.Background(), Provider("en", nil, languages))
	assertContains(t, got,
		`<div data-i18n-provider data-locale="en"><script id="i18n-data" type="application/json">`,
		`"locale":"en","translations":{}`,
		`"locales":[`,
		"</script></div>",
	)
}

func TestLogoImageOmitsEmptyAttributes(t *testing.T) {
	t.Parallel()

	got := render(t, context.Background(), LogoImage(Logo{Alt: "Docs"}))
	if got != `<img class="nav-logo" alt="Docs">` {
		t.Fatalf("LogoImage() = %q", got)
	}
}

func TestDocsLayout(t *testing.T) {
	t.Parallel()

	tree := content.Tree{Locale: "zh", Children: []*content.Node{
		{Type: content.NodePage, Name: "介绍", Slug: "", Translated: true},
		{Type: content.NodeSeparator, Name: "Reference"},
		{Type: content.NodePage, Name: "Parameter passing", Slug: "adp-parameter-passing"},
		{Type: content.NodeFolder, Name: "Guides", Slug: "guides", Children: []*content.Node{
			{Type: content.NodePage, Name: "Setup", Slug: "guides/setup"},
		}},
	}}
	props := DocsProps{
		Options:    BaseOptions(),
		Locale:     "zh",
		Loc:        mapLocalizer{"docs.fallback_notice": "本页尚未翻译", "docs.toc": "本页目录"},
		Tree:       tree,
		Slug:       "guides/setup",
		Title:      "Setup <draft>",
		Body:       []byte("<p>rendered</p>"),
		TOC:        []markdown.Heading{{Depth: 2, Text: "Install", ID: "install"}},
		Previous:   tree.Children[2],
		Translated: false,
		EditURL:    "https://github.com/louisbranch/adp-docs/edit/main/content/docs/guides/setup.md",
		Languages: []i18nhttp.LanguageOption{
			{Locale: "en", Label: "English", URL: "/en/docs/guides/setup/"},
			{Locale: "zh", Label: "简体中文", URL: "/zh/docs/guides/setup/", Active: true},
		},
	}
	got := render(t, context.Background(), DocsLayout(props))
	assertContains(t, got,
		`<h1>Setup &lt;draft&gt;</h1>`,
		`<p class="docs-fallback-notice" role="note">本页尚未翻译</p>`,
		`<li class="nav-separator">Reference</li>`,
		`<details open><summary>Guides</summary>`,
		`<a href="/zh/docs/guides/setup/" aria-current="page" data-untranslated>Setup</a>`,
		`<a href="/zh/docs/">介绍</a>`,
		`<a class="docs-previous" rel="previous" href="/zh/docs/adp-parameter-passing/">`,
		`<a href="#install">Install</a>`,
		`hreflang="en" lang="en">English</a>`,
		`<details><summary>简体中文</summary>`,
		`data-search-index="/zh/search.json"`,
		"<p>rendered</p>",
	)
	if strings.Contains(got, `docs-next`) {
		t.Fatal("unexpected next link")
	}
}

func TestDocsLayoutFullPageHidesTOC(t *testing.T) {
	t.Parallel()

	got := render(t, context.Background(), DocsLayout(DocsProps{
		Options:    BaseOptions(),
		Locale:     "en",
		Title:      "Wide",
		Translated: true,
		Full:       true,
		TOC:        []markdown.Heading{{Depth: 2, Text: "A", ID: "a"}},
	}))
	if strings.Contains(got, "docs-toc") || strings.Contains(got, "docs-fallback-notice") {
		t.Fatalf("unexpected toc or notice:\n%s", got)
	}
	assertContains(t, got, `<main class="docs-page" data-full>`)
}

func TestHomeLayout(t *testing.T) {
	t.Parallel()

	got := render(t, context.Background(), HomeLayout(HomeProps{
		Options: BaseOptions(),
		Locale:  "en",
		Loc:     mapLocalizer{"home.cta": "Read the docs"},
	}))
	assertContains(t, got,
		`<a class="nav-title" href="/en/" aria-label="nav.home"><img class="nav-logo" src="/logo.svg"`,
		`<a class="home-cta" href="/en/docs/">Read the docs</a>`,
	)
	if strings.Contains(got, "language-switcher") {
		t.Fatal("switcher needs at least two languages")
	}
}

func TestNotFoundLayout(t *testing.T) {
	t.Parallel()

	got := render(t, context.Background(), NotFoundLayout(HomeProps{Options: BaseOptions(), Locale: "zh"}))
	assertContains(t, got, `<main class="not-found"><h1>notfound.title</h1>`, `<a href="/zh/">notfound.back</a>`)
}

func TestDocsLayoutLastUpdated(t *testing.T) {
	t.Parallel()

	got := render(t, context.Background(), DocsLayout(DocsProps{
		Options:     BaseOptions(),
		Locale:      "en",
		Loc:         mapLocalizer{"docs.last_updated": "Last updated"},
		Title:       "Dated",
		Translated:  true,
		LastUpdated: "2026-03-01",
	}))
	assertContains(t, got, `<p class="docs-last-updated">Last updated: <time>2026-03-01</time></p>`)
}

func TestRedirect(t *testing.T) {
	t.Parallel()

	got := render(t, context.Background(), Redirect("/en/", "English"))
	assertContains(t, got, `<meta http-equiv="refresh" content="0; url=/en/">`, `<a href="/en/">English</a>`)
}

func TestAbsoluteURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base, ref, want string
	}{
		{"", "/en/", "/en/"},
		{"https://docs.example.com", "/en/", "https://docs.example.com/en/"},
		{"https://example.com/docs/", "/zh/docs/", "https://example.com/docs/zh/docs/"},
		{"https://example.com", "https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"not a url", "/en/", "/en/"},
	}
	for _, tt := range tests {
		if got := absoluteURL(tt.base, tt.ref); got != tt.want {
			t.Fatalf("absoluteURL(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.want)
		}
	}
}

func TestTWithoutLocalizer(t *testing.T) {
	t.Parallel()

	if got := T(nil, "nav.home"); got != "nav.home" {
		t.Fatalf("T(nil) = %q", got)
	}
	if got := T(nil, "%d pages", 3); got != "3 pages" {
		t.Fatalf("T(nil, args) = %q", got)
	}
}
