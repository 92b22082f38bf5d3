package metadata

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultTableIsValid(t *testing.T) {
	t.Parallel()

	if err := Default().Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestResolveSupportedLocaleUsesConfiguredValues(t *testing.T) {
	t.Parallel()

	got := Default().Resolve("zh")
	want := Record{
		Locale:          "zh",
		SiteName:        "ADP Docs",
		Title:           "ADP 集成文档",
		Description:     "聊天前端、后端路由与 ADP 对话平台之间的参数传递约定。",
		Keywords:        []string{"ADP", "智能体", "参数传递", "自定义变量", "集成"},
		OpenGraphLocale: "zh_CN",
		OpenGraphType:   "website",
		Image: Image{
			URL:    "/og-image.png",
			Alt:    "ADP 集成文档",
			Width:  1200,
			Height: 630,
		},
		TwitterCard: "summary_large_image",
		TwitterSite: "@adpdocs",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Resolve(zh) mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveUnknownLocaleEqualsDefault(t *testing.T) {
	t.Parallel()

	table := Default()
	want := table.Resolve("en")
	for _, locale := range []string{"fr", "", "EN", "zh-CN", "pt-BR"} {
		got := table.Resolve(locale)
		// Locale echoes the request; every resolved field must match en.
		got.Locale = want.Locale
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("Resolve(%q) mismatch (-want +got):\n%s", locale, diff)
		}
	}
}

func TestResolveFallsBackPerField(t *testing.T) {
	t.Parallel()

	table, err := Parse([]byte(`
default_locale: "en"
locales:
  en:
    title: "Docs"
    description: "English description"
    keywords: ["docs"]
    og_locale: "en_US"
    image_alt: "Docs logo"
  zh:
    title: "文档"
`))
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}

	got := table.Resolve("zh")
	if got.Title != "文档" {
		t.Fatalf("Title = %q, want zh title", got.Title)
	}
	if got.Description != "English description" {
		t.Fatalf("Description = %q, want default description", got.Description)
	}
	if diff := cmp.Diff([]string{"docs"}, got.Keywords); diff != "" {
		t.Fatalf("Keywords mismatch (-want +got):\n%s", diff)
	}
	if got.OpenGraphLocale != "en_US" {
		t.Fatalf("OpenGraphLocale = %q, want en_US", got.OpenGraphLocale)
	}
	if got.Image.Alt != "Docs logo" {
		t.Fatalf("Image.Alt = %q, want default alt", got.Image.Alt)
	}
}

func TestResolveReturnsIndependentKeywordSlices(t *testing.T) {
	t.Parallel()

	table := Default()
	first := table.Resolve("en")
	first.Keywords[0] = "mutated"
	if table.Resolve("en").Keywords[0] == "mutated" {
		t.Fatal("Resolve must not share keyword storage with the table")
	}
}

func TestValidateRequiresDefaultLocaleFields(t *testing.T) {
	t.Parallel()

	table, err := Parse([]byte(`
default_locale: "en"
locales:
  zh:
    title: "文档"
`))
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if err := table.Validate(); !errors.Is(err, ErrInvalidTable) {
		t.Fatalf("Validate() = %v, want ErrInvalidTable", err)
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte("locales: [")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestMergeOverridesOnlySetFields(t *testing.T) {
	t.Parallel()

	override, err := Parse([]byte(`
site_name: "Partner Docs"
locales:
  zh:
    description: "合作伙伴文档"
`))
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	merged := Default().Merge(override)
	if merged.SiteName != "Partner Docs" {
		t.Fatalf("SiteName = %q", merged.SiteName)
	}
	zh := merged.Resolve("zh")
	if zh.Description != "合作伙伴文档" {
		t.Fatalf("Description = %q, want override", zh.Description)
	}
	if zh.Title != "ADP 集成文档" {
		t.Fatalf("Title = %q, want base zh title", zh.Title)
	}
	if merged.ImageWidth != 1200 {
		t.Fatalf("ImageWidth = %d, want base width", merged.ImageWidth)
	}
}

func TestForPage(t *testing.T) {
	t.Parallel()

	table := Default()
	site := table.Resolve("en")

	got := table.ForPage(site, PageMeta{
		Title:       "Parameter passing",
		Description: "How custom variables reach ADP.",
		Keywords:    []string{"custom variables", "session"},
	})
	if got.Title != "Parameter passing | ADP Docs" {
		t.Fatalf("Title = %q", got.Title)
	}
	if got.Description != "How custom variables reach ADP." {
		t.Fatalf("Description = %q", got.Description)
	}
	if got.OpenGraphType != "article" {
		t.Fatalf("OpenGraphType = %q, want article", got.OpenGraphType)
	}
	wantKeywords := []string{"ADP", "chatbot", "parameter passing", "custom variables", "integration", "session"}
	if diff := cmp.Diff(wantKeywords, got.Keywords); diff != "" {
		t.Fatalf("Keywords mismatch (-want +got):\n%s", diff)
	}

	untouched := table.ForPage(site, PageMeta{})
	if untouched.Title != site.Title || untouched.Description != site.Description {
		t.Fatalf("empty page meta changed site values: %+v", untouched)
	}
}

func TestFormatTitleWithoutTemplate(t *testing.T) {
	t.Parallel()

	if got := (Table{}).FormatTitle("Guide"); got != "Guide" {
		t.Fatalf("FormatTitle() = %q, want Guide", got)
	}
}
