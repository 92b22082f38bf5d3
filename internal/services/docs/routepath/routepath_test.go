package routepath

import "testing"

func TestLocaleRoutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "home", got: Home("en"), want: "/en/"},
		{name: "docs", got: Docs("zh"), want: "/zh/docs/"},
		{name: "doc root", got: Doc("en", ""), want: "/en/docs/"},
		{name: "doc", got: Doc("en", "adp-parameter-passing"), want: "/en/docs/adp-parameter-passing/"},
		{name: "nested doc", got: Doc("zh", "guides/setup"), want: "/zh/docs/guides/setup/"},
		{name: "escaped doc", got: Doc("en", "a b"), want: "/en/docs/a%20b/"},
		{name: "search", got: Search("en"), want: "/en/search.json"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Fatalf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestOutputFile(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"/":                    "index.html",
		"/en/":                 "en/index.html",
		"/en/docs/guide/":      "en/docs/guide/index.html",
		"/en/search.json":      "en/search.json",
		"/sitemap.xml":         "sitemap.xml",
		"/en/docs/a%20b/":      "en/docs/a b/index.html",
		"/en/../../etc/passwd": "etc/passwd",
	}
	for route, want := range tests {
		if got := OutputFile(route); got != want {
			t.Fatalf("OutputFile(%q) = %q, want %q", route, got, want)
		}
	}
}

func TestLocale(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"/zh/docs/": "zh",
		"/en":       "en",
		"/":         "",
		"/site.css": "site.css",
	}
	for route, want := range tests {
		if got := Locale(route); got != want {
			t.Fatalf("Locale(%q) = %q, want %q", route, got, want)
		}
	}
}
