package i18nhttp

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveLocale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		target      string
		cookie      string
		accept      string
		want        string
		wantPersist bool
	}{
		{name: "query param", target: "/?lang=zh-CN", want: "zh", wantPersist: true},
		{name: "invalid query falls through to cookie", target: "/?lang=not-a-tag!", cookie: "zh", want: "zh"},
		{name: "cookie", target: "/", cookie: "zh", want: "zh"},
		{name: "accept language", target: "/", accept: "zh-CN,zh;q=0.9,en;q=0.5", want: "zh"},
		{name: "accept language english", target: "/", accept: "en-GB", want: "en"},
		{name: "default", target: "/", want: "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://example.com"+tt.target, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LangCookieName, Value: tt.cookie})
			}
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			got, persist := ResolveLocale(req)
			if got != tt.want || persist != tt.wantPersist {
				t.Fatalf("ResolveLocale() = (%q, %t), want (%q, %t)", got, persist, tt.want, tt.wantPersist)
			}
		})
	}
}

func TestResolveLocaleNilRequest(t *testing.T) {
	t.Parallel()

	if got, _ := ResolveLocale(nil); got != "en" {
		t.Fatalf("ResolveLocale(nil) = %q, want en", got)
	}
}

func TestSetLanguageCookie(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	SetLanguageCookie(rec, "zh")
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != LangCookieName || cookies[0].Value != "zh" {
		t.Fatalf("cookies = %+v", cookies)
	}
}

func TestBuildLanguageOptions(t *testing.T) {
	t.Parallel()

	options := BuildLanguageOptions(
		[]string{"en", "zh"},
		"zh",
		func(locale string) string { return locale + "-label" },
		func(locale string) string { return "/" + locale + "/docs/" },
	)
	if len(options) != 2 {
		t.Fatalf("len(options) = %d, want 2", len(options))
	}
	if options[0].Active || !options[1].Active {
		t.Fatalf("options = %+v, want zh active", options)
	}
	if options[1].URL != "/zh/docs/" || options[1].Label != "zh-label" {
		t.Fatalf("options[1] = %+v", options[1])
	}
	if got := ActiveLanguageLabel(options); got != "zh-label" {
		t.Fatalf("ActiveLanguageLabel() = %q", got)
	}
}

func TestActiveLanguageLabelDefaultsToFirst(t *testing.T) {
	t.Parallel()

	options := BuildLanguageOptions([]string{"en", "zh"}, "fr", nil, nil)
	if got := ActiveLanguageLabel(options); got != "en" {
		t.Fatalf("ActiveLanguageLabel() = %q, want en", got)
	}
	if ActiveLanguageLabel(nil) != "" {
		t.Fatal("expected empty label for no options")
	}
	if LanguageKeyLabel("zh") != "lang.zh" {
		t.Fatalf("LanguageKeyLabel(zh) = %q", LanguageKeyLabel("zh"))
	}
}
