package build

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/a-h/templ"
	platformi18n "github.com/louisbranch/adp-docs/internal/platform/i18n"
	"github.com/louisbranch/adp-docs/internal/platform/i18n/catalog"
	"github.com/louisbranch/adp-docs/internal/services/docs/content"
	"github.com/louisbranch/adp-docs/internal/services/docs/layout"
	"github.com/louisbranch/adp-docs/internal/services/docs/metadata"
	"github.com/louisbranch/adp-docs/internal/services/docs/routepath"
	"github.com/louisbranch/adp-docs/internal/services/shared/i18nhttp"
)

// NotFoundFile is the page served for unknown routes.
const NotFoundFile = "404.html"

// Stylesheet is the site stylesheet shipped in public/.
const Stylesheet = "/site.css"

// plan lists every output of the build.
func (b *Builder) plan(s *site) ([]job, error) {
	var jobs []job
	add := func(route string, kind string, render func(ctx context.Context) ([]byte, error)) {
		jobs = append(jobs, job{path: routepath.OutputFile(route), kind: kind, render: render})
	}

	add(routepath.Root, "redirect", func(ctx context.Context) ([]byte, error) {
		return renderComponent(ctx, layout.Redirect(
			routepath.Home(platformi18n.DefaultLocale),
			b.bundle.T(platformi18n.DefaultLocale, "redirect.label"),
		))
	})
	add("/"+NotFoundFile, "notfound", func(ctx context.Context) ([]byte, error) {
		return b.renderNotFound(ctx, s, platformi18n.DefaultLocale)
	})
	add(routepath.Sitemap, "sitemap", func(context.Context) ([]byte, error) {
		return renderSitemap(s)
	})
	add(routepath.Robots, "robots", func(context.Context) ([]byte, error) {
		return renderRobots(s.config.BaseURL), nil
	})

	for _, locale := range s.locales {
		add(routepath.Home(locale), "home", func(ctx context.Context) ([]byte, error) {
			return b.renderHome(ctx, s, locale)
		})
		add(routepath.Search(locale), "search", func(context.Context) ([]byte, error) {
			return b.renderSearch(s, locale)
		})
		for _, slug := range s.slugs[locale] {
			add(routepath.Doc(locale, slug), "doc", func(ctx context.Context) ([]byte, error) {
				return b.renderDoc(ctx, s, locale, slug)
			})
		}
	}

	assets, err := publicAssets(b.cfg.Source)
	if err != nil {
		return nil, err
	}
	generated := jobPaths(jobs)
	for _, asset := range assets {
		if _, clash := generated[asset.path]; clash {
			return nil, fmt.Errorf("public asset %s collides with a generated page", asset.path)
		}
		jobs = append(jobs, asset)
	}
	return jobs, nil
}

func (b *Builder) localizer(locale string) layout.Localizer {
	return catalog.Printer(locale)
}

func (b *Builder) languages(s *site, active string, routeFor func(locale string) string) []i18nhttp.LanguageOption {
	return i18nhttp.BuildLanguageOptions(s.locales, active,
		func(locale string) string { return b.bundle.T(locale, i18nhttp.LanguageKeyLabel(locale)) },
		routeFor,
	)
}

func (b *Builder) rootProps(s *site, locale string, record metadata.Record, routeFor func(locale string) string) layout.RootProps {
	alternates := make([]layout.Alternate, 0, len(s.locales)+1)
	for _, candidate := range s.locales {
		alternates = append(alternates, layout.Alternate{
			Locale:          candidate,
			HrefLang:        candidate,
			URL:             routeFor(candidate),
			OpenGraphLocale: s.config.Metadata.Resolve(candidate).OpenGraphLocale,
		})
	}
	alternates = append(alternates, layout.Alternate{HrefLang: "x-default", URL: routeFor(platformi18n.DefaultLocale)})
	return layout.RootProps{
		Locale:       locale,
		Meta:         record,
		BaseURL:      s.config.BaseURL,
		CanonicalURL: routeFor(locale),
		Alternates:   alternates,
		Translations: b.bundle.Messages(locale),
		Languages:    b.languages(s, locale, routeFor),
		Stylesheets:  []string{Stylesheet},
	}
}

func (b *Builder) renderHome(ctx context.Context, s *site, locale string) ([]byte, error) {
	record := s.config.Metadata.Resolve(locale)
	props := b.rootProps(s, locale, record, routepath.Home)
	body := layout.HomeLayout(layout.HomeProps{
		Options:   layout.OptionsFor(s.config.Brand),
		Locale:    locale,
		Loc:       b.localizer(locale),
		Languages: props.Languages,
	})
	return renderComponent(templ.WithChildren(ctx, body), layout.RootLayout(props))
}

func (b *Builder) renderNotFound(ctx context.Context, s *site, locale string) ([]byte, error) {
	record := s.config.Metadata.Resolve(locale)
	record.Title = s.config.Metadata.FormatTitle(b.bundle.T(locale, "notfound.title"))
	props := b.rootProps(s, locale, record, routepath.Home)
	props.CanonicalURL = ""
	props.Alternates = nil
	body := layout.NotFoundLayout(layout.HomeProps{
		Options:   layout.OptionsFor(s.config.Brand),
		Locale:    locale,
		Loc:       b.localizer(locale),
		Languages: props.Languages,
	})
	return renderComponent(templ.WithChildren(ctx, body), layout.RootLayout(props))
}

func (b *Builder) renderDoc(ctx context.Context, s *site, locale string, slug string) ([]byte, error) {
	page, translated, err := s.source.Page(locale, slug)
	if err != nil {
		return nil, err
	}
	doc, err := s.docs.get(page)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", page.Path, err)
	}

	fm := page.Frontmatter
	record := s.config.Metadata.ForPage(s.config.Metadata.Resolve(locale), metadata.PageMeta{
		Title:       fm.Title,
		Description: fm.Description,
		Keywords:    fm.Keywords,
	})
	routeFor := func(l string) string {
		if !s.source.Has(l, slug) {
			return routepath.Home(l)
		}
		return routepath.Doc(l, slug)
	}
	props := b.rootProps(s, locale, record, routeFor)
	props.Alternates = slices.DeleteFunc(props.Alternates, func(alt layout.Alternate) bool {
		if alt.Locale == "" {
			return !s.source.Has(platformi18n.DefaultLocale, slug)
		}
		return !s.source.Has(alt.Locale, slug)
	})

	tree := s.trees[locale]
	previous, next := tree.Neighbours(slug)
	body := layout.DocsLayout(layout.DocsProps{
		Options:     layout.OptionsFor(s.config.Brand),
		Locale:      locale,
		Loc:         b.localizer(locale),
		Tree:        tree,
		Slug:        slug,
		Title:       fm.Title,
		Description: fm.Description,
		Body:        doc.HTML,
		TOC:         doc.TOC,
		Previous:    previous,
		Next:        next,
		Translated:  translated,
		EditURL:     editURL(s.config.Brand.RepositoryURL, s.config.Brand.EditBranch, page.Path),
		LastUpdated: lastUpdated(fm),
		Full:        fm.Full,
		Languages:   props.Languages,
	})
	return renderComponent(templ.WithChildren(ctx, body), layout.RootLayout(props))
}

func renderComponent(ctx context.Context, component templ.Component) ([]byte, error) {
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// editURL points at the source file on the repository host.
func editURL(repository string, branch string, sourcePath string) string {
	repository = strings.TrimRight(strings.TrimSpace(repository), "/")
	if repository == "" || sourcePath == "" {
		return ""
	}
	if branch == "" {
		branch = "main"
	}
	return repository + "/edit/" + branch + "/" + strings.TrimPrefix(sourcePath, "/")
}

// lastUpdated formats the optional last_updated frontmatter value.
func lastUpdated(fm content.Frontmatter) string {
	switch value := fm.Extra["last_updated"].(type) {
	case time.Time:
		return value.UTC().Format(time.DateOnly)
	case string:
		return strings.TrimSpace(value)
	}
	return ""
}
