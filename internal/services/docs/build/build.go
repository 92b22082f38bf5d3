// Package build exports the documentation site to static files: one page
// tree per locale, a root redirect, the sitemap and per-locale search indexes.
package build

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strings"
	"sync"
	"time"

	platformi18n "github.com/louisbranch/adp-docs/internal/platform/i18n"
	"github.com/louisbranch/adp-docs/internal/platform/i18n/catalog"
	"github.com/louisbranch/adp-docs/internal/platform/logging"
	platformotel "github.com/louisbranch/adp-docs/internal/platform/otel"
	"github.com/louisbranch/adp-docs/internal/services/docs/content"
	"github.com/louisbranch/adp-docs/internal/services/docs/markdown"
	"github.com/louisbranch/adp-docs/internal/services/docs/siteconfig"
	"github.com/louisbranch/adp-docs/internal/services/docs/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// PublicDir holds static assets copied verbatim into the export root.
const PublicDir = "public"

// Config controls one Builder.
type Config struct {
	// Source is the site root holding content/, public/ and site.yaml.
	Source fs.FS
	// OutDir is the export directory on disk.
	OutDir string
	// SiteFile names the site configuration inside Source.
	SiteFile string
	// BaseURL overrides the base URL from the site configuration.
	BaseURL string
	// Concurrency bounds parallel renders; zero uses GOMAXPROCS.
	Concurrency int
	// Force rewrites every output even when the cache says it is unchanged.
	Force bool
	// Cache enables incremental builds; nil writes every output.
	Cache storage.BuildCache
	// Now is the clock used for cache records.
	Now func() time.Time
}

// Report summarizes one build.
type Report struct {
	Locales  []string
	Pages    int
	Written  int
	Skipped  int
	Removed  int
	Duration time.Duration
}

// Builder renders the site. A Builder is safe for sequential reuse, which is
// how the preview server rebuilds on change.
type Builder struct {
	cfg      Config
	bundle   *catalog.Bundle
	renderer *markdown.Renderer
}

// New validates cfg and prepares the translation catalogs.
func New(cfg Config) (*Builder, error) {
	if cfg.Source == nil {
		return nil, errors.New("source filesystem is required")
	}
	if strings.TrimSpace(cfg.OutDir) == "" {
		return nil, errors.New("output directory is required")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.GOMAXPROCS(0)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	bundle, err := catalog.LoadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("load catalogs: %w", err)
	}
	if err := bundle.Register(); err != nil {
		return nil, fmt.Errorf("register catalogs: %w", err)
	}
	return &Builder{cfg: cfg, bundle: bundle, renderer: markdown.New()}, nil
}

// site is everything one build renders from.
type site struct {
	config  siteconfig.Site
	source  *content.Source
	locales []string
	trees   map[string]content.Tree
	// slugs holds the doc pages exported for each locale. Pages, search
	// and the sitemap all read from it.
	slugs map[string][]string
	docs  *documentCache
}

// Build renders every locale and writes the export directory.
func (b *Builder) Build(ctx context.Context) (Report, error) {
	start := b.cfg.Now()
	ctx, span := platformotel.Tracer().Start(ctx, "docs.build")
	defer span.End()
	logger := logging.ComponentFromContext(ctx, "build")

	report, err := b.build(ctx)
	report.Duration = b.cfg.Now().Sub(start)
	span.SetAttributes(
		attribute.Int("docs.pages", report.Pages),
		attribute.Int("docs.written", report.Written),
		attribute.Int("docs.skipped", report.Skipped),
		attribute.Int("docs.removed", report.Removed),
	)

	if b.cfg.Cache != nil {
		record := storage.Build{
			StartedAt:  start,
			FinishedAt: start.Add(report.Duration),
			Written:    report.Written,
			Skipped:    report.Skipped,
			Removed:    report.Removed,
		}
		if err != nil {
			record.Error = err.Error()
		}
		if _, recErr := b.cfg.Cache.RecordBuild(context.WithoutCancel(ctx), record); recErr != nil {
			logger.Warn().Err(recErr).Msg("record build")
		}
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return report, err
	}
	logger.Info().
		Strs("locales", report.Locales).
		Int("pages", report.Pages).
		Int("written", report.Written).
		Int("skipped", report.Skipped).
		Int("removed", report.Removed).
		Dur("duration", report.Duration).
		Str("out", b.cfg.OutDir).
		Msg("site exported")
	return report, nil
}

func (b *Builder) build(ctx context.Context) (Report, error) {
	s, err := b.load(ctx)
	if err != nil {
		return Report{}, err
	}
	report := Report{Locales: s.locales}
	for _, locale := range s.locales {
		report.Pages += len(s.slugs[locale])
	}

	jobs, err := b.plan(s)
	if err != nil {
		return report, err
	}
	out := newOutput(b.cfg.OutDir, b.cfg.Cache, b.cfg.Force, b.cfg.Now)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Concurrency)
	for _, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := b.runJob(gctx, j)
			if err != nil {
				return fmt.Errorf("render %s: %w", j.path, err)
			}
			return out.write(gctx, j.path, data)
		})
	}
	if err := g.Wait(); err != nil {
		report.Written, report.Skipped = out.counts()
		return report, err
	}

	removed, err := out.prune(ctx, jobPaths(jobs))
	report.Written, report.Skipped = out.counts()
	report.Removed = removed
	if err != nil {
		return report, fmt.Errorf("prune stale outputs: %w", err)
	}
	return report, nil
}

// load reads the site configuration and content collections.
func (b *Builder) load(ctx context.Context) (*site, error) {
	config, err := siteconfig.Load(b.cfg.Source, b.cfg.SiteFile)
	if err != nil {
		return nil, err
	}
	if base := strings.TrimRight(strings.TrimSpace(b.cfg.BaseURL), "/"); base != "" {
		config.BaseURL = base
		if err := config.Validate(); err != nil {
			return nil, err
		}
	}
	source, err := content.Load(ctx, b.cfg.Source, content.DefaultCollections())
	if err != nil {
		return nil, err
	}
	locales := platformi18n.Locales()
	trees := make(map[string]content.Tree, len(locales))
	slugs := make(map[string][]string, len(locales))
	for _, locale := range locales {
		trees[locale] = source.Tree(locale)
		slugs[locale] = source.LocaleSlugs(locale)
	}
	return &site{
		config:  config,
		source:  source,
		locales: locales,
		trees:   trees,
		slugs:   slugs,
		docs:    newDocumentCache(b.renderer),
	}, nil
}

// job renders one output file.
type job struct {
	path   string
	kind   string
	render func(ctx context.Context) ([]byte, error)
}

func (b *Builder) runJob(ctx context.Context, j job) ([]byte, error) {
	ctx, span := platformotel.Tracer().Start(ctx, "docs.render")
	defer span.End()
	span.SetAttributes(
		attribute.String("docs.output", j.path),
		attribute.String("docs.kind", j.kind),
	)
	data, err := j.render(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return data, err
}

func jobPaths(jobs []job) map[string]struct{} {
	paths := make(map[string]struct{}, len(jobs))
	for _, j := range jobs {
		paths[j.path] = struct{}{}
	}
	return paths
}

// documentCache renders each source file once per build, so fallback pages
// shared by several locales are converted a single time.
type documentCache struct {
	renderer *markdown.Renderer
	mu       sync.Mutex
	docs     map[string]*cachedDocument
}

type cachedDocument struct {
	once sync.Once
	doc  markdown.Document
	err  error
}

func newDocumentCache(renderer *markdown.Renderer) *documentCache {
	return &documentCache{renderer: renderer, docs: map[string]*cachedDocument{}}
}

func (c *documentCache) get(page *content.Page) (markdown.Document, error) {
	c.mu.Lock()
	entry, ok := c.docs[page.Path]
	if !ok {
		entry = &cachedDocument{}
		c.docs[page.Path] = entry
	}
	c.mu.Unlock()
	entry.once.Do(func() {
		entry.doc, entry.err = c.renderer.Render(page.Body, page.MDX)
	})
	return entry.doc, entry.err
}
