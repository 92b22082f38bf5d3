// Package preview serves an exported site locally and rebuilds it when the
// content changes.
package preview

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	platformi18n "github.com/louisbranch/adp-docs/internal/platform/i18n"
	"github.com/louisbranch/adp-docs/internal/services/docs/build"
	"github.com/louisbranch/adp-docs/internal/services/docs/routepath"
	"github.com/louisbranch/adp-docs/internal/services/shared/i18nhttp"
	"github.com/rs/zerolog"
)

// NewHandler serves the export directory dir.
//
// "/" redirects to the visitor's locale. Paths without a locale prefix are
// redirected under the visitor's locale when that page exists. Unknown
// paths get the exported 404 page.
func NewHandler(dir string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(noCache)

	r.Get(routepath.Health, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get(routepath.Root, func(w http.ResponseWriter, r *http.Request) {
		locale, persist := i18nhttp.ResolveLocale(r)
		if persist {
			i18nhttp.SetLanguageCookie(w, locale)
		}
		http.Redirect(w, r, routepath.Home(locale), http.StatusFound)
	})
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		serveExport(w, r, dir)
	})
	r.Head("/*", func(w http.ResponseWriter, r *http.Request) {
		serveExport(w, r, dir)
	})
	return r
}

func serveExport(w http.ResponseWriter, r *http.Request, dir string) {
	urlPath := r.URL.Path
	if file, ok := lookup(dir, urlPath); ok {
		if !strings.HasSuffix(urlPath, "/") && filepath.Base(file) == routepath.IndexFile && path.Base(urlPath) != routepath.IndexFile {
			http.Redirect(w, r, urlPath+"/", http.StatusMovedPermanently)
			return
		}
		http.ServeFile(w, r, file)
		return
	}

	if !platformi18n.IsSupported(routepath.Locale(urlPath)) {
		locale, persist := i18nhttp.ResolveLocale(r)
		localized := routepath.Home(locale) + strings.TrimPrefix(urlPath, "/")
		if _, ok := lookup(dir, localized); ok {
			if persist {
				i18nhttp.SetLanguageCookie(w, locale)
			}
			http.Redirect(w, r, localized, http.StatusFound)
			return
		}
	}
	notFound(w, r, dir)
}

// lookup maps a URL path onto an existing file under dir.
func lookup(dir string, urlPath string) (string, bool) {
	rel := routepath.OutputFile(urlPath)
	candidates := []string{rel}
	if !strings.HasSuffix(urlPath, "/") && path.Ext(rel) == "" {
		candidates = append(candidates, rel+"/"+routepath.IndexFile)
	}
	for _, candidate := range candidates {
		file := filepath.Join(dir, filepath.FromSlash(candidate))
		info, err := os.Stat(file)
		if err == nil && !info.IsDir() {
			return file, true
		}
	}
	return "", false
}

func notFound(w http.ResponseWriter, r *http.Request, dir string) {
	data, err := os.ReadFile(filepath.Join(dir, build.NotFoundFile))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("read 404 page")
		}
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if r.Method != http.MethodHead {
		_, _ = w.Write(data)
	}
}

func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one entry per request and stores the logger on the
// request context.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := logger.With().Str("request_id", chimw.GetReqID(r.Context())).Logger()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(reqLogger.WithContext(r.Context())))
			reqLogger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
