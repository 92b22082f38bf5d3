package build

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/renameio/v2"
	"github.com/louisbranch/adp-docs/internal/services/docs/storage"
)

// output writes export files atomically and consults the build cache.
type output struct {
	dir   string
	cache storage.BuildCache
	force bool
	now   func() time.Time

	mu      sync.Mutex
	written int
	skipped int
}

func newOutput(dir string, cache storage.BuildCache, force bool, now func() time.Time) *output {
	return &output{dir: dir, cache: cache, force: force, now: now}
}

func (o *output) counts() (written int, skipped int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.written, o.skipped
}

func (o *output) filename(rel string) string {
	return filepath.Join(o.dir, filepath.FromSlash(rel))
}

// write stores data at rel unless the cache shows an identical file is
// already in place.
func (o *output) write(ctx context.Context, rel string, data []byte) error {
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])
	filename := o.filename(rel)

	if o.unchanged(ctx, rel, hash, filename) {
		o.mu.Lock()
		o.skipped++
		o.mu.Unlock()
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", rel, err)
	}
	if err := renameio.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	if o.cache != nil {
		if err := o.cache.PutOutput(ctx, storage.Output{
			Path:    rel,
			Hash:    hash,
			Size:    int64(len(data)),
			BuiltAt: o.now(),
		}); err != nil {
			return fmt.Errorf("cache %s: %w", rel, err)
		}
	}
	o.mu.Lock()
	o.written++
	o.mu.Unlock()
	return nil
}

func (o *output) unchanged(ctx context.Context, rel string, hash string, filename string) bool {
	if o.force || o.cache == nil {
		return false
	}
	cached, err := o.cache.GetOutput(ctx, rel)
	if err != nil || cached.Hash != hash {
		return false
	}
	info, err := os.Stat(filename)
	return err == nil && info.Size() == cached.Size
}

// prune deletes files a previous build wrote that this build did not, and
// returns how many were removed.
func (o *output) prune(ctx context.Context, current map[string]struct{}) (int, error) {
	if o.cache == nil {
		return 0, nil
	}
	previous, err := o.cache.ListOutputPaths(ctx)
	if err != nil {
		return 0, err
	}
	var stale []string
	for _, rel := range previous {
		if _, ok := current[rel]; ok {
			continue
		}
		if err := os.Remove(o.filename(rel)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return len(stale), fmt.Errorf("remove %s: %w", rel, err)
		}
		removeEmptyParents(o.dir, filepath.Dir(o.filename(rel)))
		stale = append(stale, rel)
	}
	if err := o.cache.DeleteOutputs(ctx, stale); err != nil {
		return len(stale), err
	}
	return len(stale), nil
}

func removeEmptyParents(root string, dir string) {
	root = filepath.Clean(root)
	for dir = filepath.Clean(dir); dir != root && strings.HasPrefix(dir, root); dir = filepath.Dir(dir) {
		if err := os.Remove(dir); err != nil {
			return
		}
	}
}

// publicAssets lists the files under public/ as copy jobs.
func publicAssets(source fs.FS) ([]job, error) {
	var jobs []job
	err := fs.WalkDir(source, PublicDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == PublicDir {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel := strings.TrimPrefix(p, PublicDir+"/")
		jobs = append(jobs, job{
			path: path.Clean(rel),
			kind: "asset",
			render: func(context.Context) ([]byte, error) {
				return fs.ReadFile(source, p)
			},
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", PublicDir, err)
	}
	return jobs, nil
}
