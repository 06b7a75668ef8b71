package fetch

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/natefinch/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/raphi011/vsort/internal/log"
)

// DefaultMaxAge is how long a downloaded source stays valid on disk.
const DefaultMaxAge = 7 * 24 * time.Hour

const (
	entryPrefix = "src_"
	entrySuffix = ".img"
	lockName    = ".vsort-cache.lock"

	// sweepLimit bounds concurrent file removals during Clear and CleanupExpired.
	sweepLimit = 8
)

// DiskCache stores downloaded source bytes, one file per locator.
// Entries older than the max age are treated as missing.
type DiskCache struct {
	dir      string
	maxAge   time.Duration
	progress func(SweepProgress)
}

// SweepProgress describes a running Clear or CleanupExpired.
type SweepProgress struct {
	Removed int   // entries removed so far
	Total   int   // entries selected for removal
	Freed   int64 // bytes freed so far
}

// WithProgress returns a copy of c that calls fn after each removal of a sweep.
// fn is called from one goroutine at a time.
func (c *DiskCache) WithProgress(fn func(SweepProgress)) *DiskCache {
	cp := *c
	cp.progress = fn
	return &cp
}

// NewDiskCache creates a cache rooted at dir. The directory is created on first
// write. maxAge <= 0 means DefaultMaxAge.
func NewDiskCache(dir string, maxAge time.Duration) *DiskCache {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &DiskCache{dir: dir, maxAge: maxAge}
}

// Dir returns the cache directory.
func (c *DiskCache) Dir() string { return c.dir }

// MaxAge returns how long entries stay valid.
func (c *DiskCache) MaxAge() time.Duration { return c.maxAge }

// EntryName returns the file name used for locator.
func EntryName(locator string) string {
	sum := sha256.Sum256([]byte(locator))
	return entryPrefix + hex.EncodeToString(sum[:12]) + entrySuffix
}

func (c *DiskCache) path(locator string) string {
	return filepath.Join(c.dir, EntryName(locator))
}

// Get returns the cached bytes for locator if present and not expired.
func (c *DiskCache) Get(locator string) ([]byte, bool) {
	p := c.path(locator)
	info, err := os.Stat(p)
	if err != nil || c.expired(info) {
		return nil, false
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put writes data for locator. The file is replaced atomically, so concurrent
// readers see either the old or the new content.
func (c *DiskCache) Put(locator string, data []byte) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := atomic.WriteFile(c.path(locator), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Invalidate removes the entry for locator. A missing entry is not an error.
func (c *DiskCache) Invalidate(locator string) error {
	err := os.Remove(c.path(locator))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Clear removes every entry and returns how many were removed.
func (c *DiskCache) Clear(ctx context.Context) (int, error) {
	return c.sweep(ctx, true, func(os.FileInfo) bool { return true })
}

// CleanupExpired removes entries older than the max age and returns how many
// were removed. It does nothing if another process is already sweeping.
func (c *DiskCache) CleanupExpired(ctx context.Context) (int, error) {
	return c.sweep(ctx, false, c.expired)
}

// Stats summarizes the cache directory.
type Stats struct {
	Dir     string `json:"dir"`
	Files   int    `json:"files"`
	Bytes   int64  `json:"bytes"`
	Expired int    `json:"expired"`
}

// Stats counts entries and their total size. A missing directory is an empty cache.
func (c *DiskCache) Stats() (Stats, error) {
	st := Stats{Dir: c.dir}
	infos, err := c.entries()
	if err != nil {
		return st, err
	}
	for _, info := range infos {
		st.Files++
		st.Bytes += info.Size()
		if c.expired(info) {
			st.Expired++
		}
	}
	return st, nil
}

func (c *DiskCache) expired(info os.FileInfo) bool {
	return time.Since(info.ModTime()) > c.maxAge
}

// entries lists cache files, skipping the lock file and in-progress temp files.
func (c *DiskCache) entries() ([]os.FileInfo, error) {
	dirEntries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var infos []os.FileInfo
	for _, e := range dirEntries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, entryPrefix) || !strings.HasSuffix(name, entrySuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // removed concurrently
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Leftovers returns the paths of files in the cache directory that are neither
// entries nor the lock file, such as temp files of interrupted writes.
func (c *DiskCache) Leftovers() ([]string, error) {
	dirEntries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var paths []string
	for _, e := range dirEntries {
		name := e.Name()
		if e.IsDir() || name == lockName {
			continue
		}
		if strings.HasPrefix(name, entryPrefix) && strings.HasSuffix(name, entrySuffix) {
			continue
		}
		paths = append(paths, filepath.Join(c.dir, name))
	}
	return paths, nil
}

// sweep removes the entries matching remove while holding the directory lock.
// Without wait, a lock held elsewhere makes sweep return 0.
func (c *DiskCache) sweep(ctx context.Context, wait bool, remove func(os.FileInfo) bool) (int, error) {
	l := log.FromContext(ctx)

	infos, err := c.entries()
	if err != nil || len(infos) == 0 {
		return 0, err
	}

	lock := newFileLock(filepath.Join(c.dir, lockName))
	if wait {
		if err := lock.lock(); err != nil {
			return 0, fmt.Errorf("lock cache dir: %w", err)
		}
	} else {
		ok, err := lock.tryLock()
		if err != nil {
			return 0, fmt.Errorf("lock cache dir: %w", err)
		}
		if !ok {
			l.Debug("cache sweep skipped, lock held", "dir", c.dir)
			return 0, nil
		}
	}
	defer func() { _ = lock.unlock() }()

	var selected []os.FileInfo
	for _, info := range infos {
		if remove(info) {
			selected = append(selected, info)
		}
	}

	var (
		mu sync.Mutex
		p  = SweepProgress{Total: len(selected)}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sweepLimit)
	for _, info := range selected {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			err := os.Remove(filepath.Join(c.dir, info.Name()))
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			p.Removed++
			p.Freed += info.Size()
			if c.progress != nil {
				c.progress(p)
			}
			return nil
		})
	}
	err = g.Wait()

	n := p.Removed
	l.Debug("cache sweep", "dir", c.dir, "removed", n, "freed", p.Freed)
	return n, err
}
