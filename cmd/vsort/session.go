package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/raphi011/vsort/internal/config"
	"github.com/raphi011/vsort/internal/fetch"
	"github.com/raphi011/vsort/internal/history"
	"github.com/raphi011/vsort/internal/imagecache"
	"github.com/raphi011/vsort/internal/log"
	"github.com/raphi011/vsort/internal/membership"
	"github.com/raphi011/vsort/internal/project"
)

// resolveProjectPath returns arg, or the most recently opened project when arg is empty.
func resolveProjectPath(arg string) (string, error) {
	if arg != "" {
		return filepath.Abs(arg)
	}

	file, err := history.DefaultPath()
	if err != nil {
		return "", err
	}
	path, err := history.GetMostRecent(file)
	if err != nil {
		return "", fmt.Errorf("read history: %w", err)
	}
	if path == "" {
		return "", errors.New("no project given and none opened before")
	}
	return path, nil
}

// openSession loads the project at path (or the most recent one) and returns its
// session together with the config that applies to it. The project is
// remembered as the most recent one.
func openSession(ctx context.Context, path string) (*project.Session, *config.Config, error) {
	s, cfg, skipped, err := loadSession(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	l := log.FromContext(ctx)
	for _, f := range skipped {
		l.Warn("saved folder no longer in breakdown", "folder", f)
	}
	return s, cfg, nil
}

// loadSession is openSession without the warnings. It also returns the saved
// folders the breakdown no longer defines.
func loadSession(ctx context.Context, path string) (*project.Session, *config.Config, []membership.FolderRef, error) {
	l := log.FromContext(ctx)

	path, err := resolveProjectPath(path)
	if err != nil {
		return nil, nil, nil, err
	}

	p, err := project.Load(path)
	if err != nil {
		return nil, nil, nil, err
	}

	cfg, err := config.ResolverFromContext(ctx).ConfigForProject(p.Path())
	if err != nil {
		return nil, nil, nil, err
	}

	s, skipped := project.NewSession(p)
	l.Debug("opened project", "path", p.Path(), "versions", len(s.Records()))

	if file, err := history.DefaultPath(); err == nil {
		if err := history.RecordAccess(p.Path(), p.Name, file); err != nil {
			l.Warn("could not update history", "err", err)
		}
	}

	return s, cfg, skipped, nil
}

// newDiskCache returns the disk tier configured by cfg, or nil when disabled.
func newDiskCache(cfg *config.Config) *fetch.DiskCache {
	if cfg.Cache.Disabled {
		return nil
	}
	return fetch.NewDiskCache(cfg.Cache.Dir, cfg.Cache.MaxAge.Duration)
}

// newEngine builds the image engine of one command run.
func newEngine(ctx context.Context, cfg *config.Config) *imagecache.Engine {
	client := fetch.NewClient(fetch.WithDiskCache(newDiskCache(cfg)))
	return imagecache.NewEngine(ctx, client, cfg.Workers, cfg.Thumbnail.Timeout.Duration)
}

// folderError adds close matches to an unknown-folder error.
func folderError(s *project.Session, t membership.FolderType, name string, err error) error {
	if !errors.Is(err, membership.ErrUnknownFolder) {
		return err
	}
	if suggestions := s.Index.Suggest(t, name); len(suggestions) > 0 {
		return fmt.Errorf("%w (did you mean: %s?)", err, strings.Join(suggestions, ", "))
	}
	return err
}
