package doctor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/raphi011/vsort/internal/fetch"
	"github.com/raphi011/vsort/internal/history"
	"github.com/raphi011/vsort/internal/membership"
	"github.com/raphi011/vsort/internal/project"
)

func checkConfig(loadErr error) []Issue {
	if loadErr == nil {
		return nil
	}
	return []Issue{{
		Key:         "config.toml",
		Description: loadErr.Error(),
		FixAction:   FixNone,
	}}
}

// checkHistory finds remembered projects whose file is gone.
func checkHistory(file string, stats *IssueStats) ([]Issue, error) {
	h, err := history.Load(file)
	if err != nil {
		return nil, err
	}

	var issues []Issue
	for _, e := range h.Entries {
		if _, err := os.Stat(e.Path); errors.Is(err, fs.ErrNotExist) {
			issues = append(issues, Issue{
				Key:         e.Path,
				Description: "project file no longer exists",
				FixAction:   FixForget,
			})
			continue
		}
		stats.HistoryValid++
	}
	return issues, nil
}

// checkCache finds expired entries and leftover files.
func checkCache(disk *fetch.DiskCache, stats *IssueStats) ([]Issue, error) {
	st, err := disk.Stats()
	if err != nil {
		return nil, err
	}
	stats.CacheEntries = st.Files - st.Expired
	stats.CacheBytes = st.Bytes

	var issues []Issue
	if st.Expired > 0 {
		issues = append(issues, Issue{
			Key:         disk.Dir(),
			Description: fmt.Sprintf("%d expired (older than %s)", st.Expired, disk.MaxAge()),
			FixAction:   FixClean,
		})
	}

	leftovers, err := disk.Leftovers()
	if err != nil {
		return nil, err
	}
	for _, path := range leftovers {
		issues = append(issues, Issue{
			Key:         filepath.Base(path),
			Description: "not a cache entry (interrupted write?)",
			FixAction:   FixRemove,
		})
	}
	return issues, nil
}

// checkProject finds saved memberships that do not apply to the project.
func checkProject(path string, stats *IssueStats) ([]Issue, error) {
	p, err := project.Load(path)
	if err != nil {
		return nil, err
	}
	s, skipped := project.NewSession(p)
	stats.ProjectVersions = len(s.Records())

	var issues []Issue
	for _, f := range skipped {
		issues = append(issues, Issue{
			Key:         f.Label(),
			Description: "saved memberships for a folder no longer in the breakdown",
			FixAction:   FixPrune,
			folder:      f,
		})
	}

	for _, t := range membership.FolderTypes {
		for _, name := range s.Index.Folders(t) {
			stats.ProjectFolders++
			f := membership.FolderRef{Type: t, Name: name}
			for _, id := range s.Index.Images(t, name) {
				if _, ok := s.Record(id); ok {
					continue
				}
				issues = append(issues, Issue{
					Key:         fmt.Sprintf("%s #%s", f.Label(), id),
					Description: "image is not a version of the project",
					FixAction:   FixDrop,
					folder:      f,
					id:          id,
				})
			}
		}
	}
	return issues, nil
}
