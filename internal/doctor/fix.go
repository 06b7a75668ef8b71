package doctor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/raphi011/vsort/internal/history"
	"github.com/raphi011/vsort/internal/project"
)

// fixAllIssues applies the fix of every fixable issue and returns how many
// were fixed. It keeps going after a failed fix and returns all errors joined.
func fixAllIssues(ctx context.Context, w io.Writer, opts Options, issues []Issue) (int, error) {
	fmt.Fprintln(w, "\nFixing issues...")

	byCategory := make(map[IssueCategory][]Issue)
	for _, issue := range issues {
		if issue.FixAction != FixNone {
			byCategory[issue.Category] = append(byCategory[issue.Category], issue)
		}
	}

	var errs []error
	fixed := 0
	record := func(n int, err error) {
		fixed += n
		if err != nil {
			errs = append(errs, err)
		}
	}

	if len(byCategory[CategoryHistory]) > 0 {
		record(fixHistory(w, opts.HistoryFile, byCategory[CategoryHistory]))
	}
	if len(byCategory[CategoryCache]) > 0 {
		record(fixCache(ctx, w, opts, byCategory[CategoryCache]))
	}
	if len(byCategory[CategoryProject]) > 0 {
		record(fixProject(w, opts.ProjectPath, byCategory[CategoryProject]))
	}

	if manual := len(issues) - fixed; manual > 0 {
		fmt.Fprintf(w, "\n%d issue(s) need manual attention\n", manual)
	} else {
		fmt.Fprintln(w, "\n✓ All issues fixed")
	}
	return fixed, errors.Join(errs...)
}

func fixHistory(w io.Writer, file string, issues []Issue) (int, error) {
	h, err := history.Load(file)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, issue := range issues {
		if h.Remove(issue.Key) {
			fmt.Fprintf(w, "  ✓ Forgot %s\n", issue.Key)
		}
		n++
	}
	if err := h.Save(file); err != nil {
		return 0, fmt.Errorf("save history: %w", err)
	}
	return n, nil
}

func fixCache(ctx context.Context, w io.Writer, opts Options, issues []Issue) (int, error) {
	var errs []error
	n := 0
	for _, issue := range issues {
		switch issue.FixAction {
		case FixClean:
			removed, err := opts.Cache.CleanupExpired(ctx)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			fmt.Fprintf(w, "  ✓ Removed %d expired entries\n", removed)
		case FixRemove:
			err := os.Remove(filepath.Join(opts.Cache.Dir(), issue.Key))
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, err)
				continue
			}
			fmt.Fprintf(w, "  ✓ Removed %s\n", issue.Key)
		default:
			continue
		}
		n++
	}
	return n, errors.Join(errs...)
}

// fixProject drops unknown ids and saves. Saving also drops the memberships of
// folders the breakdown no longer defines.
func fixProject(w io.Writer, path string, issues []Issue) (int, error) {
	p, err := project.Load(path)
	if err != nil {
		return 0, err
	}
	s, _ := project.NewSession(p)

	for _, issue := range issues {
		if issue.FixAction != FixDrop {
			continue
		}
		if err := s.Remove(issue.folder.Type, issue.folder.Name, issue.id); err != nil {
			return 0, err
		}
	}
	if err := s.Save(); err != nil {
		return 0, err
	}

	for _, issue := range issues {
		switch issue.FixAction {
		case FixPrune:
			fmt.Fprintf(w, "  ✓ Dropped memberships of %s\n", issue.Key)
		case FixDrop:
			fmt.Fprintf(w, "  ✓ Removed %s\n", issue.Key)
		}
	}
	return len(issues), nil
}
