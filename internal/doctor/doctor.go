package doctor

import (
	"context"
	"fmt"
	"io"

	"github.com/raphi011/vsort/internal/fetch"
	"github.com/raphi011/vsort/internal/ui/static"
)

// Options selects what Run checks. Zero fields are skipped.
type Options struct {
	ConfigErr   error            // result of loading the global config
	HistoryFile string           // recently-opened projects
	Cache       *fetch.DiskCache // disk tier to inspect
	ProjectPath string           // project whose saved memberships are checked
}

// Run performs diagnostic checks, prints a report to w and optionally fixes
// issues. It returns the number of issues left unfixed.
func Run(ctx context.Context, w io.Writer, opts Options, fix bool) (int, error) {
	var stats IssueStats
	var allIssues []Issue

	add := func(cat IssueCategory, issues []Issue) {
		for i := range issues {
			issues[i].Category = cat
		}
		allIssues = append(allIssues, issues...)
	}

	fmt.Fprintln(w, "Checking config...")
	add(CategoryConfig, checkConfig(opts.ConfigErr))

	if opts.HistoryFile != "" {
		fmt.Fprintln(w, "Checking history...")
		issues, err := checkHistory(opts.HistoryFile, &stats)
		if err != nil {
			return 0, fmt.Errorf("check history: %w", err)
		}
		add(CategoryHistory, issues)
	}

	if opts.Cache != nil {
		fmt.Fprintln(w, "Checking cache...")
		issues, err := checkCache(opts.Cache, &stats)
		if err != nil {
			return 0, fmt.Errorf("check cache: %w", err)
		}
		add(CategoryCache, issues)
	}

	if opts.ProjectPath != "" {
		fmt.Fprintln(w, "Checking project...")
		issues, err := checkProject(opts.ProjectPath, &stats)
		if err != nil {
			return 0, fmt.Errorf("check project: %w", err)
		}
		add(CategoryProject, issues)
	}

	printSummary(w, opts, stats)

	if len(allIssues) == 0 {
		fmt.Fprintln(w, "\n✓ No issues found")
		return 0, nil
	}

	fmt.Fprintf(w, "\nFound %s:\n", static.Plural(len(allIssues), "issue"))
	printIssuesByCategory(w, allIssues)

	if !fix {
		fmt.Fprintln(w, "\nRun 'vsort doctor --fix' to repair.")
		return len(allIssues), nil
	}

	fixed, err := fixAllIssues(ctx, w, opts, allIssues)
	return len(allIssues) - fixed, err
}

// printSummary prints what was found healthy.
func printSummary(w io.Writer, opts Options, stats IssueStats) {
	fmt.Fprintln(w)
	if opts.HistoryFile != "" {
		fmt.Fprintf(w, "  ✓ %s in history\n", static.Plural(stats.HistoryValid, "project"))
	}
	if opts.Cache != nil {
		fmt.Fprintf(w, "  ✓ %s cached (%s)\n", static.Plural(stats.CacheEntries, "image"), static.FormatBytes(stats.CacheBytes))
	}
	if opts.ProjectPath != "" {
		fmt.Fprintf(w, "  ✓ %s, %s\n", static.Plural(stats.ProjectVersions, "version"), static.Plural(stats.ProjectFolders, "folder"))
	}
}

// printIssuesByCategory groups and prints issues.
func printIssuesByCategory(w io.Writer, issues []Issue) {
	byCategory := make(map[IssueCategory][]Issue)
	for _, issue := range issues {
		byCategory[issue.Category] = append(byCategory[issue.Category], issue)
	}

	for _, cat := range categoryOrder {
		catIssues := byCategory[cat]
		if len(catIssues) == 0 {
			continue
		}

		fmt.Fprintf(w, "\n%s:\n", categoryNames[cat])
		for _, issue := range catIssues {
			fmt.Fprintf(w, "  • %s: %s\n", issue.Key, issue.Description)
		}
	}
}
