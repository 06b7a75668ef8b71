package doctor

import "github.com/raphi011/vsort/internal/membership"

// IssueCategory groups issues by type.
type IssueCategory string

const (
	// CategoryConfig represents problems with the global config file.
	CategoryConfig IssueCategory = "config"
	// CategoryHistory represents stale recently-opened entries.
	CategoryHistory IssueCategory = "history"
	// CategoryCache represents problems in the disk cache directory.
	CategoryCache IssueCategory = "cache"
	// CategoryProject represents saved memberships that no longer apply.
	CategoryProject IssueCategory = "project"
)

var categoryOrder = []IssueCategory{CategoryConfig, CategoryHistory, CategoryCache, CategoryProject}

var categoryNames = map[IssueCategory]string{
	CategoryConfig:  "Config issues",
	CategoryHistory: "History issues",
	CategoryCache:   "Cache issues",
	CategoryProject: "Project issues",
}

// Fix actions.
const (
	FixNone   = ""
	FixForget = "forget" // drop the history entry
	FixClean  = "clean"  // remove expired cache entries
	FixRemove = "remove" // delete the leftover file
	FixPrune  = "prune"  // drop memberships of a removed folder
	FixDrop   = "drop"   // remove an unknown id from a folder
)

// Issue represents a problem detected by doctor.
type Issue struct {
	Key         string        // path, folder or id
	Description string        // human-readable description
	FixAction   string        // what --fix would do
	Category    IssueCategory // issue category

	folder membership.FolderRef // for FixPrune and FixDrop
	id     membership.ImageID
}

// IssueStats tracks healthy counts by category.
type IssueStats struct {
	HistoryValid    int // remembered projects that exist
	CacheEntries    int // cache entries on disk
	CacheBytes      int64
	ProjectVersions int // image versions in the project
	ProjectFolders  int // folders derived from the breakdown
}
