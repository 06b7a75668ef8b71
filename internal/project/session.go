package project

import (
	"cmp"
	"slices"
	"strings"

	"github.com/raphi011/vsort/internal/membership"
	"github.com/raphi011/vsort/internal/version"
)

// Session is an opened project: its records and the live membership index.
type Session struct {
	Project *Project
	Index   *membership.Index

	records []version.Record
	byID    map[membership.ImageID]int
	dirty   bool
}

// NewSession builds the index from the project's breakdown and applies the saved
// folder mappings. Saved mappings for folders the breakdown no longer defines are
// returned as skipped.
func NewSession(p *Project) (*Session, []membership.FolderRef) {
	s := &Session{
		Project: p,
		Index:   membership.New(),
		byID:    make(map[membership.ImageID]int),
	}

	for _, r := range p.Versions {
		if _, dup := s.byID[r.ID]; dup {
			continue
		}
		if !r.IsImage() && r.ThumbnailLocator() == "" {
			continue
		}
		s.byID[r.ID] = len(s.records)
		s.records = append(s.records, r)
	}

	assets, scenes := version.ExtractFolders(p.Breakdown)
	s.Index.SetFolders(membership.Asset, assets)
	s.Index.SetFolders(membership.Scene, scenes)

	var skipped []membership.FolderRef
	if p.FolderMappings != nil {
		skipped = s.Index.Import(*p.FolderMappings)
	}
	return s, skipped
}

// Records returns the image records in project order.
func (s *Session) Records() []version.Record {
	return s.records
}

// Record returns the record with id.
func (s *Session) Record(id membership.ImageID) (version.Record, bool) {
	i, ok := s.byID[id]
	if !ok {
		return version.Record{}, false
	}
	return s.records[i], true
}

// Add drops id into a folder and marks the session modified.
func (s *Session) Add(t membership.FolderType, name string, id membership.ImageID) error {
	if err := s.Index.AddImage(t, name, id); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// Remove takes id out of a folder and marks the session modified.
func (s *Session) Remove(t membership.FolderType, name string, id membership.ImageID) error {
	if err := s.Index.RemoveImage(t, name, id); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// Import applies a bulk mapping and marks the session modified.
func (s *Session) Import(m membership.Mapping) []membership.FolderRef {
	s.dirty = true
	return s.Index.Import(m)
}

// SyncResult lists folders created or dropped by Sync.
type SyncResult struct {
	Added   []membership.FolderRef
	Removed []membership.FolderRef
}

// Sync rebuilds the folders from the breakdown. Folders that disappear lose
// their memberships.
func (s *Session) Sync() SyncResult {
	var res SyncResult
	assets, scenes := version.ExtractFolders(s.Project.Breakdown)
	for t, names := range map[membership.FolderType][]string{membership.Asset: assets, membership.Scene: scenes} {
		before := s.Index.Folders(t)
		for _, n := range names {
			if !slices.Contains(before, n) {
				res.Added = append(res.Added, membership.FolderRef{Type: t, Name: n})
			}
		}
		for _, n := range before {
			if !slices.Contains(names, n) {
				res.Removed = append(res.Removed, membership.FolderRef{Type: t, Name: n})
			}
		}
		s.Index.SetFolders(t, names)
	}
	sortRefs(res.Added)
	sortRefs(res.Removed)
	if len(res.Added) > 0 || len(res.Removed) > 0 {
		s.dirty = true
	}
	return res
}

func sortRefs(refs []membership.FolderRef) {
	slices.SortFunc(refs, func(a, b membership.FolderRef) int {
		return cmp.Or(cmp.Compare(a.Type, b.Type), strings.Compare(a.Name, b.Name))
	})
}

// Dirty reports whether memberships changed since the last save.
func (s *Session) Dirty() bool {
	return s.dirty
}

// Save stores the current memberships in the project and writes the file.
func (s *Session) Save() error {
	m := s.Index.Export()
	s.Project.FolderMappings = &m
	if err := s.Project.Save(); err != nil {
		return err
	}
	s.dirty = false
	return nil
}
