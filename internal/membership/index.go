package membership

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrUnknownFolder is returned when an operation names a folder that does not exist.
var ErrUnknownFolder = errors.New("unknown folder")

type idSet map[ImageID]struct{}

// Index owns every folder and its image set. It is not safe for concurrent use.
type Index struct {
	folders map[FolderType]map[string]idSet
}

// New creates an index without folders.
func New() *Index {
	return &Index{folders: map[FolderType]map[string]idSet{
		Asset: {},
		Scene: {},
	}}
}

// SetFolders replaces the folders of type t with names. Folders that remain keep
// their images; memberships of removed folders are dropped. Empty and duplicate
// names are ignored.
func (ix *Index) SetFolders(t FolderType, names []string) {
	if !t.valid() {
		return
	}
	old := ix.folders[t]
	next := make(map[string]idSet, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if ids, ok := old[name]; ok {
			next[name] = ids
		} else if _, dup := next[name]; !dup {
			next[name] = idSet{}
		}
	}
	ix.folders[t] = next
}

// AddFolder creates an empty folder if it does not exist yet.
func (ix *Index) AddFolder(t FolderType, name string) {
	if !t.valid() || name == "" {
		return
	}
	if _, ok := ix.folders[t][name]; !ok {
		ix.folders[t][name] = idSet{}
	}
}

// Folders returns the folder names of type t, sorted.
func (ix *Index) Folders(t FolderType) []string {
	return slices.Sorted(maps.Keys(ix.folders[t]))
}

// HasFolder reports whether the folder exists.
func (ix *Index) HasFolder(t FolderType, name string) bool {
	_, ok := ix.folders[t][name]
	return ok
}

func (ix *Index) folder(t FolderType, name string) (idSet, error) {
	ids, ok := ix.folders[t][name]
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", ErrUnknownFolder, t, name)
	}
	return ids, nil
}

// AddImage puts id into the folder. Adding an image twice is a no-op.
func (ix *Index) AddImage(t FolderType, name string, id ImageID) error {
	ids, err := ix.folder(t, name)
	if err != nil {
		return err
	}
	ids[id] = struct{}{}
	return nil
}

// RemoveImage takes id out of the folder. Removing an absent image is a no-op.
func (ix *Index) RemoveImage(t FolderType, name string, id ImageID) error {
	ids, err := ix.folder(t, name)
	if err != nil {
		return err
	}
	delete(ids, id)
	return nil
}

// Contains reports whether id is in the folder.
func (ix *Index) Contains(t FolderType, name string, id ImageID) bool {
	_, ok := ix.folders[t][name][id]
	return ok
}

// Images returns the ids in the folder, sorted. Unknown folders are empty.
func (ix *Index) Images(t FolderType, name string) []ImageID {
	return slices.Sorted(maps.Keys(ix.folders[t][name]))
}

// Count returns the number of images in the folder.
func (ix *Index) Count(t FolderType, name string) int {
	return len(ix.folders[t][name])
}

// FoldersContaining returns every folder holding id: assets first, then scenes,
// each sorted by name.
func (ix *Index) FoldersContaining(id ImageID) []FolderRef {
	var refs []FolderRef
	for _, t := range FolderTypes {
		for _, name := range ix.Folders(t) {
			if _, ok := ix.folders[t][name][id]; ok {
				refs = append(refs, FolderRef{Type: t, Name: name})
			}
		}
	}
	return refs
}

// Export returns the membership of every non-empty folder with ids sorted.
func (ix *Index) Export() Mapping {
	m := Mapping{Assets: map[string][]ImageID{}, Scenes: map[string][]ImageID{}}
	for _, t := range FolderTypes {
		dst := m.forType(t)
		for name, ids := range ix.folders[t] {
			if len(ids) == 0 {
				continue
			}
			dst[name] = slices.Sorted(maps.Keys(ids))
		}
	}
	return m
}

// Import applies m. Each known folder named in m has its image set replaced;
// names that are not folders of the index are skipped and returned.
func (ix *Index) Import(m Mapping) []FolderRef {
	var skipped []FolderRef
	for _, t := range FolderTypes {
		src := m.forType(t)
		for _, name := range slices.Sorted(maps.Keys(src)) {
			if !ix.HasFolder(t, name) {
				skipped = append(skipped, FolderRef{Type: t, Name: name})
				continue
			}
			ids := make(idSet, len(src[name]))
			for _, id := range src[name] {
				ids[id] = struct{}{}
			}
			ix.folders[t][name] = ids
		}
	}
	return skipped
}

// ClearImages empties every folder, keeping the folders themselves.
func (ix *Index) ClearImages() {
	for _, t := range FolderTypes {
		for name := range ix.folders[t] {
			ix.folders[t][name] = idSet{}
		}
	}
}
