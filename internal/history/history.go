// Package history tracks recently opened projects.
// This enables `vsort browse` with no arguments to reopen the last project.
package history

import (
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"time"

	"github.com/raphi011/vsort/internal/storage"
)

// MaxEntries caps how many projects are remembered.
const MaxEntries = 20

// Entry is one remembered project.
type Entry struct {
	Path        string    `json:"path"`
	Name        string    `json:"name,omitempty"`
	LastAccess  time.Time `json:"last_access"`
	AccessCount int       `json:"access_count"`
}

// History is the list of remembered projects, most recent first.
type History struct {
	Entries []Entry `json:"entries"`
}

// DefaultPath returns ~/.vsort/history.json.
func DefaultPath() (string, error) {
	dir, err := storage.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.json"), nil
}

// Load reads the history file. A missing or corrupted file is an empty history.
func Load(file string) (*History, error) {
	var h History
	if err := storage.LoadJSON(file, &h); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &History{}, nil
		}
		var perr *fs.PathError
		if errors.As(err, &perr) {
			return nil, err
		}
		// Corrupted - start fresh
		return &History{}, nil
	}
	return &h, nil
}

// Save writes the history atomically.
func (h *History) Save(file string) error {
	return storage.SaveJSON(file, h)
}

// Touch moves path to the front, bumping its access count.
func (h *History) Touch(path, name string, now time.Time) {
	e := Entry{Path: path, Name: name}
	if i := slices.IndexFunc(h.Entries, func(x Entry) bool { return x.Path == path }); i >= 0 {
		e = h.Entries[i]
		h.Entries = slices.Delete(h.Entries, i, i+1)
		if name != "" {
			e.Name = name
		}
	}
	e.LastAccess = now
	e.AccessCount++

	h.Entries = slices.Insert(h.Entries, 0, e)
	if len(h.Entries) > MaxEntries {
		h.Entries = h.Entries[:MaxEntries]
	}
}

// Remove forgets path. It reports whether path was remembered.
func (h *History) Remove(path string) bool {
	n := len(h.Entries)
	h.Entries = slices.DeleteFunc(h.Entries, func(e Entry) bool { return e.Path == path })
	return len(h.Entries) != n
}

// MostRecent returns the most recently opened project path, or "".
func (h *History) MostRecent() string {
	if len(h.Entries) == 0 {
		return ""
	}
	return h.Entries[0].Path
}

// RecordAccess remembers path as the most recently opened project.
func RecordAccess(path, name, file string) error {
	h, err := Load(file)
	if err != nil {
		return err
	}
	h.Touch(path, name, time.Now())
	return h.Save(file)
}

// GetMostRecent returns the most recently opened project path.
// Returns an empty string if no history exists.
func GetMostRecent(file string) (string, error) {
	h, err := Load(file)
	if err != nil {
		return "", err
	}
	return h.MostRecent(), nil
}
