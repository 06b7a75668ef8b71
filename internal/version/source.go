package version

import (
	"encoding/json"
	"path"
	"strings"
)

// Source is where an image comes from: a [DirectURL] or a [Reference].
type Source interface {
	// Locator returns the URL or path to fetch, or "" if there is none.
	Locator() string
	isSource()
}

// DirectURL is a plain URL string.
type DirectURL string

func (u DirectURL) Locator() string { return string(u) }
func (DirectURL) isSource() {}

// Reference is an attachment object with a URL and/or a local path.
type Reference struct {
	URL       string `json:"url,omitempty"`
	LocalPath string `json:"local_path,omitempty"`
	LinkType  string `json:"link_type,omitempty"`
	Name      string `json:"name,omitempty"`
}

// Locator prefers the URL over the local path.
func (r Reference) Locator() string {
	if r.URL != "" {
		return r.URL
	}
	return r.LocalPath
}

func (Reference) isSource() {}

// Locator returns s.Locator(), or "" for a nil source.
func Locator(s Source) string {
	if s == nil {
		return ""
	}
	return s.Locator()
}

// parseSource reads a string or an attachment object. Anything else is no source.
func parseSource(raw json.RawMessage) Source {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return nil
		}
		return DirectURL(s)
	}
	var ref Reference
	if err := json.Unmarshal(raw, &ref); err == nil && ref.Locator() != "" {
		return ref
	}
	return nil
}

var videoExts = map[string]bool{
	".mov": true, ".mp4": true, ".m4v": true, ".avi": true,
	".mkv": true, ".webm": true, ".mxf": true,
}

// isVideo reports whether the source points at a movie file.
func isVideo(s Source) bool {
	loc := Locator(s)
	if ref, ok := s.(Reference); ok && ref.Name != "" {
		loc = ref.Name
	}
	if i := strings.IndexAny(loc, "?#"); i >= 0 {
		loc = loc[:i]
	}
	return videoExts[strings.ToLower(path.Ext(loc))]
}
