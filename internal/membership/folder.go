// Package membership tracks which images have been dropped into which folders.
//
// There are two folder types, assets and scenes. Folder names are unique per type.
// An image can be in any number of folders; the reverse lookup scans all folders.
package membership

import (
	"fmt"
	"strconv"
	"strings"
)

// FolderType is the kind of folder.
type FolderType int

const (
	Asset FolderType = iota
	Scene
)

// FolderTypes lists every type in display order.
var FolderTypes = []FolderType{Asset, Scene}

func (t FolderType) String() string {
	switch t {
	case Asset:
		return "asset"
	case Scene:
		return "scene"
	default:
		return "unknown"
	}
}

// Title returns the capitalized name used in labels ("Asset", "Scene").
func (t FolderType) Title() string {
	switch t {
	case Asset:
		return "Asset"
	case Scene:
		return "Scene"
	default:
		return "Unknown"
	}
}

func (t FolderType) valid() bool {
	return t == Asset || t == Scene
}

// ParseFolderType accepts "asset", "assets", "scene" or "scenes" in any case.
func ParseFolderType(s string) (FolderType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asset", "assets":
		return Asset, nil
	case "scene", "scenes":
		return Scene, nil
	default:
		return 0, fmt.Errorf("invalid folder type %q (valid: asset, scene)", s)
	}
}

// FolderRef names one folder.
type FolderRef struct {
	Type FolderType
	Name string
}

// Label returns the display form, e.g. "Asset: Hero Ship".
func (f FolderRef) Label() string {
	return f.Type.Title() + ": " + f.Name
}

func (f FolderRef) String() string {
	return f.Type.String() + "/" + f.Name
}

// ImageID identifies an image record.
type ImageID int

func (id ImageID) String() string {
	return strconv.Itoa(int(id))
}

// UnmarshalJSON accepts a number or a numeric string.
func (id *ImageID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid image id %s", data)
	}
	*id = ImageID(n)
	return nil
}

// ParseImageID parses a decimal image id.
func ParseImageID(s string) (ImageID, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid image id %q", s)
	}
	return ImageID(n), nil
}
