// Package render derives how a thumbnail is drawn from its folder membership.
package render

import (
	"fmt"
	"strings"

	"github.com/raphi011/vsort/internal/membership"
)

// BorderClass is the border a thumbnail gets.
type BorderClass int

const (
	Default BorderClass = iota
	SingleMembership
	MultiMembership
	Selected
)

func (c BorderClass) String() string {
	switch c {
	case Selected:
		return "selected"
	case MultiMembership:
		return "multi"
	case SingleMembership:
		return "single"
	default:
		return "default"
	}
}

// Color returns the hex colour of the border class.
func (c BorderClass) Color() string {
	switch c {
	case Selected:
		return "#4a9eff"
	case MultiMembership:
		return "#ff8c00"
	case SingleMembership:
		return "#00cc00"
	default:
		return "#444444"
	}
}

// Derive picks the border class. Selection wins over membership.
func Derive(selected bool, folders []membership.FolderRef) BorderClass {
	switch {
	case selected:
		return Selected
	case len(folders) >= 2:
		return MultiMembership
	case len(folders) == 1:
		return SingleMembership
	default:
		return Default
	}
}

// State is everything a view needs to draw one thumbnail.
type State struct {
	Border  BorderClass
	Folders []membership.FolderRef
	Tooltip string
}

// For looks up id in ix and derives its state.
func For(ix *membership.Index, id membership.ImageID, selected bool) State {
	folders := ix.FoldersContaining(id)
	return State{
		Border:  Derive(selected, folders),
		Folders: folders,
		Tooltip: Tooltip(folders),
	}
}

// Tooltip describes where an image was dropped, e.g.
// "Dropped to 2 folder(s): Asset: Hero Ship, Scene: SQ010". Empty if none.
func Tooltip(folders []membership.FolderRef) string {
	if len(folders) == 0 {
		return ""
	}
	labels := make([]string, len(folders))
	for i, f := range folders {
		labels[i] = f.Label()
	}
	return fmt.Sprintf("Dropped to %d folder(s): %s", len(folders), strings.Join(labels, ", "))
}
