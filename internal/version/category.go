package version

import "strings"

// Category groups versions for filtering.
type Category int

const (
	ConceptArt Category = iota
	Storyboard
	ReferenceArt
	Video
)

// Categories lists every category in display order.
var Categories = []Category{ConceptArt, Storyboard, ReferenceArt, Video}

func (c Category) String() string {
	switch c {
	case Storyboard:
		return "Storyboard"
	case ReferenceArt:
		return "Reference"
	case Video:
		return "Video"
	default:
		return "Concept Art"
	}
}

// Classify maps a version type tag to a category. Unknown tags are Concept Art.
func Classify(tag string) Category {
	t := strings.ToLower(tag)
	switch {
	case strings.Contains(t, "concept"), strings.Contains(t, "art"):
		return ConceptArt
	case strings.Contains(t, "storyboard"):
		return Storyboard
	case strings.Contains(t, "ref"):
		return ReferenceArt
	case strings.Contains(t, "video"), strings.Contains(t, "movie"):
		return Video
	default:
		return ConceptArt
	}
}
