package membership

import (
	"encoding/json"
	"fmt"
)

// Mapping is the bulk membership format:
//
//	{"assets": {"Hero Ship": [101, 102]}, "scenes": {"SQ010": [101]}}
type Mapping struct {
	Assets map[string][]ImageID `json:"assets"`
	Scenes map[string][]ImageID `json:"scenes"`
}

func (m Mapping) forType(t FolderType) map[string][]ImageID {
	if t == Scene {
		return m.Scenes
	}
	return m.Assets
}

// Empty reports whether m holds no memberships.
func (m Mapping) Empty() bool {
	for _, ids := range m.Assets {
		if len(ids) > 0 {
			return false
		}
	}
	for _, ids := range m.Scenes {
		if len(ids) > 0 {
			return false
		}
	}
	return true
}

// ParseMapping decodes the bulk format. Missing or null sections are empty, and
// ids may be numbers or numeric strings.
func ParseMapping(data []byte) (Mapping, error) {
	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return Mapping{}, fmt.Errorf("parse folder mappings: %w", err)
	}
	if m.Assets == nil {
		m.Assets = map[string][]ImageID{}
	}
	if m.Scenes == nil {
		m.Scenes = map[string][]ImageID{}
	}
	return m, nil
}
