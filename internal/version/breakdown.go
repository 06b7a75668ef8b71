package version

import (
	"encoding/json"
	"maps"
	"slices"
)

// BreakdownRow is one row of the bid breakdown. Only the fields that define
// folders are kept.
type BreakdownRow struct {
	Assets []string
	Scene  string
}

// UnmarshalJSON reads sg_bid_assets (strings or objects with a name) and
// sg_sequence_code (a string or an object with a name). Malformed entries are skipped.
func (b *BreakdownRow) UnmarshalJSON(data []byte) error {
	var raw struct {
		Assets []json.RawMessage `json:"sg_bid_assets"`
		Scene  json.RawMessage   `json:"sg_sequence_code"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = BreakdownRow{Scene: nameOf(raw.Scene)}
	for _, a := range raw.Assets {
		if name := nameOf(a); name != "" {
			b.Assets = append(b.Assets, name)
		}
	}
	return nil
}

// MarshalJSON writes the row with plain strings.
func (b BreakdownRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Assets []string `json:"sg_bid_assets,omitempty"`
		Scene  string   `json:"sg_sequence_code,omitempty"`
	}{b.Assets, b.Scene})
}

// ExtractFolders returns the unique asset names and scene codes of rows, sorted.
func ExtractFolders(rows []BreakdownRow) (assets, scenes []string) {
	a := map[string]struct{}{}
	s := map[string]struct{}{}
	for _, row := range rows {
		for _, name := range row.Assets {
			a[name] = struct{}{}
		}
		if row.Scene != "" {
			s[row.Scene] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(a)), slices.Sorted(maps.Keys(s))
}
