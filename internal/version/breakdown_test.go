package version

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractFolders(t *testing.T) {
	t.Parallel()

	data := []byte(`[
		{"sg_bid_assets": ["Hero Ship", {"type": "Asset", "name": "Station"}], "sg_sequence_code": "SQ020"},
		{"sg_bid_assets": [{"name": "Hero Ship"}, {"name": ""}, 7], "sg_sequence_code": {"name": "SQ010"}},
		{"sg_bid_assets": null, "sg_sequence_code": null},
		{"other": "field"}
	]`)

	var rows []BreakdownRow
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	assets, scenes := ExtractFolders(rows)
	if diff := cmp.Diff([]string{"Hero Ship", "Station"}, assets); diff != "" {
		t.Errorf("assets mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"SQ010", "SQ020"}, scenes); diff != "" {
		t.Errorf("scenes mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractFolders_Empty(t *testing.T) {
	t.Parallel()

	assets, scenes := ExtractFolders(nil)
	if len(assets) != 0 || len(scenes) != 0 {
		t.Errorf("ExtractFolders(nil) = %v, %v, want empty", assets, scenes)
	}
}
