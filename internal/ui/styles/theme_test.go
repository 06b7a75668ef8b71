package styles

import (
	"testing"

	"charm.land/lipgloss/v2"

	"github.com/raphi011/vsort/internal/config"
	"github.com/raphi011/vsort/internal/render"
)

func dark() bool  { return true }
func light() bool { return false }

func TestSelectTheme(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cfg    config.ThemeConfig
		isDark func() bool
		want   Theme
	}{
		{"empty config", config.ThemeConfig{}, dark, DefaultTheme},
		{"dracula", config.ThemeConfig{Name: "dracula"}, dark, DraculaTheme},
		{"nord auto dark", config.ThemeConfig{Name: "nord", Mode: "auto"}, dark, NordTheme},
		{"nord auto light", config.ThemeConfig{Name: "nord", Mode: "auto"}, light, NordLightTheme},
		{"nord forced light", config.ThemeConfig{Name: "nord", Mode: "light"}, dark, NordLightTheme},
		{"dark-only falls back", config.ThemeConfig{Name: "dracula", Mode: "light"}, light, DraculaTheme},
		{"unknown name", config.ThemeConfig{Name: "solarized"}, dark, DefaultTheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := selectTheme(tt.cfg, tt.isDark)
			if got.Primary != tt.want.Primary || got.Normal != tt.want.Normal {
				t.Errorf("selectTheme() primary = %v, want %v", got.Primary, tt.want.Primary)
			}
		})
	}
}

func TestSelectTheme_ExplicitModeSkipsDetection(t *testing.T) {
	t.Parallel()

	called := false
	selectTheme(config.ThemeConfig{Name: "nord", Mode: "dark"}, func() bool {
		called = true
		return true
	})
	if called {
		t.Error("background detection should only run in auto mode")
	}
}

// Init mutates package state; these subtests run sequentially.
func TestInit(t *testing.T) {
	t.Run("custom colors", func(t *testing.T) {
		Init(config.ThemeConfig{Name: "default", Mode: "dark", Primary: "#ff0000", Accent: "#00ff00"})
		theme := Current()
		if theme.Primary != lipgloss.Color("#ff0000") {
			t.Errorf("Primary = %v, want #ff0000", theme.Primary)
		}
		if theme.Accent != lipgloss.Color("#00ff00") {
			t.Errorf("Accent = %v, want #00ff00", theme.Accent)
		}
		if BorderColor(render.Selected) != lipgloss.Color("#4a9eff") {
			t.Error("border colors should not follow the theme")
		}
	})

	t.Run("none theme", func(t *testing.T) {
		Init(config.ThemeConfig{Name: "none", Mode: "dark"})
		if _, ok := BorderColor(render.MultiMembership).(lipgloss.NoColor); !ok {
			t.Error("none theme should render borders without color")
		}
	})

	Init(config.ThemeConfig{Name: "default", Mode: "dark"})
}

func TestCellBorder_DistinctPerClass(t *testing.T) {
	t.Parallel()

	seen := map[string]render.BorderClass{}
	for _, c := range []render.BorderClass{render.Default, render.SingleMembership, render.MultiMembership, render.Selected} {
		top := CellBorder(c).TopLeft
		if prev, dup := seen[top]; dup {
			t.Errorf("%v and %v share the border shape %q", prev, c, top)
		}
		seen[top] = c
	}
}
