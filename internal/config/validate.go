package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Valid enum values for configuration fields.
var (
	ValidThemeNames = []string{"default", "dracula", "nord", "none"}
	ValidThemeModes = []string{"auto", "light", "dark"}
)

// MaxWorkers caps the workers setting.
const MaxWorkers = 64

// Validate checks every field and returns the first problem found.
func (c Config) Validate() error {
	if c.Workers < 1 || c.Workers > MaxWorkers {
		return fmt.Errorf("invalid workers %d: must be between 1 and %d", c.Workers, MaxWorkers)
	}
	if err := validateSize(c.Thumbnail, "thumbnail"); err != nil {
		return err
	}
	if err := validateSize(c.Viewer, "viewer"); err != nil {
		return err
	}
	if err := validatePositive(c.Detail.Timeout.Duration, "detail.timeout"); err != nil {
		return err
	}
	if err := ValidatePath(c.Cache.Dir, "cache.dir"); err != nil {
		return err
	}
	if !c.Cache.Disabled && c.Cache.Dir == "" {
		return fmt.Errorf("cache.dir must be set unless cache.disabled = true")
	}
	if err := validatePositive(c.Cache.MaxAge.Duration, "cache.max_age"); err != nil {
		return err
	}
	if err := validateEnum(c.Theme.Name, "theme.name", ValidThemeNames); err != nil {
		return err
	}
	return validateEnum(c.Theme.Mode, "theme.mode", ValidThemeModes)
}

func validateSize(s SizeConfig, field string) error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("invalid %s size %dx%d: width and height must be positive", field, s.Width, s.Height)
	}
	return validatePositive(s.Timeout.Duration, field+".timeout")
}

func validatePositive(d time.Duration, field string) error {
	if d <= 0 {
		return fmt.Errorf("invalid %s %q: must be positive", field, d)
	}
	return nil
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
