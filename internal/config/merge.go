package config

import "fmt"

// MergeLocal applies local overrides to global, returning a new validated Config
// without mutating global.
// Returns global unchanged if local is nil.
func MergeLocal(global *Config, local *LocalConfig) (*Config, error) {
	if local == nil {
		return global, nil
	}

	merged := *global

	if local.Workers != nil {
		merged.Workers = *local.Workers
	}
	mergeSize(&merged.Thumbnail, local.Thumbnail)
	mergeSize(&merged.Viewer, local.Viewer)
	if local.Detail.Timeout != nil {
		merged.Detail.Timeout = *local.Detail.Timeout
	}

	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", LocalConfigFileName, err)
	}
	return &merged, nil
}

func mergeSize(dst *SizeConfig, local LocalSize) {
	if local.Width != nil {
		dst.Width = *local.Width
	}
	if local.Height != nil {
		dst.Height = *local.Height
	}
	if local.Timeout != nil {
		dst.Timeout = *local.Timeout
	}
}
