// Package project loads and saves vsort project files and builds the per-session
// membership index from them.
//
// A project file is JSON:
//
//	{
//	  "name": "Ship Trailer",
//	  "versions": [...],          // image version records
//	  "breakdown": [...],         // rows defining asset and scene folders
//	  "folder_mappings": {...}    // saved memberships, see membership.Mapping
//	}
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/raphi011/vsort/internal/membership"
	"github.com/raphi011/vsort/internal/storage"
	"github.com/raphi011/vsort/internal/version"
)

// Project is the content of a project file.
type Project struct {
	Name           string                 `json:"name"`
	Versions       []version.Record       `json:"versions"`
	Breakdown      []version.BreakdownRow `json:"breakdown"`
	FolderMappings *membership.Mapping    `json:"folder_mappings,omitempty"`

	path string
}

// Load reads the project file at path.
func Load(path string) (*Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}

	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse project %s: %w", abs, err)
	}
	p.path = abs
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	}
	return &p, nil
}

// Path returns the absolute path the project was loaded from.
func (p *Project) Path() string {
	return p.path
}

// Save writes the project back to its file atomically.
func (p *Project) Save() error {
	if p.path == "" {
		return fmt.Errorf("project %q has no file", p.Name)
	}
	if err := storage.SaveJSON(p.path, p); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

// SaveAs writes the project to path and makes it the project's file.
func (p *Project) SaveAs(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	p.path = abs
	return p.Save()
}
