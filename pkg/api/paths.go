package api

import (
	"fmt"
	"path/filepath"
)

// ProjectPaths locates the pieces of a project on disk.
type ProjectPaths struct {
	Root      string
	Generated string
	Config    string
}

// NewProjectPaths resolves generated and config relative to root unless they
// are already absolute.
func NewProjectPaths(root, generated, config string) (ProjectPaths, error) {
	if root == "" {
		return ProjectPaths{}, fmt.Errorf("project root is required")
	}
	if generated == "" {
		generated = DefaultGeneratedDir
	}
	if config == "" {
		config = DefaultConfigFile
	}

	p := ProjectPaths{
		Root:      filepath.Clean(root),
		Generated: generated,
		Config:    config,
	}
	if !filepath.IsAbs(p.Generated) {
		p.Generated = filepath.Join(p.Root, p.Generated)
	}
	if !filepath.IsAbs(p.Config) {
		p.Config = filepath.Join(p.Root, p.Config)
	}
	return p, nil
}

// PersistedState is the path of the state file inside the generated tree.
func (p ProjectPaths) PersistedState() string {
	return filepath.Join(p.Generated, PersistedStateFile)
}
