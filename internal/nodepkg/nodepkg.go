// Package nodepkg locates npm package boundaries and reads their manifests.
// A package boundary is the nearest ancestor directory containing a
// package.json; its "type" field decides whether .js files are interpreted as
// ECMAScript modules.
package nodepkg

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestName is the file that establishes a package boundary.
const ManifestName = "package.json"

// Manifest is the subset of package.json this tool cares about.
type Manifest struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Type             string            `json:"type"`
	Dependencies     map[string]string `json:"dependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}

// IsModule reports whether the manifest declares ESM semantics for .js files.
func (m *Manifest) IsModule() bool {
	return m.Type == "module"
}

// FindBoundary walks from dir towards the filesystem root and returns the
// nearest directory containing a package.json. The second return value is
// false when no boundary exists.
func FindBoundary(dir string) (string, bool) {
	dir = filepath.Clean(dir)
	for {
		if info, err := os.Stat(filepath.Join(dir, ManifestName)); err == nil && !info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// ReadManifest parses the package.json at the given boundary directory.
func ReadManifest(boundaryDir string) (*Manifest, error) {
	path := filepath.Join(boundaryDir, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// ManifestPath returns the package.json path for a boundary directory.
func ManifestPath(boundaryDir string) string {
	return filepath.Join(boundaryDir, ManifestName)
}
