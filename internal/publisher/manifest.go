// Package publisher prepares a package version from a local checkout and
// submits it to a registry.
package publisher

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/bravo68web/odinpkg/internal/application/dto"
)

// ManifestFile is the manifest name looked up in the package root
const ManifestFile = "odin-pkg.yaml"

// LoadManifest reads and decodes a package manifest
func LoadManifest(path string) (*dto.PackageManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m dto.PackageManifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return &m, nil
}

// readmeCandidates are tried in order when the manifest names no readme
var readmeCandidates = []string{"README.md", "readme.md", "Readme.md", "README.markdown", "README"}

// ReadReadme returns the readme file name and contents in dir. name may be
// empty, in which case the usual readme names are tried.
func ReadReadme(dir, name string) (string, string, error) {
	candidates := readmeCandidates
	if name != "" {
		candidates = []string{name}
	}
	for _, candidate := range candidates {
		data, err := os.ReadFile(filepath.Join(dir, candidate))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", "", fmt.Errorf("read readme: %w", err)
		}
		return candidate, string(data), nil
	}
	return "", "", nil
}
