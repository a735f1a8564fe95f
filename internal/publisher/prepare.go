package publisher

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bravo68web/odinpkg/internal/application/dto"
)

// Options controls how a submission is assembled
type Options struct {
	Dir      string // package root
	Manifest string // manifest path, defaults to Dir/odin-pkg.yaml
	Compiler string
	Version  string // overrides the manifest version when set
	Insecure bool
}

// Prepare assembles a publish request from the manifest, the readme and the
// git state of the package root.
func Prepare(opts Options) (*dto.PublishRequest, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	manifestPath := opts.Manifest
	if manifestPath == "" {
		manifestPath = filepath.Join(dir, ManifestFile)
	}

	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	if opts.Version != "" {
		manifest.Version = opts.Version
	}

	repo, err := InspectRepo(dir)
	if err != nil {
		return nil, err
	}
	if manifest.URL == "" {
		if repo.OriginURL == "" {
			return nil, fmt.Errorf("manifest has no url and the repository has no origin remote")
		}
		manifest.URL = repo.OriginURL
	}

	req := &dto.PublishRequest{
		SizeKB:     repo.SizeKB,
		Compiler:   strings.TrimSpace(opts.Compiler),
		CommitHash: repo.CommitHash,
		Insecure:   opts.Insecure,
	}

	if isURL(manifest.Readme) {
		req.ReadmeURL = manifest.Readme
		manifest.Readme = filepath.Base(manifest.Readme)
	} else {
		name, contents, err := ReadReadme(dir, manifest.Readme)
		if err != nil {
			return nil, err
		}
		manifest.Readme = name
		req.ReadmeContents = contents
	}

	req.UserData = *manifest
	return req, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}
