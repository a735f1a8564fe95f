package service

import (
	"context"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/bravo68web/odinpkg/internal/domain/service"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
	"github.com/bravo68web/odinpkg/pkg/pkgid"
)

// Minimum lengths of submitted fields
const (
	MinHostLength        = 5
	MinOwnerLength       = 3
	MinRepoLength        = 3
	MinDescriptionLength = 10
)

// Maximum lengths of submitted fields, matching their column sizes
const (
	MaxNameLength       = 255
	MaxVersionLength    = 255
	MaxLicenseLength    = 255
	MaxCompilerLength   = 255
	MaxCommitHashLength = 64
)

// PublishRequest is a package version submitted for publishing
type PublishRequest struct {
	URL            string
	Version        string
	Description    string
	License        string
	Readme         string // readme file name
	ReadmeContents string
	ReadmeURL      string
	Compiler       string
	CommitHash     string
	SizeKB         int
	Insecure       bool
	Keywords       []string
	Dependencies   map[string]string
}

// ValidatedSubmission is a publish request that passed every check
type ValidatedSubmission struct {
	Identity     pkgid.Identity
	Version      string
	ReadmeSource string
	ReadmeHTML   string
	Dependencies []uuid.UUID
}

// Validator runs every publish check and reports all failures at once
type Validator struct {
	resolver service.DependencyResolver
	readme   *ReadmeService
}

// NewValidator creates a new Validator instance
func NewValidator(resolver service.DependencyResolver, readme *ReadmeService) *Validator {
	return &Validator{resolver: resolver, readme: readme}
}

// Validate checks a submission. Failed checks are returned together as a
// Validation error; catalog failures while resolving dependencies are
// returned as they are.
func (v *Validator) Validate(ctx context.Context, req *PublishRequest) (*ValidatedSubmission, error) {
	var (
		out      ValidatedSubmission
		messages []string
	)

	version, err := pkgid.NormalizeVersion(req.Version)
	if err != nil {
		messages = append(messages, "Invalid 'version' field. Must comply with semver.")
	} else if tooLong(version, MaxVersionLength) {
		messages = append(messages, "Version is too long.")
	}
	out.Version = version

	id, err := pkgid.ParseURL(req.URL)
	if err != nil {
		messages = append(messages, "Invalid repository url: "+err.Error())
	} else {
		if len(id.Host) < MinHostLength {
			messages = append(messages, "Invalid Host.")
		}
		if len(id.Owner) < MinOwnerLength {
			messages = append(messages, "Owner name invalid.")
		}
		if len(id.Repo) < MinRepoLength {
			messages = append(messages, "Repo name invalid.")
		}
		if tooLong(id.Host, MaxNameLength) || tooLong(id.Owner, MaxNameLength) || tooLong(id.Repo, MaxNameLength) {
			messages = append(messages, "Host, owner and repo names must be at most 255 chars.")
		}
	}
	out.Identity = id

	if utf8.RuneCountInString(strings.TrimSpace(req.Description)) < MinDescriptionLength {
		messages = append(messages, "Description must have at least 10 chars.")
	}
	if strings.TrimSpace(req.License) == "" {
		messages = append(messages, "Packages without licenses are prohibited.")
	} else if tooLong(req.License, MaxLicenseLength) {
		messages = append(messages, "License is too long.")
	}

	source, fetchErr := v.readme.Source(ctx, req.ReadmeContents, req.ReadmeURL)
	readmeName := req.Readme
	if readmeName == "" && req.ReadmeURL != "" {
		readmeName = path.Base(req.ReadmeURL)
	}
	hasReadme := fetchErr == nil && strings.TrimSpace(source) != "" && readmeName != ""
	if fetchErr == nil && !hasReadme {
		messages = append(messages, "Expected a readme file.")
	}

	if strings.TrimSpace(req.CommitHash) == "" {
		messages = append(messages, "Commit Hash Missing.")
	} else if tooLong(req.CommitHash, MaxCommitHashLength) {
		messages = append(messages, "Commit Hash must be at most 64 chars.")
	}
	if strings.TrimSpace(req.Compiler) == "" {
		messages = append(messages, "Compiler Info Missing.")
	} else if tooLong(req.Compiler, MaxCompilerLength) {
		messages = append(messages, "Compiler Info is too long.")
	}

	resolved, depMessages, err := v.resolver.Resolve(ctx, req.Dependencies)
	if err != nil {
		return nil, err
	}
	messages = append(messages, depMessages...)
	for _, dep := range resolved {
		out.Dependencies = append(out.Dependencies, dep.VersionID)
	}

	switch {
	case fetchErr != nil:
		messages = append(messages, "Readme Parse Error: "+fetchErr.Error())
	case hasReadme:
		html, err := v.readme.Render(ctx, source)
		if err != nil {
			messages = append(messages, "Readme Parse Error: "+err.Error())
		}
		out.ReadmeSource = source
		out.ReadmeHTML = html
	}

	if len(messages) > 0 {
		return nil, apperrors.Validation(messages)
	}
	return &out, nil
}

// tooLong counts characters, as varchar limits do
func tooLong(s string, limit int) bool {
	return utf8.RuneCountInString(s) > limit
}
