package pkgid

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// NormalizeVersion validates v against MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD]
// and returns it without the optional leading "v".
func NormalizeVersion(v string) (string, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(v), "v")
	if trimmed == "" {
		return "", fmt.Errorf("empty version")
	}
	sv, err := semver.StrictNewVersion(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid semver %q: %w", v, err)
	}
	return sv.Original(), nil
}

// IsValidVersion reports whether v is a semantic version, with or without a leading "v"
func IsValidVersion(v string) bool {
	_, err := NormalizeVersion(v)
	return err == nil
}

// CompareVersions orders two stored versions by semver precedence.
// Unparseable input sorts before anything valid.
func CompareVersions(a, b string) int {
	va, errA := semver.StrictNewVersion(a)
	vb, errB := semver.StrictNewVersion(b)
	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}
	return va.Compare(vb)
}
