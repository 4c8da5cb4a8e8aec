// Package version computes the release version written into a changelog header.
// Only the increment-by-one rules needed to bump a release tag are implemented here;
// parsing is delegated to Masterminds/semver.
package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Bump selects which part of the latest tag to increment.
type Bump int

const (
	BumpNone Bump = iota
	BumpMajor
	BumpMinor
	BumpPatch
)

// String returns the flag name for the bump.
func (b Bump) String() string {
	switch b {
	case BumpMajor:
		return "major"
	case BumpMinor:
		return "minor"
	case BumpPatch:
		return "patch"
	default:
		return "none"
	}
}

// InvalidTagError reports a tag that is not a semantic version.
type InvalidTagError struct {
	Tag string
	Err error
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("tag %q is not a semantic version: %v", e.Tag, e.Err)
}

func (e *InvalidTagError) Unwrap() error {
	return e.Err
}

// Next increments tag according to bump. A leading "v" or "V" is kept as "v";
// prerelease and build metadata are dropped by every increment.
func Next(tag string, bump Bump) (string, error) {
	trimmed := strings.TrimSpace(tag)

	prefix := ""
	if strings.HasPrefix(trimmed, "v") || strings.HasPrefix(trimmed, "V") {
		prefix = "v"
		trimmed = trimmed[1:]
	}

	current, err := semver.StrictNewVersion(trimmed)
	if err != nil {
		return "", &InvalidTagError{Tag: tag, Err: err}
	}

	var next semver.Version
	switch bump {
	case BumpMajor:
		next = current.IncMajor()
	case BumpMinor:
		next = current.IncMinor()
	case BumpPatch:
		// IncPatch on a prerelease only strips the prerelease.
		next = *semver.New(current.Major(), current.Minor(), current.Patch()+1, "", "")
	default:
		next = *current
	}

	return prefix + next.String(), nil
}
