package version

import (
	"context"
	"errors"
	"fmt"
)

// ShortHashLength is the number of HEAD hash characters used when no version is given.
const ShortHashLength = 8

// ErrConflictingOptions is returned when both an explicit version and a bump are requested.
var ErrConflictingOptions = errors.New("an explicit version cannot be combined with a version bump")

// Source is the version-control collaborator consulted for the latest tag and HEAD.
type Source interface {
	LatestTag(ctx context.Context) (string, error)
	Head(ctx context.Context) (string, error)
}

// Options selects how the release version is determined.
type Options struct {
	SetVersion string
	Bump       Bump
}

// Resolve returns the release version: the explicit version when set, the bumped
// latest tag when a bump is requested, otherwise the short HEAD hash.
func Resolve(ctx context.Context, opts Options, source Source) (string, error) {
	if opts.SetVersion != "" && opts.Bump != BumpNone {
		return "", ErrConflictingOptions
	}

	if opts.SetVersion != "" {
		return opts.SetVersion, nil
	}

	if opts.Bump != BumpNone {
		tag, err := source.LatestTag(ctx)
		if err != nil {
			return "", fmt.Errorf("reading latest tag for %s bump: %w", opts.Bump, err)
		}
		return Next(tag, opts.Bump)
	}

	head, err := source.Head(ctx)
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	if len(head) > ShortHashLength {
		head = head[:ShortHashLength]
	}
	return head, nil
}
