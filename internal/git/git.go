// Package git is the version-control collaborator for clog. It reads commit ranges,
// tags and HEAD through go-git, so no git binary is required.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/ariel-frischer/clog/internal/changelog"
)

var (
	// ErrNotRepository is returned when no repository is found at or above the path.
	ErrNotRepository = errors.New("not a git repository")
	// ErrNoTags is returned when no tag is reachable from HEAD.
	ErrNoTags = errors.New("no tags reachable from HEAD")
	// ErrNoCommits is returned for a repository without any commit.
	ErrNoCommits = errors.New("repository has no commits")
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Repository wraps a go-git repository with the read operations clog needs.
type Repository struct {
	repo *git.Repository
}

// LogOptions selects the commits written by Log.
type LogOptions struct {
	// From excludes this ref and its ancestors. Empty means the whole history.
	From string
	// To is the newest ref of the range. Empty means HEAD.
	To string
	// Grep keeps only commits whose full message matches. Nil keeps every commit.
	Grep *regexp.Regexp
}

// openRepo opens the repository containing path, walking up the directory tree.
// If path is empty, the current working directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	logDebug("[git] repository opened successfully")
	return repo, nil
}

// Open opens the repository containing path (or the working directory when empty).
func Open(path string) (*Repository, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}
	return &Repository{repo: repo}, nil
}

// RepositoryRoot returns the worktree root of the repository containing path.
func RepositoryRoot(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	logDebug("[git] RepositoryRoot: %s", root)
	return root, nil
}

// Head returns the full hash of the commit HEAD points to.
func (r *Repository) Head(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	head, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", ErrNoCommits
	}
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	logDebug("[git] Head: %s", head.Hash())
	return head.Hash().String(), nil
}

// LatestTag returns the name of the tag nearest to HEAD, walking history newest first.
// When several tags point at the same commit the highest name wins.
func (r *Repository) LatestTag(ctx context.Context) (string, error) {
	tagged, err := r.taggedCommits()
	if err != nil {
		return "", err
	}
	if len(tagged) == 0 {
		return "", ErrNoTags
	}

	head, err := r.Head(ctx)
	if err != nil {
		return "", err
	}

	var latest string
	err = r.walk(ctx, plumbing.NewHash(head), func(c *object.Commit) error {
		names, ok := tagged[c.Hash]
		if !ok {
			return nil
		}
		sort.Strings(names)
		latest = names[len(names)-1]
		return storer.ErrStop
	})
	if err != nil {
		return "", err
	}
	if latest == "" {
		return "", ErrNoTags
	}

	logDebug("[git] LatestTag: %s", latest)
	return latest, nil
}

// taggedCommits maps commit hashes to the tag names pointing at them. Annotated tags
// are peeled to their commit; tags of other objects are ignored.
func (r *Repository) taggedCommits() (map[plumbing.Hash][]string, error) {
	refs, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	tagged := make(map[plumbing.Hash][]string)
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()

		tag, err := r.repo.TagObject(target)
		switch {
		case err == nil:
			commit, err := tag.Commit()
			if err != nil {
				logDebug("[git] skipping tag %s: %v", ref.Name().Short(), err)
				return nil
			}
			target = commit.Hash
		case !errors.Is(err, plumbing.ErrObjectNotFound):
			return fmt.Errorf("reading tag %s: %w", ref.Name().Short(), err)
		}

		tagged[target] = append(tagged[target], ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}
	return tagged, nil
}

// Log writes the commits of the range as a raw log in changelog.LogFormat, newest first.
func (r *Repository) Log(ctx context.Context, opts LogOptions) (string, error) {
	to := opts.To
	if to == "" {
		to = "HEAD"
	}

	toHash, err := r.resolve(to)
	if err != nil {
		return "", err
	}

	excluded := make(map[plumbing.Hash]bool)
	if opts.From != "" {
		fromHash, err := r.resolve(opts.From)
		if err != nil {
			return "", err
		}
		err = r.walk(ctx, fromHash, func(c *object.Commit) error {
			excluded[c.Hash] = true
			return nil
		})
		if err != nil {
			return "", err
		}
	}

	var (
		b     strings.Builder
		total int
		kept  int
	)
	err = r.walk(ctx, toHash, func(c *object.Commit) error {
		if excluded[c.Hash] {
			return nil
		}
		total++
		if opts.Grep != nil && !opts.Grep.MatchString(c.Message) {
			return nil
		}
		kept++
		writeRecord(&b, c)
		return nil
	})
	if err != nil {
		return "", err
	}

	logDebug("[git] Log %s..%s: kept %d of %d commits", opts.From, to, kept, total)
	return b.String(), nil
}

// walk visits the history reachable from hash, newest committer time first.
// fn may return storer.ErrStop to end the walk early.
func (r *Repository) walk(ctx context.Context, hash plumbing.Hash, fn func(*object.Commit) error) error {
	iter, err := r.repo.Log(&git.LogOptions{From: hash, Order: git.LogOrderCommitterTime})
	if err != nil {
		return fmt.Errorf("reading history from %s: %w", hash, err)
	}
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(c)
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return fmt.Errorf("walking history from %s: %w", hash, err)
	}
	return nil
}

func (r *Repository) resolve(ref string) (plumbing.Hash, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolving %q: %w", ref, err)
	}
	return *hash, nil
}

// writeRecord appends one commit as hash, subject, body and sentinel lines. The subject
// is the first paragraph joined into one line, the body everything after it.
func writeRecord(b *strings.Builder, c *object.Commit) {
	message := strings.ReplaceAll(c.Message, "\r\n", "\n")
	message = strings.Trim(message, "\n")

	subject, body, _ := strings.Cut(message, "\n\n")
	lines := strings.Split(subject, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	subject = strings.Join(lines, " ")

	b.WriteString(c.Hash.String())
	b.WriteByte('\n')
	b.WriteString(subject)
	b.WriteByte('\n')
	if body = strings.Trim(body, "\n"); body != "" {
		b.WriteString(body)
		b.WriteByte('\n')
	}
	b.WriteString(changelog.LogSentinel)
	b.WriteByte('\n')
}
