// Package testutil provides test helpers for clog tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GitRepo is a throwaway repository built in-process with go-git.
// Every commit is one minute newer than the previous one.
type GitRepo struct {
	t     testing.TB
	Dir   string
	Repo  *git.Repository
	clock time.Time
	count int
}

// NewGitRepo initializes an empty repository in a temp directory.
func NewGitRepo(t testing.TB) *GitRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("initializing repository: %v", err)
	}

	return &GitRepo{
		t:     t,
		Dir:   dir,
		Repo:  repo,
		clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Commit records a change with message and returns the new commit hash.
func (r *GitRepo) Commit(message string) string {
	r.t.Helper()

	r.count++
	name := "history.txt"
	content := fmt.Sprintf("change %d\n", r.count)
	if err := os.WriteFile(filepath.Join(r.Dir, name), []byte(content), 0o644); err != nil {
		r.t.Fatalf("writing %s: %v", name, err)
	}

	wt, err := r.Repo.Worktree()
	if err != nil {
		r.t.Fatalf("getting worktree: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		r.t.Fatalf("staging %s: %v", name, err)
	}

	hash, err := wt.Commit(message, &git.CommitOptions{Author: r.signature()})
	if err != nil {
		r.t.Fatalf("committing %q: %v", message, err)
	}
	return hash.String()
}

// Commits records each message in order and returns their hashes.
func (r *GitRepo) Commits(messages ...string) []string {
	r.t.Helper()

	hashes := make([]string, len(messages))
	for i, m := range messages {
		hashes[i] = r.Commit(m)
	}
	return hashes
}

// Tag creates a lightweight tag at HEAD.
func (r *GitRepo) Tag(name string) {
	r.t.Helper()
	r.createTag(name, nil)
}

// AnnotatedTag creates an annotated tag at HEAD.
func (r *GitRepo) AnnotatedTag(name string) {
	r.t.Helper()
	r.createTag(name, &git.CreateTagOptions{Tagger: r.signature(), Message: "release " + name})
}

func (r *GitRepo) createTag(name string, opts *git.CreateTagOptions) {
	head, err := r.Repo.Head()
	if err != nil {
		r.t.Fatalf("getting HEAD: %v", err)
	}
	if _, err := r.Repo.CreateTag(name, head.Hash(), opts); err != nil {
		r.t.Fatalf("creating tag %s: %v", name, err)
	}
}

// Checkout moves HEAD to the given commit hash, detaching it.
func (r *GitRepo) Checkout(hash string) {
	r.t.Helper()

	wt, err := r.Repo.Worktree()
	if err != nil {
		r.t.Fatalf("getting worktree: %v", err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Hash: plumbing.NewHash(hash), Force: true}); err != nil {
		r.t.Fatalf("checking out %s: %v", hash, err)
	}
}

func (r *GitRepo) signature() *object.Signature {
	r.clock = r.clock.Add(time.Minute)
	return &object.Signature{Name: "Test Author", Email: "author@example.com", When: r.clock}
}
