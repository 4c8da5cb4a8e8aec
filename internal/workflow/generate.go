package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ariel-frischer/clog/internal/changelog"
	"github.com/ariel-frischer/clog/internal/config"
	"github.com/ariel-frischer/clog/internal/git"
	"github.com/ariel-frischer/clog/internal/logger"
	"github.com/ariel-frischer/clog/internal/progress"
	"github.com/ariel-frischer/clog/internal/version"
)

// LogSource is the version-control collaborator a Generator reads from.
type LogSource interface {
	version.Source
	Log(ctx context.Context, opts git.LogOptions) (string, error)
}

// Options are the per-run inputs that do not come from configuration.
type Options struct {
	Config     *config.Configuration
	SetVersion string
	Bump       version.Bump
	// DryRun writes the generated block to Stdout instead of the outfile.
	DryRun bool
	Stdout io.Writer
}

// Result describes one completed run.
type Result struct {
	Version   string
	From      string
	To        string
	OutFile   string
	Commits   int
	Changelog *changelog.Changelog
	Markdown  string // the generated block, without prior content
	Written   bool
	Duration  time.Duration
}

// Generator runs the changelog pipeline against a LogSource.
type Generator struct {
	source  LogSource
	spinner *progress.Spinner

	// Now returns the release date; tests replace it.
	Now func() time.Time
}

// NewGenerator creates a Generator. spinner may be nil.
func NewGenerator(source LogSource, spinner *progress.Spinner) *Generator {
	return &Generator{source: source, spinner: spinner, Now: time.Now}
}

// plan is everything resolved before the history is read.
type plan struct {
	table  *changelog.SectionTable
	policy changelog.BreakingPolicy
	render changelog.RenderConfig
	grep   *regexp.Regexp
}

// Preview runs the pipeline up to aggregation and rendering without touching any file.
func (g *Generator) Preview(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	p, err := g.prepare(ctx, opts)
	if err != nil {
		return nil, err
	}

	commits, err := g.readCommits(ctx, p, opts.Config.Clog.Jobs)
	if err != nil {
		return nil, err
	}

	cl := changelog.Aggregate(commits, p.table, p.policy)

	var block strings.Builder
	if err := changelog.WriteMarkdown(&block, p.render, cl); err != nil {
		return nil, fmt.Errorf("rendering changelog: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"version":  p.render.Version,
		"commits":  len(commits),
		"sections": len(cl.Sections),
	}).Debug("changelog aggregated")

	return &Result{
		Version:   p.render.Version,
		From:      p.render.From,
		To:        p.render.To,
		OutFile:   opts.Config.Clog.Outfile,
		Commits:   len(commits),
		Changelog: cl,
		Markdown:  block.String(),
		Duration:  time.Since(start),
	}, nil
}

// Run generates the changelog and prepends it to the prior content of the infile,
// writing the outfile atomically. Every fatal condition is detected before the
// outfile is touched.
func (g *Generator) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	result, err := g.Preview(ctx, opts)
	if err != nil {
		return nil, err
	}

	if opts.DryRun {
		out := opts.Stdout
		if out == nil {
			out = os.Stdout
		}
		if _, err := io.WriteString(out, result.Markdown); err != nil {
			return nil, fmt.Errorf("writing dry run output: %w", err)
		}
		result.Duration = time.Since(start)
		return result, nil
	}

	infile := opts.Config.InputFile()
	prior, err := readPrior(infile)
	if err != nil {
		return nil, &FileError{Op: "read", Path: infile, Err: err}
	}

	if err := writeAtomic(result.OutFile, result.Markdown+prior); err != nil {
		return nil, &FileError{Op: "write", Path: result.OutFile, Err: err}
	}

	result.Written = true
	result.Duration = time.Since(start)

	logger.WithFields(logrus.Fields{
		"file":     result.OutFile,
		"duration": result.Duration,
	}).Debug("changelog written")

	return result, nil
}

// prepare resolves sections, link style, version and range from configuration.
func (g *Generator) prepare(ctx context.Context, opts Options) (*plan, error) {
	cfg := opts.Config

	table, err := cfg.SectionTable()
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	style, err := cfg.LinkStyle()
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	policy, err := cfg.BreakingPolicy()
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	grep, err := regexp.Compile("(?m)" + table.GrepPattern())
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("compiling section filter: %w", err)}
	}

	releaseVersion, err := version.Resolve(ctx, version.Options{SetVersion: opts.SetVersion, Bump: opts.Bump}, g.source)
	if err != nil {
		return nil, err
	}

	from := cfg.Clog.From
	if cfg.Clog.FromLatestTag {
		from, err = g.source.LatestTag(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolving latest tag for range start: %w", err)
		}
	}

	logger.WithFields(logrus.Fields{
		"version": releaseVersion,
		"from":    from,
		"to":      cfg.Clog.To,
	}).Debug("release resolved")

	return &plan{
		table:  table,
		policy: policy,
		grep:   grep,
		render: changelog.RenderConfig{
			Version:    releaseVersion,
			Subtitle:   cfg.Clog.Subtitle,
			Date:       g.Now(),
			Patch:      opts.Bump == version.BumpPatch,
			Repository: cfg.Clog.Repository,
			LinkStyle:  style,
			From:       from,
			To:         cfg.Clog.To,
		},
	}, nil
}

// readCommits fetches the raw log for the range and parses it.
func (g *Generator) readCommits(ctx context.Context, p *plan, jobs int) ([]changelog.Commit, error) {
	if g.spinner != nil {
		g.spinner.Start("Reading commit history")
	}

	raw, err := g.source.Log(ctx, git.LogOptions{From: p.render.From, To: p.render.To, Grep: p.grep})
	if err != nil {
		if g.spinner != nil {
			g.spinner.Fail(err)
		}
		return nil, fmt.Errorf("reading commit history: %w", err)
	}

	commits, err := changelog.ParseLogConcurrent(ctx, raw, p.table, jobs)
	if err != nil {
		if g.spinner != nil {
			g.spinner.Fail(err)
		}
		return nil, fmt.Errorf("parsing commit history: %w", err)
	}

	if g.spinner != nil {
		g.spinner.Success(fmt.Sprintf("%d commits", len(commits)))
	}
	return commits, nil
}

// readPrior returns the content of path, or "" when it does not exist yet.
func readPrior(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// writeAtomic replaces path with content through a temp file in the same directory.
func writeAtomic(path, content string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath) // Best effort cleanup
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
