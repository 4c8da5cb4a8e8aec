// Package health runs the environment checks behind 'clog doctor'. Each check reports
// whether a release could be generated from the current directory and why not.
package health

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ariel-frischer/clog/internal/config"
	"github.com/ariel-frischer/clog/internal/git"
	"github.com/ariel-frischer/clog/internal/version"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Options selects what the checks inspect.
type Options struct {
	// Dir is the working directory. Empty means the current one.
	Dir string
	// ConfigPath is an explicit configuration file, as given by --config.
	ConfigPath string
}

func (r *HealthReport) add(check CheckResult) {
	r.Checks = append(r.Checks, check)
	if !check.Passed {
		r.Passed = false
	}
}

// RunHealthChecks runs all health checks and returns a report. Checks that depend on
// a failed one are still reported, as failures naming the missing prerequisite.
func RunHealthChecks(ctx context.Context, opts Options) *HealthReport {
	report := &HealthReport{Passed: true}

	repo, repoCheck := CheckRepository(opts.Dir)
	report.add(repoCheck)

	cfg, cfgCheck := CheckConfiguration(opts)
	report.add(cfgCheck)

	if cfg == nil {
		report.add(CheckResult{Name: "Sections", Message: "skipped: configuration did not load"})
		report.add(CheckResult{Name: "Link style", Message: "skipped: configuration did not load"})
		report.add(CheckResult{Name: "Latest tag", Message: "skipped: configuration did not load"})
		report.add(CheckResult{Name: "Output file", Message: "skipped: configuration did not load"})
		return report
	}

	report.add(CheckSections(cfg))
	report.add(CheckLinkStyle(cfg))
	report.add(CheckLatestTag(ctx, repo, cfg))
	report.add(CheckOutfile(opts.Dir, cfg))
	return report
}

// CheckRepository opens the repository containing dir.
func CheckRepository(dir string) (*git.Repository, CheckResult) {
	result := CheckResult{Name: "Git repository"}

	repo, err := git.Open(dir)
	if err != nil {
		result.Message = err.Error()
		return nil, result
	}

	root, err := git.RepositoryRoot(dir)
	if err != nil {
		result.Message = err.Error()
		return nil, result
	}

	result.Passed = true
	result.Message = "found at " + root
	return repo, result
}

// CheckConfiguration loads the merged configuration and lists the files it came from.
func CheckConfiguration(opts Options) (*config.Configuration, CheckResult) {
	result := CheckResult{Name: "Configuration"}

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		Dir:          opts.Dir,
		ConfigPath:   opts.ConfigPath,
		SkipWarnings: true,
	})
	if err != nil {
		result.Message = err.Error()
		return nil, result
	}

	result.Passed = true
	if len(cfg.Files) == 0 {
		result.Message = "built-in defaults only"
		return cfg, result
	}

	paths := make([]string, 0, len(cfg.Files))
	for _, f := range cfg.Files {
		paths = append(paths, fmt.Sprintf("%s (%s)", f.Path, f.Source))
	}
	result.Message = "loaded " + strings.Join(paths, ", ")
	return cfg, result
}

// CheckSections builds the section table, which fails on an alias claimed twice.
func CheckSections(cfg *config.Configuration) CheckResult {
	result := CheckResult{Name: "Sections"}

	table, err := cfg.SectionTable()
	if err != nil {
		result.Message = err.Error()
		return result
	}

	result.Passed = true
	result.Message = fmt.Sprintf("%d sections", len(table.EmitOrder()))
	return result
}

// CheckLinkStyle resolves the configured link style against the built-in and custom styles.
func CheckLinkStyle(cfg *config.Configuration) CheckResult {
	result := CheckResult{Name: "Link style"}

	style, err := cfg.LinkStyle()
	if err != nil {
		result.Message = err.Error()
		return result
	}

	result.Passed = true
	result.Message = style.Name
	if cfg.Clog.Repository == "" {
		result.Message += " (no repository URL, links disabled)"
	}
	return result
}

// CheckLatestTag finds the tag nearest to HEAD and checks that it can be bumped.
// A repository without tags only fails when from-latest-tag is enabled.
func CheckLatestTag(ctx context.Context, repo *git.Repository, cfg *config.Configuration) CheckResult {
	result := CheckResult{Name: "Latest tag"}
	if repo == nil {
		result.Message = "skipped: no repository"
		return result
	}

	tag, err := repo.LatestTag(ctx)
	if errors.Is(err, git.ErrNoTags) && !cfg.Clog.FromLatestTag {
		result.Passed = true
		result.Message = "none (from-latest-tag disabled)"
		return result
	}
	if err != nil {
		result.Message = err.Error()
		return result
	}

	next, err := version.Next(tag, version.BumpPatch)
	if err != nil {
		result.Message = err.Error()
		return result
	}

	result.Passed = true
	result.Message = fmt.Sprintf("%s (next patch %s)", tag, next)
	return result
}

// CheckOutfile verifies that the directory of the configured outfile exists.
func CheckOutfile(dir string, cfg *config.Configuration) CheckResult {
	result := CheckResult{Name: "Output file"}

	path := cfg.Clog.Outfile
	if !filepath.IsAbs(path) && dir != "" {
		path = filepath.Join(dir, path)
	}

	info, err := os.Stat(filepath.Dir(path))
	if err != nil {
		result.Message = fmt.Sprintf("directory of %s: %v", cfg.Clog.Outfile, err)
		return result
	}
	if !info.IsDir() {
		result.Message = fmt.Sprintf("%s is not a directory", filepath.Dir(path))
		return result
	}

	result.Passed = true
	result.Message = cfg.Clog.Outfile
	if in := cfg.InputFile(); in != cfg.Clog.Outfile {
		result.Message += " (prepends " + in + ")"
	}
	return result
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var b strings.Builder
	for _, check := range report.Checks {
		mark := "✓"
		if !check.Passed {
			mark = "✗"
		}
		fmt.Fprintf(&b, "%s %s: %s\n", mark, check.Name, check.Message)
	}
	return b.String()
}
