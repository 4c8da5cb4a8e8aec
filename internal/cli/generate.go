package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ariel-frischer/clog/internal/cli/shared"
	clierrors "github.com/ariel-frischer/clog/internal/errors"
	"github.com/ariel-frischer/clog/internal/git"
	"github.com/ariel-frischer/clog/internal/progress"
	"github.com/ariel-frischer/clog/internal/version"
	"github.com/ariel-frischer/clog/internal/workflow"
)

// Release flags, shared by the root (generate) and preview commands.
var (
	repositoryFlag     string
	linkStyleFlag      string
	subtitleFlag       string
	fromFlag           string
	fromLatestTagFlag  bool
	toFlag             string
	setVersionFlag     string
	majorFlag          bool
	minorFlag          bool
	patchFlag          bool
	breakingPolicyFlag string
	jobsFlag           int
)

// Output flags of the root command.
var (
	outfileFlag string
	infileFlag  string
	dryRunFlag  bool
)

// flagKeys maps flags to the configuration keys they override.
var flagKeys = map[string]string{
	"repository":      "clog.repository",
	"link-style":      "clog.link-style",
	"subtitle":        "clog.subtitle",
	"from":            "clog.from",
	"from-latest-tag": "clog.from-latest-tag",
	"to":              "clog.to",
	"breaking-policy": "clog.breaking-policy",
	"jobs":            "clog.jobs",
	"outfile":         "clog.outfile",
	"infile":          "clog.infile",
}

// addReleaseFlags registers the flags selecting range, version and rendering.
func addReleaseFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&repositoryFlag, "repository", "r", "", "Repository used for links, without .git (e.g. https://github.com/owner/repo)")
	f.StringVarP(&linkStyleFlag, "link-style", "l", "", "Style of repository links: github, gitlab, stash, cgit or a configured style")
	f.StringVarP(&subtitleFlag, "subtitle", "s", "", "Release subtitle (e.g. \"Crazy Release Title\")")
	f.StringVarP(&fromFlag, "from", "f", "", "Start of the range, exclusive (e.g. 12a8546)")
	f.BoolVarP(&fromLatestTagFlag, "from-latest-tag", "F", false, "Use the latest tag as range start (instead of --from)")
	f.StringVarP(&toFlag, "to", "t", "", "End of the range (defaults to HEAD)")
	f.StringVar(&setVersionFlag, "setversion", "", "Release version to use (e.g. 1.0.1)")
	f.BoolVarP(&majorFlag, "major", "M", false, "Increment the major version of the latest tag (sets minor and patch to 0)")
	f.BoolVarP(&minorFlag, "minor", "m", false, "Increment the minor version of the latest tag (sets patch to 0)")
	f.BoolVarP(&patchFlag, "patch", "p", false, "Increment the patch version of the latest tag")
	f.StringVar(&breakingPolicyFlag, "breaking-policy", "", "Where breaking commits are listed: both or separate")
	f.IntVarP(&jobsFlag, "jobs", "j", 1, "Parallel commit parsers")
}

func addGenerateFlags(cmd *cobra.Command) {
	addReleaseFlags(cmd)
	f := cmd.Flags()
	f.StringVarP(&outfileFlag, "outfile", "o", "", "Where to write the changelog (defaults to changelog.md)")
	f.StringVarP(&infileFlag, "infile", "i", "", "Where to read prior changelog content (defaults to the outfile)")
	f.BoolVar(&dryRunFlag, "dry-run", false, "Print the generated block instead of writing the changelog")
}

// overrides collects the flags set on the command line as configuration overrides.
// Choosing one range start on the command line clears the other from lower layers.
func overrides(cmd *cobra.Command) map[string]any {
	values := make(map[string]any)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		values[key] = typedValue(cmd, f)
	})

	if _, ok := values["clog.from"]; ok {
		values["clog.from-latest-tag"] = false
	}
	if latest, ok := values["clog.from-latest-tag"].(bool); ok && latest {
		values["clog.from"] = ""
	}
	return values
}

func typedValue(cmd *cobra.Command, f *pflag.Flag) any {
	switch f.Value.Type() {
	case "bool":
		v, _ := cmd.Flags().GetBool(f.Name)
		return v
	case "int":
		v, _ := cmd.Flags().GetInt(f.Name)
		return v
	default:
		return f.Value.String()
	}
}

// releaseOptions validates the flag combination and loads configuration.
func releaseOptions(cmd *cobra.Command) (workflow.Options, error) {
	flags := cmd.Flags()
	if flags.Changed("from") && flags.Changed("from-latest-tag") {
		return workflow.Options{}, clierrors.InvalidFlagCombination("--from with --from-latest-tag",
			"Choose one start for the range")
	}

	bump, err := selectedBump()
	if err != nil {
		return workflow.Options{}, err
	}
	if bump != version.BumpNone && setVersionFlag != "" {
		return workflow.Options{}, clierrors.InvalidFlagCombination("--setversion with --major, --minor or --patch",
			"Either set the version explicitly or bump the latest tag")
	}

	cfg, err := shared.LoadConfig(cmd, overrides(cmd))
	if err != nil {
		return workflow.Options{}, err
	}

	return workflow.Options{
		Config:     cfg,
		SetVersion: setVersionFlag,
		Bump:       bump,
		Stdout:     cmd.OutOrStdout(),
	}, nil
}

func selectedBump() (version.Bump, error) {
	bump := version.BumpNone
	count := 0
	for _, b := range []struct {
		set  bool
		bump version.Bump
	}{
		{majorFlag, version.BumpMajor},
		{minorFlag, version.BumpMinor},
		{patchFlag, version.BumpPatch},
	} {
		if b.set {
			bump = b.bump
			count++
		}
	}
	if count > 1 {
		return version.BumpNone, clierrors.InvalidFlagCombination("--major, --minor and --patch",
			"Pick exactly one version bump")
	}
	return bump, nil
}

// newGenerator opens the repository of the working directory.
func newGenerator(cmd *cobra.Command) (*workflow.Generator, error) {
	repo, err := git.Open("")
	if err != nil {
		return nil, err
	}
	spin := progress.NewSpinner(cmd.ErrOrStderr(), progress.DetectTerminalCapabilities())
	return workflow.NewGenerator(repo, spin), nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	opts, err := releaseOptions(cmd)
	if err != nil {
		return err
	}
	opts.DryRun = dryRunFlag

	gen, err := newGenerator(cmd)
	if err != nil {
		return err
	}

	result, err := gen.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if !result.Written {
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "changelog updated. (took %d ms)\n", result.Duration.Milliseconds())
	return nil
}
