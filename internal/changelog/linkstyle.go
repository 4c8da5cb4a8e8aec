package changelog

import (
	"fmt"
	"sort"
	"strings"
)

// UnknownLinkStyleError is returned when a link style name is not registered.
type UnknownLinkStyleError struct {
	Name      string
	Available []string
}

func (e *UnknownLinkStyleError) Error() string {
	return fmt.Sprintf("unknown link style %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// LinkStyle is a named set of URL templates for one repository host. Templates use the
// placeholders {repo}, {hash}, {issue}, {from} and {to}. An empty Issue or Compare
// template means the host gets no link of that kind.
type LinkStyle struct {
	Name    string
	Commit  string
	Issue   string
	Compare string
}

// CommitURL returns the link to a commit, or "" without a repository.
func (s LinkStyle) CommitURL(repo, hash string) string {
	return expand(s.Commit, repo, map[string]string{"{hash}": hash})
}

// IssueURL returns the link to an issue, or "" if the style has none.
func (s LinkStyle) IssueURL(repo, issue string) string {
	return expand(s.Issue, repo, map[string]string{"{issue}": issue})
}

// CompareURL returns the link comparing two refs, or "" if either is missing.
func (s LinkStyle) CompareURL(repo, from, to string) string {
	if from == "" || to == "" {
		return ""
	}
	return expand(s.Compare, repo, map[string]string{"{from}": from, "{to}": to})
}

func expand(template, repo string, values map[string]string) string {
	if template == "" || repo == "" {
		return ""
	}
	pairs := []string{"{repo}", strings.TrimRight(repo, "/")}
	for k, v := range values {
		pairs = append(pairs, k, v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Built-in link style names.
const (
	LinkStyleGitHub = "github"
	LinkStyleGitLab = "gitlab"
	LinkStyleStash  = "stash"
	LinkStyleCgit   = "cgit"
)

// LinkStyles is a registry of link styles keyed by name.
type LinkStyles map[string]LinkStyle

// DefaultLinkStyles returns a fresh registry holding the built-in styles.
func DefaultLinkStyles() LinkStyles {
	return LinkStyles{
		LinkStyleGitHub: {
			Name:    LinkStyleGitHub,
			Commit:  "{repo}/commit/{hash}",
			Issue:   "{repo}/issues/{issue}",
			Compare: "{repo}/compare/{from}...{to}",
		},
		LinkStyleGitLab: {
			Name:    LinkStyleGitLab,
			Commit:  "{repo}/commit/{hash}",
			Issue:   "{repo}/issues/{issue}",
			Compare: "{repo}/compare/{from}...{to}",
		},
		LinkStyleStash: {
			Name:    LinkStyleStash,
			Commit:  "{repo}/commits/{hash}",
			Compare: "{repo}/compare/commits?targetBranch={from}&sourceBranch={to}",
		},
		LinkStyleCgit: {
			Name:    LinkStyleCgit,
			Commit:  "{repo}/commit/?id={hash}",
			Compare: "{repo}/diff/?id={to}&id2={from}",
		},
	}
}

// Register adds a style. Existing styles cannot be replaced, so registering never
// changes the output of a style already in use.
func (r LinkStyles) Register(style LinkStyle) error {
	name := strings.ToLower(strings.TrimSpace(style.Name))
	if name == "" {
		return fmt.Errorf("link style name cannot be empty")
	}
	if _, exists := r[name]; exists {
		return fmt.Errorf("link style %q is already registered", name)
	}
	if style.Commit == "" {
		return fmt.Errorf("link style %q: commit template is required", name)
	}
	if !strings.Contains(style.Commit, "{hash}") {
		return fmt.Errorf("link style %q: commit template must contain {hash}", name)
	}
	style.Name = name
	r[name] = style
	return nil
}

// Lookup returns the named style. Names are case-insensitive.
func (r LinkStyles) Lookup(name string) (LinkStyle, error) {
	style, ok := r[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return LinkStyle{}, &UnknownLinkStyleError{Name: name, Available: r.Names()}
	}
	return style, nil
}

// Names returns the registered style names in alphabetical order.
func (r LinkStyles) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
