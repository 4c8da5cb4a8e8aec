package changelog

// Well-known section names. Unknown is the fallback for unmatched aliases and is never
// rendered; Breaking is filled from breaking-change markers rather than aliases.
const (
	SectionBreaking = "Breaking"
	SectionFeatures = "Features"
	SectionBugFixes = "Bug Fixes"
	SectionUnknown  = "Unknown"
)

// Commit is one parsed commit message. Type holds the resolved section name, not the
// alias that appeared in the subject.
type Commit struct {
	Hash      string
	Subject   string
	Component string
	Type      string
	Closes    []string
	Breaking  []string
}

// IsBreaking reports whether the commit carries at least one breaking-change note.
func (c Commit) IsBreaking() bool {
	return len(c.Breaking) > 0
}

// ShortHash returns the first 8 characters of the hash.
func (c Commit) ShortHash() string {
	if len(c.Hash) <= 8 {
		return c.Hash
	}
	return c.Hash[:8]
}

// Changelog is the aggregated view of a commit range, ready for rendering.
// Sections are in emission order and never empty.
type Changelog struct {
	Sections []Section
}

// Section groups the commits of one changelog category by component.
type Section struct {
	Name       string
	Components []Component
}

// Component holds the commits of one subsystem within a section, in input order.
// An empty Name collects commits without a component.
type Component struct {
	Name    string
	Commits []Commit
}

// IsEmpty returns true if no section has any commit.
func (c *Changelog) IsEmpty() bool {
	return c == nil || len(c.Sections) == 0
}

// Section returns the named section, or nil if it was not emitted.
func (c *Changelog) Section(name string) *Section {
	if c == nil {
		return nil
	}
	for i := range c.Sections {
		if c.Sections[i].Name == name {
			return &c.Sections[i]
		}
	}
	return nil
}

// SectionNames returns the emitted section names in order.
func (c *Changelog) SectionNames() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.Sections))
	for i, s := range c.Sections {
		names[i] = s.Name
	}
	return names
}

// Count returns the total number of entries across all sections.
func (c *Changelog) Count() int {
	if c == nil {
		return 0
	}
	count := 0
	for _, s := range c.Sections {
		count += s.Count()
	}
	return count
}

// Count returns the number of entries in the section.
func (s Section) Count() int {
	count := 0
	for _, comp := range s.Components {
		count += len(comp.Commits)
	}
	return count
}
