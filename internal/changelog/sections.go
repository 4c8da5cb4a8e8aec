package changelog

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
)

// DuplicateAliasError is returned when one alias is claimed by two sections.
type DuplicateAliasError struct {
	Alias    string
	Sections []string
}

func (e *DuplicateAliasError) Error() string {
	return fmt.Sprintf("alias %q is registered by more than one section (%s)",
		e.Alias, strings.Join(e.Sections, ", "))
}

// SectionError reports an invalid section definition.
type SectionError struct {
	Section string
	Message string
}

func (e *SectionError) Error() string {
	if e.Section == "" {
		return e.Message
	}
	return fmt.Sprintf("section %q: %s", e.Section, e.Message)
}

// SectionTable maps commit-type aliases to canonical section names.
// It is built once and read-only afterwards.
type SectionTable struct {
	// order lists sections in registration order, Breaking and Unknown included.
	order   []string
	aliases map[string][]string
	lookup  map[string]string
}

// defaultSections returns the built-in sections in registration order.
func defaultSections() []struct {
	name    string
	aliases []string
} {
	return []struct {
		name    string
		aliases []string
	}{
		{SectionFeatures, []string{"ft", "feat"}},
		{SectionBugFixes, []string{"fx", "fix"}},
		{SectionUnknown, []string{"unk"}},
		{SectionBreaking, nil},
	}
}

// DefaultSectionTable returns the table with only the built-in sections.
func DefaultSectionTable() *SectionTable {
	t, err := NewSectionTable(nil)
	if err != nil {
		panic(fmt.Sprintf("built-in section table is invalid: %v", err))
	}
	return t
}

// NewSectionTable builds a table from the defaults overlaid with user sections.
// Aliases for an existing section extend its list; new section names are appended
// after the defaults in alphabetical order. An alias claimed by two sections, an empty
// alias, or an alias on the Breaking section is rejected.
func NewSectionTable(overlay map[string][]string) (*SectionTable, error) {
	t := &SectionTable{
		aliases: make(map[string][]string),
		lookup:  make(map[string]string),
	}

	for _, s := range defaultSections() {
		t.order = append(t.order, s.name)
		t.aliases[s.name] = append([]string(nil), s.aliases...)
	}

	names := make([]string, 0, len(overlay))
	for name := range overlay {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := t.extend(name, overlay[name]); err != nil {
			return nil, err
		}
	}

	if err := t.index(); err != nil {
		return nil, err
	}
	return t, nil
}

// extend adds aliases to a section, registering it if new.
func (t *SectionTable) extend(name string, aliases []string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &SectionError{Message: "section name cannot be empty"}
	}
	if name == SectionBreaking && len(aliases) > 0 {
		return &SectionError{Section: name, Message: "breaking changes are detected from commit bodies and cannot have aliases"}
	}

	if _, ok := t.aliases[name]; !ok {
		t.order = append(t.order, name)
	}

	existing := t.aliases[name]
	for _, alias := range aliases {
		alias = strings.TrimSpace(alias)
		if alias == "" {
			return &SectionError{Section: name, Message: "alias cannot be empty"}
		}
		if !slices.Contains(existing, alias) {
			existing = append(existing, alias)
		}
	}
	t.aliases[name] = existing
	return nil
}

// index builds the alias lookup, rejecting aliases claimed by several sections.
func (t *SectionTable) index() error {
	owners := make(map[string][]string)
	for _, name := range t.order {
		for _, alias := range t.aliases[name] {
			owners[alias] = append(owners[alias], name)
		}
	}

	aliases := make([]string, 0, len(owners))
	for alias := range owners {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	for _, alias := range aliases {
		if len(owners[alias]) > 1 {
			return &DuplicateAliasError{Alias: alias, Sections: owners[alias]}
		}
		t.lookup[alias] = owners[alias][0]
	}
	return nil
}

// Resolve returns the section registered for alias, or Unknown. Matching is
// case-sensitive.
func (t *SectionTable) Resolve(alias string) string {
	if section, ok := t.lookup[alias]; ok {
		return section
	}
	return SectionUnknown
}

// Sections returns every registered section name in registration order.
func (t *SectionTable) Sections() []string {
	return append([]string(nil), t.order...)
}

// Aliases returns the aliases of a section, or nil if it does not exist.
func (t *SectionTable) Aliases(section string) []string {
	aliases, ok := t.aliases[section]
	if !ok {
		return nil
	}
	return append([]string(nil), aliases...)
}

// Has reports whether a section is registered.
func (t *SectionTable) Has(section string) bool {
	_, ok := t.aliases[section]
	return ok
}

// EmitOrder returns the order in which sections are rendered: Breaking first, then the
// remaining sections in registration order. Unknown is never emitted.
func (t *SectionTable) EmitOrder() []string {
	order := []string{SectionBreaking}
	for _, name := range t.order {
		if name == SectionBreaking || name == SectionUnknown {
			continue
		}
		order = append(order, name)
	}
	return order
}

// GrepPattern returns an extended regular expression matching messages worth parsing:
// any line starting with a known alias, or a BREAKING marker anywhere.
func (t *SectionTable) GrepPattern() string {
	var b strings.Builder
	for _, name := range t.order {
		for _, alias := range t.aliases[name] {
			b.WriteString("^")
			b.WriteString(regexp.QuoteMeta(alias))
			b.WriteString("|")
		}
	}
	b.WriteString("BREAKING")
	return b.String()
}
