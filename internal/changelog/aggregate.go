package changelog

import (
	"fmt"
	"sort"
)

// BreakingPolicy decides where breaking commits are listed.
type BreakingPolicy string

const (
	// BreakingBoth lists a breaking commit in its type section and adds its notes to Breaking.
	BreakingBoth BreakingPolicy = "both"
	// BreakingSeparate lists a breaking commit only in Breaking.
	BreakingSeparate BreakingPolicy = "separate"
)

// ParseBreakingPolicy validates a policy name. An empty name selects BreakingBoth.
func ParseBreakingPolicy(name string) (BreakingPolicy, error) {
	switch BreakingPolicy(name) {
	case "", BreakingBoth:
		return BreakingBoth, nil
	case BreakingSeparate:
		return BreakingSeparate, nil
	default:
		return "", fmt.Errorf("unknown breaking policy %q (expected %q or %q)", name, BreakingBoth, BreakingSeparate)
	}
}

// Aggregate groups commits by section and component.
//
// Unknown commits are dropped silently unless they carry breaking notes. Every breaking
// note becomes its own Breaking entry with the note as subject. Sections follow
// table.EmitOrder, components are sorted by name and commits keep input order.
func Aggregate(commits []Commit, table *SectionTable, policy BreakingPolicy) *Changelog {
	grouped := make(map[string]map[string][]Commit)
	add := func(section string, c Commit) {
		comps, ok := grouped[section]
		if !ok {
			comps = make(map[string][]Commit)
			grouped[section] = comps
		}
		comps[c.Component] = append(comps[c.Component], c)
	}

	for _, c := range commits {
		if c.IsBreaking() {
			for _, note := range c.Breaking {
				entry := c
				entry.Subject = note
				add(SectionBreaking, entry)
			}
			if policy == BreakingSeparate {
				continue
			}
		}

		if c.Type == SectionUnknown || c.Type == SectionBreaking || !table.Has(c.Type) {
			continue
		}
		add(c.Type, c)
	}

	cl := &Changelog{}
	for _, name := range table.EmitOrder() {
		comps, ok := grouped[name]
		if !ok {
			continue
		}
		cl.Sections = append(cl.Sections, Section{
			Name:       name,
			Components: sortedComponents(comps),
		})
	}
	return cl
}

// sortedComponents orders component groups by name; the unnamed group sorts first.
func sortedComponents(comps map[string][]Commit) []Component {
	names := make([]string, 0, len(comps))
	for name := range comps {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Component, len(names))
	for i, name := range names {
		out[i] = Component{Name: name, Commits: comps[name]}
	}
	return out
}
