package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind is the value type a scalar key accepts.
type Kind string

const (
	KindBool   Kind = "bool"
	KindInt    Kind = "int"
	KindString Kind = "string"
	KindEnum   Kind = "enum"
)

// Key describes one scalar key of the [clog] table. Environment variables, .env entries
// and flag overrides are checked against it before they reach koanf.
type Key struct {
	Path        string
	Kind        Kind
	Choices     []string
	Default     any
	Description string
}

// EnvVar returns the environment variable that sets the key.
func (k Key) EnvVar() string {
	name := strings.TrimPrefix(k.Path, "clog.")
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// TypeLabel is the kind, with the accepted values for enums.
func (k Key) TypeLabel() string {
	if k.Kind == KindEnum {
		return string(k.Kind) + "(" + strings.Join(k.Choices, "|") + ")"
	}
	return string(k.Kind)
}

// Parse converts a raw string, as found in the environment, to the key's type.
func (k Key) Parse(raw string) (any, error) {
	switch k.Kind {
	case KindBool:
		if strings.TrimSpace(raw) == "" {
			return false, nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: invalid boolean %q (expected true or false)", k.Path, raw)
		}
		return b, nil
	case KindInt:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: invalid integer %q", k.Path, raw)
		}
		return n, nil
	case KindEnum:
		if !slices.Contains(k.Choices, raw) {
			return nil, fmt.Errorf("%s: invalid value %q (valid options: %s)", k.Path, raw, strings.Join(k.Choices, ", "))
		}
		return raw, nil
	default:
		return raw, nil
	}
}

// keys lists every scalar key in the order of the default template.
var keys = []Key{
	{Path: "clog.repository", Kind: KindString, Default: "", Description: "Repository URL used for links (without .git)"},
	{Path: "clog.link-style", Kind: KindString, Default: "github", Description: "Link style: github, gitlab, stash, cgit or a configured style"},
	{Path: "clog.subtitle", Kind: KindString, Default: "", Description: "Release subtitle printed after the version"},
	{Path: "clog.outfile", Kind: KindString, Default: "changelog.md", Description: "File the changelog is written to"},
	{Path: "clog.infile", Kind: KindString, Default: "", Description: "File prior changelog content is read from (defaults to outfile)"},
	{Path: "clog.from-latest-tag", Kind: KindBool, Default: false, Description: "Start the commit range at the latest tag"},
	{Path: "clog.from", Kind: KindString, Default: "", Description: "Start the commit range at this ref (exclusive)"},
	{Path: "clog.to", Kind: KindString, Default: "HEAD", Description: "End the commit range at this ref"},
	{
		Path:        "clog.breaking-policy",
		Kind:        KindEnum,
		Choices:     []string{"both", "separate"},
		Default:     "both",
		Description: "Keep breaking commits in their own section too (both) or only under Breaking (separate)",
	},
	{Path: "clog.jobs", Kind: KindInt, Default: 1, Description: "Number of parallel commit parsers"},
}

// Keys returns the scalar keys in template order.
func Keys() []Key {
	return slices.Clone(keys)
}

// UnknownKeyError reports a dotted path that names no scalar key.
type UnknownKeyError struct {
	Key string
}

func (e UnknownKeyError) Error() string {
	return "unknown configuration key: " + e.Key
}

// LookupKey returns the key registered for path.
func LookupKey(path string) (Key, error) {
	i := slices.IndexFunc(keys, func(k Key) bool { return k.Path == path })
	if i < 0 {
		return Key{}, UnknownKeyError{Key: path}
	}
	return keys[i], nil
}

// ParseValue checks raw against the key registered for path and returns the typed value.
func ParseValue(path, raw string) (any, error) {
	key, err := LookupKey(path)
	if err != nil {
		return nil, err
	}
	return key.Parse(raw)
}
