package rules

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/ai-jobs-tracker/internal/skills"
)

// Overrides is the YAML shape of a local rule overrides file.
type Overrides struct {
	Tag             string    `yaml:"tag"`
	Locations       []string  `yaml:"locations"`
	DefaultLocation string    `yaml:"default_location"`
	TopN            int       `yaml:"top_n"`
	Strategy        string    `yaml:"strategy"`
	Keywords        []Keyword `yaml:"keywords"`
}

// Keyword adds unconditional content triggers for a vocabulary skill.
type Keyword struct {
	Skill string   `yaml:"skill"`
	Terms []string `yaml:"terms"`
}

// OverrideError reports an invalid overrides file.
type OverrideError struct {
	Path    string
	Message string
	Cause   error
}

func (e *OverrideError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rules overrides %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("rules overrides %s: %s", e.Path, e.Message)
}

func (e *OverrideError) Unwrap() error {
	return e.Cause
}

// Load reads a YAML overrides file and applies it on top of the default set.
// An empty path returns Default().
func Load(path string) (*Set, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &OverrideError{Path: path, Message: "failed to read file", Cause: err}
	}
	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, &OverrideError{Path: path, Message: "failed to parse YAML", Cause: err}
	}
	set, err := Apply(Default(), o)
	if err != nil {
		var oe *OverrideError
		if errors.As(err, &oe) {
			oe.Path = path
			return nil, oe
		}
		return nil, err
	}
	return set, nil
}

// Apply returns a copy of base with the overrides applied. The resulting version carries the
// override tag so datasets built from it are distinguishable from the built-in set.
func Apply(base *Set, o Overrides) (*Set, error) {
	set := *base
	set.Content = append([]skills.ContentRule(nil), base.Content...)

	if len(o.Locations) > 0 {
		set.Locations = nil
		for _, loc := range o.Locations {
			if loc = strings.TrimSpace(loc); loc != "" {
				set.Locations = append(set.Locations, loc)
			}
		}
	}
	if o.DefaultLocation != "" {
		set.DefaultLocation = o.DefaultLocation
	}
	if o.TopN < 0 {
		return nil, &OverrideError{Message: fmt.Sprintf("top_n must be positive, got %d", o.TopN)}
	}
	if o.TopN > 0 {
		set.TopN = o.TopN
	}
	if o.Strategy != "" {
		st, err := skills.ParseStrategy(o.Strategy)
		if err != nil {
			return nil, &OverrideError{Message: "invalid strategy", Cause: err}
		}
		set.Strategy = st
	}

	for _, kw := range o.Keywords {
		label := skills.NormalizeSkillName(kw.Skill)
		if label == "" {
			return nil, &OverrideError{Message: fmt.Sprintf("unknown skill %q", kw.Skill)}
		}
		terms := make([]string, 0, len(kw.Terms))
		for _, t := range kw.Terms {
			if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
				terms = append(terms, t)
			}
		}
		if len(terms) == 0 {
			return nil, &OverrideError{Message: fmt.Sprintf("skill %q has no terms", kw.Skill)}
		}
		set.Content = append(set.Content, skills.ContentRule{Skill: label, Match: skills.Word(terms...)})
	}

	if o.Tag != "" || len(o.Keywords) > 0 || len(o.Locations) > 0 {
		tag := o.Tag
		if tag == "" {
			tag = "local"
		}
		set.Version = base.Version + "+" + tag
	}
	return &set, nil
}
