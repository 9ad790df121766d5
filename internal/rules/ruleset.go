// Package rules holds the versioned heuristic rule set applied to captured job data.
//
// Heuristics change as new false positives are found. Instead of materializing a new derived
// snapshot for every iteration, the rules live in one Set with a version and a changelog, and
// datasets record the version that produced them.
package rules

import (
	"github.com/jonathan/ai-jobs-tracker/internal/skills"
)

// Version is the version of the built-in rule set.
const Version = "2024.3"

// DefaultLocation is used when no known location appears in a posting's container text.
const DefaultLocation = "San Francisco"

// DefaultTopN is the length of the top-skill and top-paying lists in summaries.
const DefaultTopN = 20

// Change is one changelog entry.
type Change struct {
	Version string `json:"version" yaml:"version"`
	Summary string `json:"summary" yaml:"summary"`
}

// Changelog lists the rule set iterations, oldest first.
var Changelog = []Change{
	{"2024.1", "Initial keyword tables for salary, skills, location and department."},
	{"2024.2", "Context guards for React, JavaScript, HTML/CSS, Git, Machine Learning and cloud providers."},
	{"2024.3", "Refined title rules for data roles; data center and Stargate roles map to facilities skills."},
}

// Locations is the controlled location set scanned in container text. Earlier entries win.
// Rule overrides may replace it with a longer list.
var Locations = []string{
	"Remote",
	"San Francisco",
	"New York",
	"London",
	"Singapore",
	"Tokyo",
	"Dublin",
	"Seattle",
}

// Set is a complete, versioned rule set.
type Set struct {
	Version         string
	Changelog       []Change
	Content         []skills.ContentRule
	Title           []skills.TitleRule
	Locations       []string
	DefaultLocation string
	TopN            int
	Strategy        skills.Strategy
}

// Default returns the built-in rule set.
func Default() *Set {
	return &Set{
		Version:         Version,
		Changelog:       append([]Change(nil), Changelog...),
		Content:         skills.DefaultContentRules(),
		Title:           skills.DefaultTitleRules(),
		Locations:       append([]string(nil), Locations...),
		DefaultLocation: DefaultLocation,
		TopN:            DefaultTopN,
		Strategy:        skills.StrategyContent,
	}
}

// Skills infers skills for one posting using the set's strategy. contentText must already be
// normalized.
func (s *Set) Skills(title, contentText string) []string {
	if s.Strategy == skills.StrategyTitle {
		return skills.FromTitle(title, s.Title)
	}
	return skills.ScanContent(contentText, s.Content)
}

// WithStrategy returns a copy of the set using strategy st.
func (s *Set) WithStrategy(st skills.Strategy) *Set {
	c := *s
	c.Strategy = st
	return &c
}
