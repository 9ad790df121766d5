package skills

import "fmt"

// Strategy selects how skills are inferred for a posting.
type Strategy string

const (
	// StrategyContent scans the posting text with ContentRules.
	StrategyContent Strategy = "content"
	// StrategyTitle uses the title rule table only.
	StrategyTitle Strategy = "title"
)

// ParseStrategy parses a strategy name; the empty string selects StrategyContent.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyContent:
		return StrategyContent, nil
	case StrategyTitle:
		return StrategyTitle, nil
	default:
		return "", fmt.Errorf("unknown skill strategy %q (want %q or %q)", s, StrategyContent, StrategyTitle)
	}
}
