package scraper

import (
	"fmt"
	"strings"
)

// Mode selects how much of each posting is fetched.
type Mode string

const (
	// ModeContent fetches every job page and scans its requirements for skills.
	ModeContent Mode = "content"
	// ModeTitle only reads the listing page; skills and salary bands come from titles.
	ModeTitle Mode = "title"
)

// ParseMode parses a mode name. Empty means ModeContent.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeContent:
		return ModeContent, nil
	case ModeTitle:
		return ModeTitle, nil
	default:
		return "", fmt.Errorf("unknown scrape mode %q (want %q or %q)", s, ModeContent, ModeTitle)
	}
}
