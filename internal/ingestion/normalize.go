package ingestion

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// FallbackChars bounds the text handed to the skill scan when a page has no
// requirements section and no list items.
const FallbackChars = 1000

// sectionSpan is how many lines after a trigger line belong to its section.
const sectionSpan = 12

// RequirementTriggers mark the lines that open a requirements section.
var RequirementTriggers = []string{
	"requirements",
	"qualifications",
	"what you",
	"you have",
	"must have",
	"skills",
	"experience with",
	"minimum qualifications",
}

var bulletPrefixes = []string{"- ", "* ", "• ", "· ", "– "}

// Normalize lowercases text and collapses every whitespace run to a single space.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// RequirementsText isolates the requirements part of a job page.
//
// Lines containing a trigger word are kept together with the lines that follow them
// up to the next blank line. Without any trigger the list items of html are used, then
// bullet lines of text, and finally the first FallbackChars characters of the page.
func RequirementsText(text string, html string) string {
	if strings.TrimSpace(text) == "" && strings.TrimSpace(html) == "" {
		return ""
	}

	if section := triggerSections(text); section != "" {
		return section
	}

	items := ListItems(html)
	if len(items) == 0 {
		items = bulletLines(text)
	}
	if len(items) > 0 {
		return Normalize(strings.Join(items, " "))
	}

	return Truncate(Normalize(text), FallbackChars)
}

func triggerSections(text string) string {
	lines := strings.Split(CleanText(text), "\n")
	var kept []string
	open := 0
	for _, line := range lines {
		normalized := Normalize(line)
		if normalized == "" {
			open = 0
			continue
		}
		if containsAny(normalized, RequirementTriggers) {
			kept = append(kept, normalized)
			open = sectionSpan
			continue
		}
		if open > 0 {
			kept = append(kept, normalized)
			open--
		}
	}
	return strings.Join(kept, " ")
}

// ListItems returns the text of every <li> in html.
func ListItems(html string) []string {
	if strings.TrimSpace(html) == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	var items []string
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			items = append(items, t)
		}
	})
	return items
}

func bulletLines(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		for _, prefix := range bulletPrefixes {
			if strings.HasPrefix(trimmed, prefix) {
				items = append(items, strings.TrimSpace(strings.TrimPrefix(trimmed, prefix)))
				break
			}
		}
	}
	return items
}

// Truncate cuts s to at most n characters without splitting a UTF-8 sequence.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
