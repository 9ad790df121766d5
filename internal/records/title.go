package records

import (
	"regexp"
	"strings"
	"unicode"
)

// departmentSuffix matches a department word glued to the next capitalized word.
var departmentSuffix = regexp.MustCompile(`(Engineering|Products|Science|Infrastructure|Design|Operations|Success)([A-Z])`)

// mixedCaseWords keep their internal capitals when spaces are reinserted.
var mixedCaseWords = []string{
	"iOS", "macOS", "DevOps", "MLOps", "DevEx", "GitHub", "GitLab", "PyTorch", "JavaScript",
	"TypeScript", "OpenAI", "DeepMind", "ChatGPT", "GPUs", "LLMs", "xAI", "PhD", "SaaS",
}

var titleSeparators = " ,-–—|/·"

// CleanTitle repairs titles whose parts were concatenated without separators, such as
// "Software Engineer, Real TimeApplied AI EngineeringSeattle", and strips a known location
// glued to the end.
func CleanTitle(title string, locations []string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}

	title = stripGluedLocation(title, locations)
	title = departmentSuffix.ReplaceAllString(title, "$1 $2")
	title = splitCaseTransitions(title)

	return strings.Trim(strings.Join(strings.Fields(title), " "), titleSeparators)
}

// stripGluedLocation removes a trailing location that directly follows a letter.
func stripGluedLocation(title string, locations []string) string {
	for _, loc := range locations {
		if loc == "" || len(loc) >= len(title) || !strings.HasSuffix(title, loc) {
			continue
		}
		head := title[:len(title)-len(loc)]
		last := rune(head[len(head)-1])
		if unicode.IsLetter(last) || unicode.IsDigit(last) || last == ')' {
			return head
		}
	}
	return title
}

// splitCaseTransitions inserts a space between a lowercase letter and a following capital,
// except inside known mixed-case words.
func splitCaseTransitions(s string) string {
	protected := make([]bool, len(s)+1)
	for _, w := range mixedCaseWords {
		for start := 0; ; {
			i := strings.Index(s[start:], w)
			if i < 0 {
				break
			}
			for j := start + i + 1; j < start+i+len(w); j++ {
				protected[j] = true
			}
			start += i + len(w)
		}
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if i > 0 && !protected[i] && isUpper(c) && isLower(s[i-1]) {
			b.WriteByte(' ')
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
