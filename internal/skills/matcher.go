package skills

import (
	"regexp"
	"strings"
)

// Matcher is a predicate over lowercase text.
type Matcher func(text string) bool

// Contains matches when any of the substrings occurs.
func Contains(subs ...string) Matcher {
	return func(text string) bool {
		for _, s := range subs {
			if strings.Contains(text, s) {
				return true
			}
		}
		return false
	}
}

// Word matches when any of the words occurs delimited by non-word characters.
// "+" and "#" count as word characters so that "c++" and "c#" stay intact.
func Word(words ...string) Matcher {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	re := regexp.MustCompile(`(?:^|[^a-z0-9+#])(?:` + strings.Join(quoted, "|") + `)(?:$|[^a-z0-9+#])`)
	return re.MatchString
}

// All matches when every matcher matches.
func All(ms ...Matcher) Matcher {
	return func(text string) bool {
		for _, m := range ms {
			if !m(text) {
				return false
			}
		}
		return true
	}
}

// Any matches when at least one matcher matches.
func Any(ms ...Matcher) Matcher {
	return func(text string) bool {
		for _, m := range ms {
			if m(text) {
				return true
			}
		}
		return false
	}
}

// Not inverts a matcher.
func Not(m Matcher) Matcher {
	return func(text string) bool {
		return !m(text)
	}
}
