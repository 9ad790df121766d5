package crawling

import (
	"fmt"
	"net/url"
	"strings"
)

// trackingParams are query parameters that identify the referrer, not the posting.
var trackingParams = map[string]bool{
	"gh_src":       true,
	"lever-source": true,
	"lever-origin": true,
	"source":       true,
	"ref":          true,
}

// CanonicalURL drops the fragment, tracking parameters and a trailing slash, and sorts the
// remaining query so the same posting always has the same URL.
func CanonicalURL(u *url.URL) string {
	c := *u
	c.Fragment = ""
	c.RawFragment = ""
	c.Host = strings.ToLower(c.Host)

	q := c.Query()
	for key := range q {
		if strings.HasPrefix(strings.ToLower(key), "utm_") || trackingParams[strings.ToLower(key)] {
			q.Del(key)
		}
	}
	c.RawQuery = q.Encode()

	if len(c.Path) > 1 {
		c.Path = strings.TrimSuffix(c.Path, "/")
		c.RawPath = ""
	}
	return c.String()
}

// Canonicalize parses raw and returns its canonical form.
func Canonicalize(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL %q: %w", raw, err)
	}
	return CanonicalURL(u), nil
}

func parseBase(baseURL string) (*url.URL, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, &DiscoveryError{Page: baseURL, Message: "failed to parse base URL", Cause: err}
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, &DiscoveryError{Page: baseURL, Message: "invalid base URL (must have scheme and host)"}
	}
	return base, nil
}
