package crawling

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

// DefaultJobPathHints mark hrefs that point at individual postings.
var DefaultJobPathHints = []string{"/jobs/", "/job/", "/careers/", "/positions/", "/openings/", "/roles/", "gh_jid="}

// atsHosts are applicant tracking systems that host postings for other domains.
var atsHosts = []string{"greenhouse.io", "lever.co", "ashbyhq.com", "myworkdayjobs.com"}

// nonTitles are anchor texts of navigation links found next to postings.
var nonTitles = map[string]bool{
	"apply":         true,
	"apply now":     true,
	"learn more":    true,
	"view all jobs": true,
	"see all jobs":  true,
	"view job":      true,
	"careers":       true,
	"jobs":          true,
	"back":          true,
}

const containerSelector = "li, tr, article, [class*='job'], [class*='posting'], [class*='opening']"

// LinkOptions tunes job link discovery. The zero value uses DefaultJobPathHints.
type LinkOptions struct {
	// PathHints replace DefaultJobPathHints when set.
	PathHints []string
}

// DiscoverJobLinks finds the posting links on a career listing page.
//
// A link qualifies when its resolved URL contains a path hint and it stays on the listing's
// host or a known ATS host. Links without a usable title are discarded. The returned
// captures carry the title, the raw href, the canonical absolute URL and the text of the
// surrounding container, in page order and without duplicates.
func DiscoverJobLinks(html string, baseURL string, opts LinkOptions) ([]types.RawJob, error) {
	base, err := parseBase(baseURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &DiscoveryError{Page: baseURL, Message: "failed to parse HTML", Cause: err}
	}

	hints := opts.PathHints
	if len(hints) == 0 {
		hints = DefaultJobPathHints
	}
	self := CanonicalURL(base)

	seen := make(map[string]bool)
	jobs := make([]types.RawJob, 0)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") {
			return
		}
		linkURL, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(linkURL)
		if !allowedHost(abs.Host, base.Host) {
			return
		}

		canonical := CanonicalURL(abs)
		if canonical == self || seen[canonical] || !containsAny(strings.ToLower(abs.String()), hints) {
			return
		}

		title := linkTitle(s)
		if title == "" || nonTitles[strings.ToLower(title)] {
			return
		}

		seen[canonical] = true
		jobs = append(jobs, types.RawJob{
			Title:         title,
			Href:          href,
			URL:           canonical,
			ContainerText: containerText(s),
		})
	})

	return jobs, nil
}

// linkTitle prefers a heading or title element inside the anchor over its full text.
func linkTitle(s *goquery.Selection) string {
	if h := s.Find("h1, h2, h3, h4, [class*='title']").First(); h.Length() > 0 {
		if t := collapse(h.Text()); t != "" {
			return t
		}
	}
	if t := collapse(s.Text()); t != "" {
		return t
	}
	if label, ok := s.Attr("aria-label"); ok {
		return collapse(label)
	}
	return ""
}

// containerText returns the text of the nearest listing row around the anchor, or the
// anchor's parent when no row element is found.
func containerText(s *goquery.Selection) string {
	row := s.Closest(containerSelector)
	if row.Length() == 0 {
		row = s.Parent()
	}
	return collapse(row.Text())
}

func allowedHost(host, baseHost string) bool {
	host = strings.ToLower(host)
	if host == strings.ToLower(baseHost) {
		return true
	}
	for _, ats := range atsHosts {
		if host == ats || strings.HasSuffix(host, "."+ats) {
			return true
		}
	}
	return false
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
