package crawling

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

// DefaultPaperPathHints mark hrefs that point at individual papers or research posts.
var DefaultPaperPathHints = []string{"/research/", "/papers/", "/publications/", "/paper/", "arxiv.org/abs/"}

const paperCardSelector = "article, li, [class*='card'], [class*='post'], [class*='paper']"

// DiscoverPapers extracts research-paper metadata from a publications page: title,
// canonical URL, the <time datetime> date and an authors line when present.
func DiscoverPapers(html string, baseURL string) ([]types.Paper, error) {
	base, err := parseBase(baseURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &DiscoveryError{Page: baseURL, Message: "failed to parse HTML", Cause: err}
	}

	self := CanonicalURL(base)
	seen := make(map[string]bool)
	papers := make([]types.Paper, 0)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		linkURL, err := url.Parse(strings.TrimSpace(href))
		if err != nil || href == "" {
			return
		}
		abs := base.ResolveReference(linkURL)
		canonical := CanonicalURL(abs)
		if canonical == self || seen[canonical] || !containsAny(strings.ToLower(abs.String()), DefaultPaperPathHints) {
			return
		}
		// Index pages such as /research/ itself list papers, they are not papers.
		if strings.Trim(abs.Path, "/") == strings.Trim(base.Path, "/") {
			return
		}

		card := s.Closest(paperCardSelector)
		if card.Length() == 0 {
			card = s.Parent()
		}

		title := ""
		if h := card.Find("h1, h2, h3, h4").First(); h.Length() > 0 {
			title = collapse(h.Text())
		}
		if title == "" {
			title = collapse(s.Text())
		}
		if title == "" || nonTitles[strings.ToLower(title)] {
			return
		}

		seen[canonical] = true
		papers = append(papers, types.Paper{
			Title:     title,
			URL:       canonical,
			Published: publishedDate(card),
			Authors:   splitAuthors(card.Find("[class*='author']").First().Text()),
		})
	})

	return papers, nil
}

func publishedDate(card *goquery.Selection) string {
	t := card.Find("time").First()
	if t.Length() == 0 {
		return ""
	}
	if dt, ok := t.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
		return strings.TrimSpace(dt)
	}
	return collapse(t.Text())
}

// splitAuthors splits an authors line on commas, semicolons, ampersands and "and".
func splitAuthors(line string) []string {
	line = collapse(line)
	if line == "" {
		return nil
	}
	line = strings.NewReplacer(" and ", ",", "&", ",", ";", ",").Replace(line)
	var authors []string
	for _, a := range strings.Split(line, ",") {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	return authors
}
