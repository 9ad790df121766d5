package fetch

import (
	"net/url"
	"strings"
)

// Platform is an applicant tracking system that hosts career pages for AI companies.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformUnknown    Platform = "unknown"
)

// profile describes how one platform lays out listings and postings.
type profile struct {
	hosts    []string // host suffixes
	jobHints []string // href fragments of posting links on the listing page
	content  []string // posting body, most specific first
	noise    []string // removed before text extraction
}

var profiles = map[Platform]profile{
	PlatformGreenhouse: {
		hosts:    []string{"greenhouse.io"},
		jobHints: []string{"/jobs/", "gh_jid="},
		content:  []string{".job__description.body", ".job__description", "#content", ".job-post-container"},
		noise:    []string{".application--wrapper", ".voluntary-self-id-wrapper", "#usa_self_id_section", ".post-apply"},
	},
	PlatformLever: {
		hosts:    []string{"lever.co"},
		jobHints: []string{"jobs.lever.co/"},
		content:  []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:    []string{".apply-section", ".posting-apply", ".lever-application-form"},
	},
	PlatformAshby: {
		hosts:    []string{"ashbyhq.com"},
		jobHints: []string{"jobs.ashbyhq.com/"},
		content:  []string{"[class*='descriptionText']", "[class*='jobPostingContent']", "main"},
		noise:    []string{"[class*='applicationForm']", "[class*='_navigation']"},
	},
	PlatformWorkday: {
		hosts:    []string{"myworkdayjobs.com", "workday.com"},
		jobHints: []string{"/job/"},
		content:  []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']", ".job-description"},
		noise:    []string{"[data-automation-id='applyButton']", "[data-automation-id='similarJobs']"},
	},
}

// Application forms, EEO text and consent banners appear on every platform and carry
// keywords ("python" in a referral form, "sql" in a survey) that pollute skill scans.
var commonNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".apply-button-container",
	".eeo-statement",
	".eeo-section",
	".voluntary-disclosure",
	".self-identification",
	".social-share",
	".cookie-banner",
	".cookie-consent",
}

// DetectPlatform identifies the hosting platform from a career page or posting URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	for name, p := range profiles {
		for _, suffix := range p.hosts {
			if host == suffix || strings.HasSuffix(host, "."+suffix) {
				return name
			}
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns the posting body selectors for a platform, falling back
// to the generic job posting selectors.
func PlatformContentSelectors(platform Platform) []string {
	if p, ok := profiles[platform]; ok {
		return append([]string(nil), p.content...)
	}
	return JobPostingSelectors()
}

// PlatformNoiseSelectors returns the selectors stripped before text extraction.
func PlatformNoiseSelectors(platform Platform) []string {
	out := append([]string(nil), commonNoise...)
	if p, ok := profiles[platform]; ok {
		out = append(out, p.noise...)
	}
	return out
}

// PlatformJobPathHints returns the href fragments that mark posting links on a listing
// hosted by platform, or nil when the generic hints apply.
func PlatformJobPathHints(platform Platform) []string {
	if p, ok := profiles[platform]; ok {
		return append([]string(nil), p.jobHints...)
	}
	return nil
}
