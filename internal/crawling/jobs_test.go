package crawling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingHTML = `
<html>
	<body>
		<nav><a href="/careers">Careers</a><a href="/about">About</a></nav>
		<ul class="openings">
			<li class="job-row">
				<a href="/jobs/123-frontend?utm_source=x#apply"><h3>Frontend Engineer</h3></a>
				<span>San Francisco, CA</span>
			</li>
			<li class="job-row">
				<a href="https://boards.greenhouse.io/acme/jobs/456?gh_src=abc">Research EngineerLondon</a>
				<span>$300K - $400K</span>
			</li>
			<li class="job-row">
				<a href="/jobs/123-frontend">Frontend Engineer</a>
			</li>
			<li class="job-row"><a href="/jobs/789">Apply</a></li>
			<li class="job-row"><a href="/jobs/790"></a></li>
			<li><a href="https://evil.example.net/jobs/1">Offsite</a></li>
			<li><a href="mailto:jobs@acme.com">Email us</a></li>
		</ul>
		<a href="/jobs/">All roles</a>
	</body>
</html>`

func TestDiscoverJobLinks(t *testing.T) {
	jobs, err := DiscoverJobLinks(listingHTML, "https://acme.com/jobs/", LinkOptions{})
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, "Frontend Engineer", jobs[0].Title)
	assert.Equal(t, "/jobs/123-frontend?utm_source=x#apply", jobs[0].Href)
	assert.Equal(t, "https://acme.com/jobs/123-frontend", jobs[0].URL)
	assert.Equal(t, "Frontend Engineer San Francisco, CA", jobs[0].ContainerText)

	assert.Equal(t, "Research EngineerLondon", jobs[1].Title)
	assert.Equal(t, "https://boards.greenhouse.io/acme/jobs/456", jobs[1].URL)
	assert.Contains(t, jobs[1].ContainerText, "$300K - $400K")
}

func TestDiscoverJobLinks_PathHints(t *testing.T) {
	html := `<div><a href="/o/123">ML Engineer</a><a href="/jobs/1">Data Engineer</a></div>`

	jobs, err := DiscoverJobLinks(html, "https://acme.com", LinkOptions{PathHints: []string{"/o/"}})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "ML Engineer", jobs[0].Title)
	assert.Equal(t, "ML EngineerData Engineer", jobs[0].ContainerText)
}

func TestDiscoverJobLinks_AriaLabel(t *testing.T) {
	html := `<li><a href="/jobs/1" aria-label="Security Engineer"><img src="x.png"></a></li>`

	jobs, err := DiscoverJobLinks(html, "https://acme.com", LinkOptions{})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Security Engineer", jobs[0].Title)
}

func TestDiscoverJobLinks_InvalidBaseURL(t *testing.T) {
	_, err := DiscoverJobLinks("<html></html>", "not-a-url", LinkOptions{})

	var linkErr *DiscoveryError
	require.ErrorAs(t, err, &linkErr)
	assert.Contains(t, err.Error(), "invalid base URL")
}

func TestDiscoverJobLinks_NoLinks(t *testing.T) {
	jobs, err := DiscoverJobLinks("<html><body><p>No openings</p></body></html>", "https://acme.com", LinkOptions{})
	require.NoError(t, err)
	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://acme.com/jobs/1/", "https://acme.com/jobs/1"},
		{"https://ACME.com/jobs/1#apply", "https://acme.com/jobs/1"},
		{"https://acme.com/jobs/1?utm_campaign=x&lever-source=y&id=7", "https://acme.com/jobs/1?id=7"},
		{"https://acme.com/jobs?b=2&a=1", "https://acme.com/jobs?a=1&b=2"},
		{"https://acme.com/", "https://acme.com/"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Canonicalize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
