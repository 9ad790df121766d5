// Package records turns captured job links and pages into JobPosting records.
package records

import (
	"strings"

	"github.com/jonathan/ai-jobs-tracker/internal/ingestion"
	"github.com/jonathan/ai-jobs-tracker/internal/parsing"
	"github.com/jonathan/ai-jobs-tracker/internal/rules"
	"github.com/jonathan/ai-jobs-tracker/internal/skills"
	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

// Builder applies a rule set to raw captures. It holds no mutable state and is safe for
// concurrent use.
type Builder struct {
	rules         *rules.Set
	titleEstimate bool
}

// NewBuilder returns a builder for the page path: salaries come from page text only.
func NewBuilder(set *rules.Set) *Builder {
	if set == nil {
		set = rules.Default()
	}
	return &Builder{rules: set}
}

// NewTitleBuilder returns a builder for title-only mode: skills come from the title rules
// and salaries are estimated from the title.
func NewTitleBuilder(set *rules.Set) *Builder {
	if set == nil {
		set = rules.Default()
	}
	return &Builder{rules: set.WithStrategy(skills.StrategyTitle), titleEstimate: true}
}

// Rules returns the rule set the builder applies.
func (b *Builder) Rules() *rules.Set {
	return b.rules
}

// Build produces one posting. It never fails: missing inputs yield an absent salary with a
// reason and possibly empty skills.
func (b *Builder) Build(company string, raw types.RawJob) types.JobPosting {
	title := CleanTitle(raw.Title, b.rules.Locations)

	url := raw.URL
	if url == "" {
		url = raw.Href
	}

	job := types.JobPosting{
		Title:        title,
		URL:          url,
		Company:      company,
		Location:     InferLocation(raw.ContainerText+"\n"+raw.Title, b.rules.Locations, b.rules.DefaultLocation),
		Department:   InferDepartment(title),
		RulesVersion: b.rules.Version,
	}

	if b.titleEstimate {
		job.Salary = parsing.EstimateSalaryFromTitle(title)
	} else {
		job.Salary = parsing.ExtractSalary(raw.PageText)
		if job.Salary == nil {
			job.Salary = parsing.ExtractSalary(raw.ContainerText)
		}
	}
	if job.Salary == nil {
		job.Description = NoSalaryReason(title, job.Location)
	}

	job.Skills = b.rules.Skills(title, contentText(title, raw))
	return job
}

// BuildAll builds every capture in order.
func (b *Builder) BuildAll(company string, raws []types.RawJob) []types.JobPosting {
	jobs := make([]types.JobPosting, 0, len(raws))
	for _, raw := range raws {
		jobs = append(jobs, b.Build(company, raw))
	}
	return jobs
}

// contentText is the text scanned by the content strategy: the normalized title plus the
// requirements part of the page, or of the listing container when no page was fetched.
func contentText(title string, raw types.RawJob) string {
	req := ingestion.RequirementsText(raw.PageText, raw.PageHTML)
	if req == "" {
		req = ingestion.RequirementsText(raw.ContainerText, "")
	}
	return strings.TrimSpace(ingestion.Normalize(title) + " " + req)
}
