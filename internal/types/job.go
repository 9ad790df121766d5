// Package types provides type definitions for structured data used throughout the jobs tracker.
package types

import (
	"time"

	"github.com/google/uuid"
)

// Department buckets assigned by the record builder.
const (
	DepartmentEngineering = "Engineering"
	DepartmentResearch    = "Research"
	DepartmentManagement  = "Management"
	DepartmentSales       = "Sales"
	DepartmentSecurity    = "Security"
	DepartmentData        = "Data"
	DepartmentProduct     = "Product"
	DepartmentOther       = "Other"
)

// Salary is a compensation range in thousands of US dollars.
type Salary struct {
	Raw       string `json:"raw"`
	Min       int    `json:"min"`
	Max       int    `json:"max"`
	Estimated bool   `json:"estimated,omitempty"` // derived from the title, not the page
}

// Midpoint returns the center of the range.
func (s *Salary) Midpoint() float64 {
	return float64(s.Min+s.Max) / 2
}

// JobPosting is one scraped career-site listing with its derived fields.
type JobPosting struct {
	Title        string   `json:"title"`
	URL          string   `json:"url"`
	Company      string   `json:"company,omitempty"`
	Location     string   `json:"location"`
	Department   string   `json:"department"`
	Salary       *Salary  `json:"salary,omitempty"`
	Skills       []string `json:"skills"`
	Description  string   `json:"description,omitempty"`
	RulesVersion string   `json:"rules_version,omitempty"`
}

// HasSalary reports whether a salary range was recovered.
func (j *JobPosting) HasSalary() bool {
	return j.Salary != nil
}

// HasSkill reports whether the posting lists the skill (exact match).
func (j *JobPosting) HasSkill(skill string) bool {
	for _, s := range j.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// RawJob is the captured input for one job: the link found on the listing page plus the
// fetched job page, if any. Captures are stored so rules can be re-applied later.
type RawJob struct {
	Title         string `json:"title"`
	Href          string `json:"href"`
	URL           string `json:"url"`
	ContainerText string `json:"container_text,omitempty"`
	PageText      string `json:"page_text,omitempty"`
	PageHTML      string `json:"page_html,omitempty"`
	ContentHash   string `json:"content_hash,omitempty"`
}

// SkipRecord records a job that was dropped because its page could not be fetched.
type SkipRecord struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	Error string `json:"error"`
}

// SkillStat is a skill with the number of postings that list it.
type SkillStat struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// CategoryStats summarizes salary coverage for one department or location.
type CategoryStats struct {
	Name        string  `json:"name"`
	Total       int     `json:"total"`
	WithSalary  int     `json:"with_salary"`
	SalaryRatio float64 `json:"salary_ratio"`
	AvgMin      float64 `json:"avg_min"`
	AvgMax      float64 `json:"avg_max"`
}

// Summary holds aggregate statistics over a set of postings.
type Summary struct {
	TotalJobs         int             `json:"total_jobs"`
	JobsWithSalary    int             `json:"jobs_with_salary"`
	SuccessRate       float64         `json:"success_rate"`
	HighestPayingJobs []JobPosting    `json:"highest_paying_jobs"`
	LowestPayingJobs  []JobPosting    `json:"lowest_paying_jobs"`
	MostCommonSkills  []SkillStat     `json:"most_common_skills"`
	Categories        []CategoryStats `json:"categories"`
	Locations         []CategoryStats `json:"locations"`
}

// CompanyDataset is one immutable scrape snapshot for a company.
type CompanyDataset struct {
	ID           uuid.UUID    `json:"id"`
	Company      string       `json:"company"`
	RulesVersion string       `json:"rules_version"`
	Mode         string       `json:"mode,omitempty"`
	ScrapedAt    time.Time    `json:"scraped_at"`
	Jobs         []JobPosting `json:"jobs"`
	Papers       []Paper      `json:"papers,omitempty"`
	Skipped      []SkipRecord `json:"skipped,omitempty"`
	Summary      Summary      `json:"summary"`
}

// RoleMatch pairs the postings of two companies that fall into the same role archetype.
type RoleMatch struct {
	Role  string       `json:"role"`
	JobsA []JobPosting `json:"jobs_a"`
	JobsB []JobPosting `json:"jobs_b"`
}

// Comparison is the cross-company comparison of two datasets.
type Comparison struct {
	CompanyA        string      `json:"company_a"`
	CompanyB        string      `json:"company_b"`
	AvgSalaryA      float64     `json:"avg_salary_a"`
	AvgSalaryB      float64     `json:"avg_salary_b"`
	HigherPaying    string      `json:"higher_paying"`
	CommonSkills    []string    `json:"common_skills"`
	UniqueToA       []string    `json:"unique_to_a"`
	UniqueToB       []string    `json:"unique_to_b"`
	SimilarRoles    []RoleMatch `json:"similar_roles"`
	TotalJobsA      int         `json:"total_jobs_a"`
	TotalJobsB      int         `json:"total_jobs_b"`
	SalaryCoverageA float64     `json:"salary_coverage_a"`
	SalaryCoverageB float64     `json:"salary_coverage_b"`
}
