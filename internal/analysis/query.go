package analysis

import (
	"strings"

	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

// JobsWithSkill returns the jobs listing skill. The match is exact and case-sensitive
// against vocabulary labels.
func JobsWithSkill(jobs []types.JobPosting, skill string) []types.JobPosting {
	out := make([]types.JobPosting, 0)
	for i := range jobs {
		if jobs[i].HasSkill(skill) {
			out = append(out, jobs[i])
		}
	}
	return out
}

// JobFilter narrows a job list. Zero fields do not filter.
type JobFilter struct {
	Department string
	Location   string
	Skill      string
	HasSalary  *bool
	Limit      int
	Offset     int
}

// FilterJobs applies f and returns the matching page plus the total before paging.
// Department and location compare case-insensitively; skill is exact.
func FilterJobs(jobs []types.JobPosting, f JobFilter) ([]types.JobPosting, int) {
	matched := make([]types.JobPosting, 0)
	for i := range jobs {
		j := &jobs[i]
		if f.Department != "" && !strings.EqualFold(j.Department, f.Department) {
			continue
		}
		if f.Location != "" && !strings.EqualFold(j.Location, f.Location) {
			continue
		}
		if f.Skill != "" && !j.HasSkill(f.Skill) {
			continue
		}
		if f.HasSalary != nil && j.HasSalary() != *f.HasSalary {
			continue
		}
		matched = append(matched, *j)
	}

	total := len(matched)
	if f.Offset > 0 {
		if f.Offset >= total {
			return []types.JobPosting{}, total
		}
		matched = matched[f.Offset:]
	}
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, total
}
