// Package analysis folds job postings into summaries and cross-company comparisons.
// Every function here is pure: the same input always yields the same output.
package analysis

import (
	"math"
	"sort"

	"github.com/jonathan/ai-jobs-tracker/internal/rules"
	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

// Summarize computes the aggregate statistics for jobs. topN bounds the skill and salary
// lists; a non-positive topN uses rules.DefaultTopN.
func Summarize(jobs []types.JobPosting, topN int) types.Summary {
	if topN <= 0 {
		topN = rules.DefaultTopN
	}

	withSalary := 0
	for i := range jobs {
		if jobs[i].HasSalary() {
			withSalary++
		}
	}

	return types.Summary{
		TotalJobs:         len(jobs),
		JobsWithSalary:    withSalary,
		SuccessRate:       percent(withSalary, len(jobs)),
		HighestPayingJobs: HighestPaying(jobs, topN),
		LowestPayingJobs:  LowestPaying(jobs, topN),
		MostCommonSkills:  TopSkills(jobs, topN),
		Categories:        CategoryStatsBy(jobs, func(j *types.JobPosting) string { return j.Department }),
		Locations:         CategoryStatsBy(jobs, func(j *types.JobPosting) string { return j.Location }),
	}
}

// TopSkills counts skill occurrences and returns the n most common, descending by count.
// Ties keep the order in which the skills were first seen.
func TopSkills(jobs []types.JobPosting, n int) []types.SkillStat {
	counts := make(map[string]int)
	var order []string
	for i := range jobs {
		for _, s := range jobs[i].Skills {
			if _, ok := counts[s]; !ok {
				order = append(order, s)
			}
			counts[s]++
		}
	}

	stats := make([]types.SkillStat, 0, len(order))
	for _, s := range order {
		stats = append(stats, types.SkillStat{Skill: s, Count: counts[s]})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})
	if n > 0 && len(stats) > n {
		stats = stats[:n]
	}
	return stats
}

// HighestPaying returns up to n salaried jobs ordered by salary max, descending.
func HighestPaying(jobs []types.JobPosting, n int) []types.JobPosting {
	paid := salaried(jobs)
	sort.SliceStable(paid, func(i, j int) bool {
		return paid[i].Salary.Max > paid[j].Salary.Max
	})
	return head(paid, n)
}

// LowestPaying returns up to n salaried jobs ordered by salary min, ascending.
func LowestPaying(jobs []types.JobPosting, n int) []types.JobPosting {
	paid := salaried(jobs)
	sort.SliceStable(paid, func(i, j int) bool {
		return paid[i].Salary.Min < paid[j].Salary.Min
	})
	return head(paid, n)
}

// CategoryStatsBy groups jobs by key and reports salary coverage per group, in the order
// groups are first seen. Averages are over the salaried members only.
func CategoryStatsBy(jobs []types.JobPosting, key func(*types.JobPosting) string) []types.CategoryStats {
	type acc struct {
		total, withSalary int
		sumMin, sumMax    int
	}
	groups := make(map[string]*acc)
	var order []string

	for i := range jobs {
		k := key(&jobs[i])
		if k == "" {
			k = types.DepartmentOther
		}
		g, ok := groups[k]
		if !ok {
			g = &acc{}
			groups[k] = g
			order = append(order, k)
		}
		g.total++
		if jobs[i].HasSalary() {
			g.withSalary++
			g.sumMin += jobs[i].Salary.Min
			g.sumMax += jobs[i].Salary.Max
		}
	}

	stats := make([]types.CategoryStats, 0, len(order))
	for _, k := range order {
		g := groups[k]
		cs := types.CategoryStats{
			Name:        k,
			Total:       g.total,
			WithSalary:  g.withSalary,
			SalaryRatio: round2(float64(g.withSalary) / float64(g.total)),
		}
		if g.withSalary > 0 {
			cs.AvgMin = round1(float64(g.sumMin) / float64(g.withSalary))
			cs.AvgMax = round1(float64(g.sumMax) / float64(g.withSalary))
		}
		stats = append(stats, cs)
	}
	return stats
}

func salaried(jobs []types.JobPosting) []types.JobPosting {
	paid := make([]types.JobPosting, 0, len(jobs))
	for i := range jobs {
		if jobs[i].HasSalary() {
			paid = append(paid, jobs[i])
		}
	}
	return paid
}

func head(jobs []types.JobPosting, n int) []types.JobPosting {
	if n > 0 && len(jobs) > n {
		return jobs[:n]
	}
	return jobs
}

// percent returns part/total as a percentage with one decimal.
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) * 100 / float64(total))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
