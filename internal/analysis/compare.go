package analysis

import (
	"sort"

	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

// Tie is the HigherPaying value when neither company pays more on average.
const Tie = "tie"

// Compare computes the cross-company comparison of two datasets.
func Compare(a, b *types.CompanyDataset) types.Comparison {
	avgA, okA := AverageSalary(a.Jobs)
	avgB, okB := AverageSalary(b.Jobs)

	cmp := types.Comparison{
		CompanyA:        a.Company,
		CompanyB:        b.Company,
		AvgSalaryA:      round1(avgA),
		AvgSalaryB:      round1(avgB),
		HigherPaying:    Tie,
		TotalJobsA:      len(a.Jobs),
		TotalJobsB:      len(b.Jobs),
		SalaryCoverageA: coverage(a.Jobs),
		SalaryCoverageB: coverage(b.Jobs),
	}
	switch {
	case okA && (!okB || avgA > avgB):
		cmp.HigherPaying = a.Company
	case okB && (!okA || avgB > avgA):
		cmp.HigherPaying = b.Company
	}

	skillsA, skillsB := skillSet(a.Jobs), skillSet(b.Jobs)
	cmp.CommonSkills = make([]string, 0)
	cmp.UniqueToA = make([]string, 0)
	cmp.UniqueToB = make([]string, 0)
	for s := range skillsA {
		if skillsB[s] {
			cmp.CommonSkills = append(cmp.CommonSkills, s)
		} else {
			cmp.UniqueToA = append(cmp.UniqueToA, s)
		}
	}
	for s := range skillsB {
		if !skillsA[s] {
			cmp.UniqueToB = append(cmp.UniqueToB, s)
		}
	}
	sort.Strings(cmp.CommonSkills)
	sort.Strings(cmp.UniqueToA)
	sort.Strings(cmp.UniqueToB)

	cmp.SimilarRoles = SimilarRoles(a.Jobs, b.Jobs)
	return cmp
}

// AverageSalary returns the mean salary midpoint over salaried jobs. ok is false when no
// job has a salary.
func AverageSalary(jobs []types.JobPosting) (avg float64, ok bool) {
	sum, n := 0.0, 0
	for i := range jobs {
		if jobs[i].HasSalary() {
			sum += jobs[i].Salary.Midpoint()
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// SimilarRoles buckets both job lists by FindSimilarRole and returns the archetypes present
// on both sides, in RoleOrder. Other is never matched.
func SimilarRoles(a, b []types.JobPosting) []types.RoleMatch {
	byRoleA, byRoleB := groupByRole(a), groupByRole(b)

	matches := make([]types.RoleMatch, 0)
	for _, role := range RoleOrder() {
		if role == RoleOther {
			continue
		}
		if len(byRoleA[role]) > 0 && len(byRoleB[role]) > 0 {
			matches = append(matches, types.RoleMatch{Role: role, JobsA: byRoleA[role], JobsB: byRoleB[role]})
		}
	}
	return matches
}

func groupByRole(jobs []types.JobPosting) map[string][]types.JobPosting {
	m := make(map[string][]types.JobPosting)
	for _, j := range jobs {
		role := FindSimilarRole(j.Title)
		m[role] = append(m[role], j)
	}
	return m
}

func skillSet(jobs []types.JobPosting) map[string]bool {
	m := make(map[string]bool)
	for i := range jobs {
		for _, s := range jobs[i].Skills {
			m[s] = true
		}
	}
	return m
}

func coverage(jobs []types.JobPosting) float64 {
	if len(jobs) == 0 {
		return 0
	}
	n := 0
	for i := range jobs {
		if jobs[i].HasSalary() {
			n++
		}
	}
	return round2(float64(n) / float64(len(jobs)))
}
