package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

func job(title, dept, loc string, salary *types.Salary, skills ...string) types.JobPosting {
	if skills == nil {
		skills = []string{}
	}
	return types.JobPosting{
		Title:      title,
		Department: dept,
		Location:   loc,
		Salary:     salary,
		Skills:     skills,
	}
}

func sal(lo, hi int) *types.Salary {
	return &types.Salary{Min: lo, Max: hi}
}

func sampleJobs() []types.JobPosting {
	return []types.JobPosting{
		job("Frontend Engineer", "Engineering", "San Francisco", sal(200, 300), "React", "JavaScript", "HTML/CSS"),
		job("ML Engineer", "Engineering", "Seattle", sal(300, 450), "Python", "PyTorch", "Machine Learning"),
		job("Account Director", "Sales", "New York", nil, "Sales", "Customer Success"),
		job("Research Scientist", "Research", "San Francisco", sal(350, 500), "Python", "PyTorch", "Machine Learning"),
		job("Backend Engineer", "Engineering", "San Francisco", nil, "Python", "Go", "SQL"),
	}
}

func TestSummarize_Counts(t *testing.T) {
	s := Summarize(sampleJobs(), 10)

	assert.Equal(t, 5, s.TotalJobs)
	assert.Equal(t, 3, s.JobsWithSalary)
	assert.Equal(t, 60.0, s.SuccessRate)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, 10)

	assert.Equal(t, 0, s.TotalJobs)
	assert.Equal(t, 0.0, s.SuccessRate)
	assert.NotNil(t, s.MostCommonSkills)
	assert.NotNil(t, s.HighestPayingJobs)
	assert.NotNil(t, s.Categories)
}

func TestSummarize_SkillCountsSumToMemberships(t *testing.T) {
	jobs := sampleJobs()
	s := Summarize(jobs, 100)

	pairs := 0
	for _, j := range jobs {
		pairs += len(j.Skills)
	}
	sum := 0
	for _, st := range s.MostCommonSkills {
		sum += st.Count
	}
	assert.Equal(t, pairs, sum)

	for i := 1; i < len(s.MostCommonSkills); i++ {
		assert.GreaterOrEqual(t, s.MostCommonSkills[i-1].Count, s.MostCommonSkills[i].Count)
	}
}

func TestTopSkills_TiesKeepFirstSeenOrder(t *testing.T) {
	stats := TopSkills(sampleJobs(), 5)

	want := []types.SkillStat{
		{Skill: "Python", Count: 3},
		{Skill: "PyTorch", Count: 2},
		{Skill: "Machine Learning", Count: 2},
		{Skill: "React", Count: 1},
		{Skill: "JavaScript", Count: 1},
	}
	assert.Equal(t, want, stats)
}

func TestHighestAndLowestPaying(t *testing.T) {
	jobs := sampleJobs()

	high := HighestPaying(jobs, 2)
	require.Len(t, high, 2)
	assert.Equal(t, "Research Scientist", high[0].Title)
	assert.Equal(t, "ML Engineer", high[1].Title)

	low := LowestPaying(jobs, 10)
	require.Len(t, low, 3)
	assert.Equal(t, "Frontend Engineer", low[0].Title)
	assert.Equal(t, "Research Scientist", low[2].Title)
}

func TestHighestPaying_StableForEqualMax(t *testing.T) {
	jobs := []types.JobPosting{
		job("first", "Engineering", "", sal(100, 300)),
		job("second", "Engineering", "", sal(200, 300)),
	}

	high := HighestPaying(jobs, 2)

	assert.Equal(t, "first", high[0].Title)
	assert.Equal(t, "second", high[1].Title)
}

func TestCategoryStatsBy(t *testing.T) {
	s := Summarize(sampleJobs(), 10)

	require.Len(t, s.Categories, 3)
	eng := s.Categories[0]
	assert.Equal(t, "Engineering", eng.Name)
	assert.Equal(t, 3, eng.Total)
	assert.Equal(t, 2, eng.WithSalary)
	assert.Equal(t, 0.67, eng.SalaryRatio)
	assert.Equal(t, 250.0, eng.AvgMin)
	assert.Equal(t, 375.0, eng.AvgMax)

	sales := s.Categories[1]
	assert.Equal(t, "Sales", sales.Name)
	assert.Equal(t, 0.0, sales.AvgMin)

	require.Len(t, s.Locations, 3)
	assert.Equal(t, "San Francisco", s.Locations[0].Name)
	assert.Equal(t, 3, s.Locations[0].Total)
}

func TestSummarize_Deterministic(t *testing.T) {
	jobs := sampleJobs()

	first := Summarize(jobs, 3)
	second := Summarize(jobs, 3)

	assert.Equal(t, first, second)
	assert.Equal(t, sampleJobs(), jobs)
}

func TestSummarize_DefaultTopN(t *testing.T) {
	var jobs []types.JobPosting
	for i := 0; i < 30; i++ {
		jobs = append(jobs, job("Engineer", "Engineering", "Remote", sal(i, i+10)))
	}

	s := Summarize(jobs, 0)

	assert.Len(t, s.HighestPayingJobs, 20)
	assert.Len(t, s.LowestPayingJobs, 20)
}
