package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobsWithSkill(t *testing.T) {
	jobs := sampleJobs()

	got := JobsWithSkill(jobs, "Python")
	assert.Len(t, got, 3)

	assert.Empty(t, JobsWithSkill(jobs, "python"))
	assert.NotNil(t, JobsWithSkill(jobs, "COBOL"))
}

func TestFilterJobs(t *testing.T) {
	jobs := sampleJobs()
	yes, no := true, false

	tests := []struct {
		name      string
		filter    JobFilter
		wantTotal int
		wantLen   int
	}{
		{"no filter", JobFilter{}, 5, 5},
		{"department case insensitive", JobFilter{Department: "engineering"}, 3, 3},
		{"location", JobFilter{Location: "San Francisco"}, 3, 3},
		{"skill", JobFilter{Skill: "PyTorch"}, 2, 2},
		{"with salary", JobFilter{HasSalary: &yes}, 3, 3},
		{"without salary", JobFilter{HasSalary: &no}, 2, 2},
		{"combined", JobFilter{Department: "Engineering", HasSalary: &yes}, 2, 2},
		{"limit", JobFilter{Limit: 2}, 5, 2},
		{"offset", JobFilter{Offset: 4, Limit: 2}, 5, 1},
		{"offset past end", JobFilter{Offset: 10}, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total := FilterJobs(jobs, tt.filter)
			assert.Equal(t, tt.wantTotal, total)
			assert.Len(t, got, tt.wantLen)
		})
	}
}
