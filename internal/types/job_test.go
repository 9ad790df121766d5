package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobPosting_HasSkill(t *testing.T) {
	job := JobPosting{Skills: []string{"Python", "Go"}}

	assert.True(t, job.HasSkill("Python"))
	assert.False(t, job.HasSkill("python"))
	assert.False(t, job.HasSkill("Rust"))
}

func TestSalary_Midpoint(t *testing.T) {
	s := &Salary{Min: 200, Max: 300}
	assert.Equal(t, 250.0, s.Midpoint())
}
