package records

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/ai-jobs-tracker/internal/rules"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "concatenated parts and glued location",
			title: "Software Engineer, Real TimeApplied AI EngineeringSeattle",
			want:  "Software Engineer, Real Time Applied AI Engineering",
		},
		{
			name:  "department word glued to next part",
			title: "Research EngineerScienceLondon",
			want:  "Research Engineer Science",
		},
		{
			name:  "department suffix before capital",
			title: "Customer SuccessManager",
			want:  "Customer Success Manager",
		},
		{
			name:  "mixed case words survive",
			title: "iOS Engineer, DevOps and GitHub Tooling",
			want:  "iOS Engineer, DevOps and GitHub Tooling",
		},
		{
			name:  "separated location is kept",
			title: "Solutions Architect - Tokyo",
			want:  "Solutions Architect - Tokyo",
		},
		{
			name:  "acronyms are not split",
			title: "ML Engineer, GPU Platform",
			want:  "ML Engineer, GPU Platform",
		},
		{
			name:  "whitespace collapsed and separators trimmed",
			title: "  Data   Engineer -  ",
			want:  "Data Engineer",
		},
		{name: "empty", title: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanTitle(tt.title, rules.Locations))
		})
	}
}
