package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromTitle(t *testing.T) {
	rules := DefaultTitleRules()

	tests := []struct {
		title string
		want  []string
	}{
		{"Frontend Engineer", []string{React, JavaScript, HTMLCSS}},
		{"Backend Engineer, API", []string{Python, Go, SQL}},
		{"Full Stack Software Engineer", []string{JavaScript, React, Python, SQL}},
		{"ML Engineer", []string{Python, PyTorch, ML}},
		{"Research Scientist, Alignment", []string{Python, PyTorch, ML}},
		{"Data Scientist", []string{Python, SQL, ML}},
		{"Data Visualization Designer", []string{Python, SQL, DataAnalysis}},
		{"Data Center Operations Lead", FacilitiesSkills},
		{"Data Engineer", []string{Python, SQL}},
		{"Data Engineer, Model Training", []string{Python, SQL, ML}},
		{"Infrastructure Engineer", []string{Kubernetes, Docker, Cloud, Linux}},
		{"SRE", []string{Kubernetes, Docker, Cloud, Linux}},
		{"Security Engineer", []string{Python, Linux}},
		{"Principal Engineer, GPU Platform", []string{Python, CPP, CUDA}},
		{"Inference Engineer", []string{Python, CPP, CUDA, PyTorch, ML}},
		{"iOS Engineer", []string{Swift}},
		{"Android Engineer", []string{Kotlin, Java}},
		{"Stargate Construction Manager", FacilitiesSkills},
		{"Hardware Design Engineer", []string{ProjectMgmt, CAD}},
		{"Manufacturing Engineer", []string{ProjectMgmt}},
		{"Account Director - Sales", []string{Sales, CustSuccess}},
		{"Software Engineer", []string{Python}},
		{"Engineering Manager", []string{Leadership, ProjectMgmt}},
		{"Recruiting Coordinator", []string{}},
		{"", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, FromTitle(tt.title, rules))
		})
	}
}

func TestFromTitle_Deterministic(t *testing.T) {
	rules := DefaultTitleRules()
	for _, title := range []string{"Frontend Engineer", "GPU Inference", "Chef", "Data Scientist"} {
		first := FromTitle(title, rules)
		second := FromTitle(title, rules)
		assert.Equal(t, first, second)
		assert.NotNil(t, first)
	}
}

func TestFromTitle_FirstRuleWins(t *testing.T) {
	rules := DefaultTitleRules()

	rule := MatchTitleRule("Frontend Security Engineer", rules)

	if assert.NotNil(t, rule) {
		assert.Equal(t, "frontend", rule.Name)
	}
	assert.NotContains(t, FromTitle("Frontend Security Engineer", rules), Linux)
}

func TestFromTitle_ReturnsCopies(t *testing.T) {
	rules := DefaultTitleRules()

	got := FromTitle("Data Center Technician", rules)
	got[0] = "mutated"

	assert.Equal(t, Electrical, FacilitiesSkills[0])
}

func TestDefaultTitleRules_OnlyVocabulary(t *testing.T) {
	titles := []string{
		"Frontend", "Backend", "Full Stack", "ML", "Research Engineer", "Data Scientist",
		"Data Visualization", "Data Center", "Data Engineer AI", "DevOps", "Security", "GPU AI",
		"iOS", "Android", "Stargate", "Hardware Design", "Sales", "Engineer", "Director",
	}
	for _, title := range titles {
		for _, s := range FromTitle(title, DefaultTitleRules()) {
			assert.True(t, InVocabulary(s), "%s -> %s", title, s)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	assert.NoError(t, err)
	assert.Equal(t, StrategyContent, s)

	s, err = ParseStrategy("title")
	assert.NoError(t, err)
	assert.Equal(t, StrategyTitle, s)

	_, err = ParseStrategy("llm")
	assert.Error(t, err)
}

func TestNormalizeSkillName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"golang", Go},
		{"K8s", Kubernetes},
		{"react.js", React},
		{"python", Python},
		{"Machine Learning", ML},
		{"  PyTorch ", PyTorch},
		{"postgres", SQL},
		{"cobol", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSkillName(tt.input))
		})
	}
}
