package skills

import "strings"

// TitleRule maps a role archetype, recognized from the job title, to a fixed skill set.
// Skills receives the lowercase title so a rule can refine its set.
type TitleRule struct {
	Name   string
	Match  Matcher
	Skills func(title string) []string
}

func fixed(skills ...string) func(string) []string {
	return func(string) []string {
		return append([]string(nil), skills...)
	}
}

var (
	aiFlavor = Any(Word("ai", "ml", "artificial"), Contains("machine learning", "learning", "model"))

	dataScientist = Contains("data scientist", "data science")
	dataViz       = Contains("data visualization", "data visualisation")
	dataCenter    = Contains("data center", "data centre", "datacenter")
	dataEngineer  = Contains("data engineer")
)

// dataSkills is the refined data-role rule: data scientists get ML skills, visualization
// roles do not, data-center roles are facilities work, and data engineers only get ML
// when the title is AI flavored.
func dataSkills(title string) []string {
	switch {
	case dataCenter(title):
		return append([]string(nil), FacilitiesSkills...)
	case dataViz(title):
		return []string{Python, SQL, DataAnalysis}
	case dataScientist(title):
		return []string{Python, SQL, ML}
	case dataEngineer(title):
		if Any(Word("ai", "artificial"), Contains("learning", "model"))(title) {
			return []string{Python, SQL, ML}
		}
		return []string{Python, SQL}
	}
	return nil
}

func gpuSkills(title string) []string {
	skills := []string{Python, CPP, CUDA}
	if Any(aiFlavor, Contains("inference"))(title) {
		skills = append(skills, PyTorch, ML)
	}
	return skills
}

func mobileSkills(title string) []string {
	if Word("ios")(title) {
		return []string{Swift}
	}
	return []string{Kotlin, Java}
}

func hardwareSkills(title string) []string {
	if strings.Contains(title, "design") {
		return []string{ProjectMgmt, CAD}
	}
	return []string{ProjectMgmt}
}

// DefaultTitleRules returns the ordered title rule table. Rules are mutually exclusive:
// the first match decides the whole skill set.
func DefaultTitleRules() []TitleRule {
	return []TitleRule{
		{"frontend", Contains("frontend", "front-end", "front end"), fixed(React, JavaScript, HTMLCSS)},
		{"backend", Contains("backend", "back-end", "back end"), fixed(Python, Go, SQL)},
		{"full-stack", Contains("full stack", "full-stack", "fullstack"), fixed(JavaScript, React, Python, SQL)},
		{"ml-ai", Any(Word("ml", "ai"), Contains("machine learning", "artificial intelligence")), fixed(Python, PyTorch, ML)},
		{"research", All(Contains("research"), Contains("engineer", "scientist")), fixed(Python, PyTorch, ML)},
		{"data", Any(dataScientist, dataViz, dataCenter, dataEngineer), dataSkills},
		{"infrastructure", Any(Contains("infrastructure", "devops", "site reliability"), Word("sre")), fixed(Kubernetes, Docker, Cloud, Linux)},
		{"security", Contains("security"), fixed(Python, Linux)},
		{"gpu", Any(Word("gpu", "gpus"), Contains("cuda", "inference")), gpuSkills},
		{"mobile", Word("ios", "android"), mobileSkills},
		{"facilities", Any(Contains("stargate"), dataCenter), fixed(FacilitiesSkills...)},
		{"hardware", Contains("manufacturing", "hardware"), hardwareSkills},
		{"sales", Contains("sales", "account", "business"), fixed(Sales, CustSuccess)},
		{"engineer", Word("engineer", "engineers"), fixed(Python)},
		{"leadership", Any(Contains("manager", "director"), Word("lead")), fixed(Leadership, ProjectMgmt)},
	}
}

// MatchTitleRule returns the first rule matching title, or nil.
func MatchTitleRule(title string, rules []TitleRule) *TitleRule {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return nil
	}
	for i := range rules {
		if rules[i].Match(t) {
			return &rules[i]
		}
	}
	return nil
}

// FromTitle infers skills from the job title alone. It prefers an empty list to a wrong
// one: titles matching no archetype get no skills.
func FromTitle(title string, rules []TitleRule) []string {
	rule := MatchTitleRule(title, rules)
	if rule == nil {
		return []string{}
	}
	return rule.Skills(strings.ToLower(strings.TrimSpace(title)))
}
