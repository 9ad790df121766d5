package analysis

import (
	"strings"

	"github.com/jonathan/ai-jobs-tracker/internal/skills"
)

// Role archetypes used to line up postings across companies.
const (
	RoleMLEngineer     = "ML Engineer"
	RoleResearch       = "Research Scientist/Engineer"
	RoleInfrastructure = "Infrastructure Engineer"
	RoleFrontend       = "Frontend Engineer"
	RoleSoftware       = "Software Engineer"
	RoleDataScientist  = "Data Scientist"
	RoleProductManager = "Product Manager"
	RoleSecurity       = "Security Engineer"
	RoleDevOps         = "DevOps/Platform"
	RoleSales          = "Sales/Business"
	RoleDesign         = "Design"
	RoleFinance        = "Finance"
	RoleLegal          = "Legal"
	RolePeople         = "People/HR"
	RoleOther          = "Other"
)

type roleRule struct {
	role  string
	match skills.Matcher
}

var roleRules = []roleRule{
	{RoleMLEngineer, skills.Any(
		skills.Contains("machine learning engineer", "ml engineer", "ai engineer"),
		skills.All(skills.Word("ml", "ai"), skills.Contains("engineer")),
	)},
	{RoleResearch, skills.All(skills.Contains("research"), skills.Contains("scientist", "engineer"))},
	{RoleInfrastructure, skills.Contains("infrastructure")},
	{RoleFrontend, skills.Contains("frontend", "front-end", "front end")},
	{RoleSoftware, skills.Contains("software engineer", "software developer", "full stack", "fullstack", "backend")},
	{RoleDataScientist, skills.Contains("data scientist", "data science")},
	{RoleProductManager, skills.Contains("product manager", "product lead")},
	{RoleSecurity, skills.Contains("security")},
	{RoleDevOps, skills.Any(skills.Contains("devops", "platform", "site reliability"), skills.Word("sre"))},
	{RoleSales, skills.Any(skills.Contains("sales", "business", "partnerships"), skills.Word("account", "accounts"))},
	{RoleDesign, skills.Contains("design")},
	{RoleFinance, skills.Contains("finance", "accounting", "accountant", "tax", "treasury")},
	{RoleLegal, skills.Contains("legal", "counsel", "attorney", "paralegal")},
	{RolePeople, skills.Any(skills.Contains("people", "recruit", "talent"), skills.Word("hr"))},
}

// RoleOrder lists the archetypes in classification order, Other last.
func RoleOrder() []string {
	order := make([]string, 0, len(roleRules)+1)
	for _, r := range roleRules {
		order = append(order, r.role)
	}
	return append(order, RoleOther)
}

// FindSimilarRole maps a title to a company-agnostic role archetype. Like department
// inference it is first-match over an ordered keyword table.
func FindSimilarRole(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return RoleOther
	}
	for _, r := range roleRules {
		if r.match(t) {
			return r.role
		}
	}
	return RoleOther
}
