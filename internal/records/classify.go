package records

import (
	"strings"

	"github.com/jonathan/ai-jobs-tracker/internal/rules"
	"github.com/jonathan/ai-jobs-tracker/internal/skills"
	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

// Reasons stored in Description when no salary was recovered.
const (
	ReasonSales      = "Sales position - likely commission-based"
	ReasonLeadership = "Leadership role - compensation confidential"
	ReasonRegion     = "Location outside SF/Remote - salary varies by region"
	ReasonCorporate  = "Corporate function - salary not disclosed"
	ReasonUnknown    = "Unknown"
)

// InferLocation returns the first entry of locations found as a whole word in text
// (case-insensitive). When none is found it returns fallback, or rules.DefaultLocation if
// fallback is empty.
func InferLocation(text string, locations []string, fallback string) string {
	lower := strings.ToLower(text)
	for _, loc := range locations {
		if loc != "" && skills.Word(strings.ToLower(loc))(lower) {
			return loc
		}
	}
	if fallback == "" {
		return rules.DefaultLocation
	}
	return fallback
}

// InferDepartment buckets a title by keyword priority. The order decides multi-keyword
// titles: "Data Security Engineer" is Security because security is checked first.
func InferDepartment(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	switch {
	case t == "":
		return types.DepartmentOther
	case containsAny(t, "research", "scientist"):
		return types.DepartmentResearch
	case containsAny(t, "manager", "director"):
		return types.DepartmentManagement
	case containsAny(t, "sales", "account"):
		return types.DepartmentSales
	case strings.Contains(t, "security"):
		return types.DepartmentSecurity
	case strings.Contains(t, "data"):
		return types.DepartmentData
	case strings.Contains(t, "product"):
		return types.DepartmentProduct
	default:
		return types.DepartmentEngineering
	}
}

// NoSalaryReason explains a missing salary from the title and location. It never returns
// an empty string.
func NoSalaryReason(title, location string) string {
	t := strings.ToLower(title)
	loc := strings.ToLower(strings.TrimSpace(location))
	switch {
	case containsAny(t, "sales", "account"):
		return ReasonSales
	case containsAny(t, "manager", "director"):
		return ReasonLeadership
	case loc != "" && !containsAny(loc, "san francisco", "remote"):
		return ReasonRegion
	case containsAny(t, "finance", "legal"):
		return ReasonCorporate
	default:
		return ReasonUnknown
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
