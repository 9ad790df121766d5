package parsing

import (
	"strings"

	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

// TitleEstimateRaw is the Raw value of salaries produced by EstimateSalaryFromTitle.
const TitleEstimateRaw = "estimated from title"

type titleBand struct {
	keywords []string
	min, max int
}

// Ordered from most to least specific; the first band whose keyword appears wins.
var titleBands = []titleBand{
	{[]string{"principal", "distinguished"}, 350, 550},
	{[]string{"staff"}, 300, 450},
	{[]string{"director", "head of"}, 300, 480},
	{[]string{"research scientist", "research engineer"}, 280, 440},
	{[]string{"manager"}, 220, 340},
	{[]string{"senior", "sr."}, 220, 320},
	{[]string{"engineer", "scientist"}, 180, 280},
	{[]string{"account executive", "sales", "account"}, 150, 250},
	{[]string{"designer", "design"}, 160, 250},
	{[]string{"recruit", "people", "operations", "finance", "legal"}, 140, 220},
}

// EstimateSalaryFromTitle guesses a band from seniority and role words in the title.
//
// This is the simplified analyzer's strategy. It is lower fidelity than ExtractSalary and
// is only used when job pages are not fetched; its result is marked Estimated.
func EstimateSalaryFromTitle(title string) *types.Salary {
	t := strings.ToLower(title)
	if strings.TrimSpace(t) == "" {
		return nil
	}
	for _, band := range titleBands {
		for _, kw := range band.keywords {
			if strings.Contains(t, kw) {
				return &types.Salary{
					Raw:       TitleEstimateRaw,
					Min:       band.min,
					Max:       band.max,
					Estimated: true,
				}
			}
		}
	}
	return nil
}
