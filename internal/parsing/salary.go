// Package parsing recovers salary ranges from job posting text.
package parsing

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

// Single figures are widened into a range with these factors. The ±20% band is a
// reproduced approximation carried over from the first scraper versions, not a measured
// property of the market.
const (
	singleValueLowFactor  = 0.8
	singleValueHighFactor = 1.2
)

const rangeSep = `\s*[-–—]\s*`

var (
	// $405K - $590K, $405k–$590k, $405K - 590K, $405 - $590K
	kRangePattern = regexp.MustCompile(`\$\s?(\d{1,4}(?:\.\d+)?)\s?([kK]?)` + rangeSep + `\$?\s?(\d{1,4}(?:\.\d+)?)\s?[kK]`)

	// $405,000 - $590,000
	fullRangePattern = regexp.MustCompile(`\$\s?(\d{1,3}(?:,\d{3})+)(?:\.\d{2})?` + rangeSep + `\$?\s?(\d{1,3}(?:,\d{3})+)(?:\.\d{2})?`)

	// USD 405 - 590, USD 405,000 - 590,000, USD $405K - $590K
	usdRangePattern = regexp.MustCompile(`(?i)\bUSD\s?\$?\s?(\d{1,3}(?:,\d{3})+|\d+(?:\.\d+)?)\s?(k?)` + rangeSep + `(?:USD\s?)?\$?\s?(\d{1,3}(?:,\d{3})+|\d+(?:\.\d+)?)\s?(k?)\b`)

	// $250K + Offers Equity, $250K +
	equityPattern = regexp.MustCompile(`\$\s?(\d{1,4}(?:\.\d+)?)\s?[kK]\s*\+(?:\s*(?i:offers\s+equity))?`)

	// $250K
	singlePattern = regexp.MustCompile(`\$\s?(\d{1,4}(?:\.\d+)?)\s?[kK]\b`)

	leadingRangeSep = regexp.MustCompile(`^\s*[-–—]`)
)

// ExtractSalary applies the salary patterns in order and returns the first match as a
// range in thousands of dollars. It returns nil when the text has no salary figure.
func ExtractSalary(text string) *types.Salary {
	if text == "" {
		return nil
	}

	if m := kRangePattern.FindStringSubmatch(text); m != nil {
		return newRange(m[0], toThousands(m[1], m[2] != ""), toThousands(m[3], true))
	}

	if m := fullRangePattern.FindStringSubmatch(text); m != nil {
		return newRange(m[0], toThousands(m[1], false), toThousands(m[2], false))
	}

	if m := usdRangePattern.FindStringSubmatch(text); m != nil {
		return newRange(m[0], toThousands(m[1], m[2] != ""), toThousands(m[3], m[4] != ""))
	}

	if m := equityPattern.FindStringSubmatch(text); m != nil {
		return newSingle(m[0], toThousands(m[1], true))
	}

	for _, loc := range singlePattern.FindAllStringSubmatchIndex(text, -1) {
		if leadingRangeSep.MatchString(text[loc[1]:]) {
			continue
		}
		return newSingle(text[loc[0]:loc[1]], toThousands(text[loc[2]:loc[3]], true))
	}

	return nil
}

// toThousands converts a matched figure to thousands of dollars. K-suffixed figures are
// already in thousands, comma-grouped or large figures are raw dollars, and small bare
// numbers are taken as thousands.
func toThousands(digits string, hasK bool) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(digits, ",", ""), 64)
	if err != nil {
		return 0
	}
	if hasK {
		return v
	}
	if strings.Contains(digits, ",") || v >= 1000 {
		return v / 1000
	}
	return v
}

func newRange(raw string, lo, hi float64) *types.Salary {
	minK, maxK := int(math.Round(lo)), int(math.Round(hi))
	if minK > maxK {
		minK, maxK = maxK, minK
	}
	return &types.Salary{
		Raw: strings.TrimSpace(raw),
		Min: minK,
		Max: maxK,
	}
}

func newSingle(raw string, v float64) *types.Salary {
	return &types.Salary{
		Raw: strings.TrimSpace(raw),
		Min: int(math.Round(v * singleValueLowFactor)),
		Max: int(math.Round(v * singleValueHighFactor)),
	}
}
