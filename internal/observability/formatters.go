// Package observability provides formatted terminal output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/ai-jobs-tracker/internal/rules"
	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer writes human-readable reports.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads s to width runes.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		r := []rune(s)
		return string(r[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-n)
}

func salaryText(s *types.Salary) string {
	if s == nil {
		return "n/a"
	}
	text := fmt.Sprintf("$%dK-$%dK", s.Min, s.Max)
	if s.Estimated {
		text += " (est.)"
	}
	return text
}

// PrintSummary outputs the aggregate view of a dataset.
func (p *Printer) PrintSummary(ds *types.CompanyDataset) {
	if ds == nil {
		return
	}
	s := ds.Summary

	var sb strings.Builder
	fmt.Fprintf(&sb, "Scraped:   %s\n", ds.ScrapedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&sb, "Rules:     %s\n", ds.RulesVersion)
	fmt.Fprintf(&sb, "Jobs:      %d (%d with salary, %.1f%%)\n", s.TotalJobs, s.JobsWithSalary, s.SuccessRate)
	if len(ds.Skipped) > 0 {
		fmt.Fprintf(&sb, "Skipped:   %d\n", len(ds.Skipped))
	}
	if len(ds.Papers) > 0 {
		fmt.Fprintf(&sb, "Papers:    %d\n", len(ds.Papers))
	}

	if len(s.MostCommonSkills) > 0 {
		sb.WriteString("\nTop skills:\n")
		for _, st := range s.MostCommonSkills[:min(len(s.MostCommonSkills), maxItemsToShow)] {
			fmt.Fprintf(&sb, "  • %-24s %d\n", st.Skill, st.Count)
		}
	}

	if len(s.HighestPayingJobs) > 0 {
		sb.WriteString("\nHighest paying:\n")
		for _, j := range s.HighestPayingJobs[:min(len(s.HighestPayingJobs), maxItemsToShow)] {
			fmt.Fprintf(&sb, "  • %s  %s\n", salaryText(j.Salary), j.Title)
		}
	}

	if len(s.Categories) > 0 {
		sb.WriteString("\nDepartments:\n")
		for _, c := range s.Categories {
			fmt.Fprintf(&sb, "  • %-14s %3d jobs, %3.0f%% with salary\n", c.Name, c.Total, c.SalaryRatio*100)
		}
	}

	p.printBox(fmt.Sprintf("%s job market summary", ds.Company), sb.String())
}

// PrintComparison outputs a cross-company comparison.
func (p *Printer) PrintComparison(c *types.Comparison) {
	if c == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-20s %10s %10s\n", "", c.CompanyA, c.CompanyB)
	fmt.Fprintf(&sb, "%-20s %10d %10d\n", "Jobs", c.TotalJobsA, c.TotalJobsB)
	fmt.Fprintf(&sb, "%-20s %10.0f %10.0f\n", "Avg salary ($K)", c.AvgSalaryA, c.AvgSalaryB)
	fmt.Fprintf(&sb, "%-20s %9.0f%% %9.0f%%\n", "Salary coverage", c.SalaryCoverageA*100, c.SalaryCoverageB*100)
	fmt.Fprintf(&sb, "Higher paying: %s\n", c.HigherPaying)

	fmt.Fprintf(&sb, "\nCommon skills (%d): %s\n", len(c.CommonSkills), listOrNone(c.CommonSkills))
	fmt.Fprintf(&sb, "Only %s: %s\n", c.CompanyA, listOrNone(c.UniqueToA))
	fmt.Fprintf(&sb, "Only %s: %s\n", c.CompanyB, listOrNone(c.UniqueToB))

	if len(c.SimilarRoles) > 0 {
		sb.WriteString("\nSimilar roles:\n")
		for _, r := range c.SimilarRoles {
			fmt.Fprintf(&sb, "  • %-28s %d vs %d\n", r.Role, len(r.JobsA), len(r.JobsB))
		}
	}

	p.printBox(fmt.Sprintf("%s vs %s", c.CompanyA, c.CompanyB), sb.String())
}

// PrintJobs outputs a list of postings under title.
func (p *Printer) PrintJobs(title string, jobs []types.JobPosting) {
	var sb strings.Builder
	if len(jobs) == 0 {
		sb.WriteString("No matching jobs.")
	}
	for _, j := range jobs {
		fmt.Fprintf(&sb, "%s\n", j.Title)
		fmt.Fprintf(&sb, "  %s · %s · %s\n", j.Location, j.Department, salaryText(j.Salary))
		if len(j.Skills) > 0 {
			fmt.Fprintf(&sb, "  %s\n", strings.Join(j.Skills, ", "))
		}
	}
	p.printBox(fmt.Sprintf("%s (%d)", title, len(jobs)), sb.String())
}

// PrintRules outputs the rule-set version and its changelog.
func (p *Printer) PrintRules(set *rules.Set) {
	if set == nil {
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Version:   %s\n", set.Version)
	fmt.Fprintf(&sb, "Strategy:  %s\n", set.Strategy)
	fmt.Fprintf(&sb, "Top N:     %d\n", set.TopN)
	fmt.Fprintf(&sb, "Locations: %d (default %s)\n", len(set.Locations), set.DefaultLocation)
	fmt.Fprintf(&sb, "Rules:     %d content, %d title\n", len(set.Content), len(set.Title))
	sb.WriteString("\nChangelog:\n")
	for _, ch := range set.Changelog {
		fmt.Fprintf(&sb, "  %s  %s\n", ch.Version, ch.Summary)
	}
	p.printBox("Extraction rules", sb.String())
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
