package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ai-jobs-tracker/internal/analysis"
	"github.com/jonathan/ai-jobs-tracker/internal/skills"
)

var skillsCompany, skillsSkill string

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List the jobs of a company that require a skill",
	RunE:  runSkills,
}

func init() {
	skillsCmd.Flags().StringVar(&skillsCompany, "company", "", "Company (required)")
	skillsCmd.Flags().StringVar(&skillsSkill, "skill", "", "Skill label or alias, e.g. Python or golang (required)")
	_ = skillsCmd.MarkFlagRequired("company")
	_ = skillsCmd.MarkFlagRequired("skill")
	rootCmd.AddCommand(skillsCmd)
}

func runSkills(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	skill := skills.NormalizeSkillName(skillsSkill)
	if skill == "" {
		return fmt.Errorf("unknown skill %q", skillsSkill)
	}

	ds, err := a.source().LoadDataset(ctx, skillsCompany)
	if err != nil {
		return fmt.Errorf("failed to load dataset for %s: %w", skillsCompany, err)
	}

	jobs := analysis.JobsWithSkill(ds.Jobs, skill)
	a.printer.PrintJobs(fmt.Sprintf("%s jobs requiring %s", ds.Company, skill), jobs)
	return nil
}
