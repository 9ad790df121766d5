package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ai-jobs-tracker/internal/observability"
	"github.com/jonathan/ai-jobs-tracker/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the active rule-set version and changelog",
	RunE:  runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	set, err := rules.Load(cfg.RulesPath)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintRules(set)
	return nil
}
