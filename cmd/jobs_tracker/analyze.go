package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ai-jobs-tracker/internal/scraper"
)

var (
	analyzeCompany string
	analyzeMode    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rebuild a dataset from stored captures with the current rules",
	Long: `Re-apply the current rule set to the raw captures of the last scrape of a company
without fetching anything, then store and print the rebuilt dataset.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeCompany, "company", "", "Company to analyze (required)")
	analyzeCmd.Flags().StringVar(&analyzeMode, "mode", "", "Skill mode: content or title (default from config)")
	_ = analyzeCmd.MarkFlagRequired("company")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	modeName := analyzeMode
	if modeName == "" {
		modeName = a.cfg.Scraper.Mode
	}
	mode, err := scraper.ParseMode(modeName)
	if err != nil {
		return err
	}

	ds, err := a.scraper(mode, false, nil).Analyze(cmd.Context(), analyzeCompany)
	if ds != nil {
		a.printer.PrintSummary(ds)
	}
	if err != nil {
		return fmt.Errorf("failed to analyze %s: %w", analyzeCompany, err)
	}
	return nil
}
