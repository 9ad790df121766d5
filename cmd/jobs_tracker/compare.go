package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ai-jobs-tracker/internal/analysis"
)

var compareA, compareB string

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the latest datasets of two companies",
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareA, "a", "", "First company (required)")
	compareCmd.Flags().StringVar(&compareB, "b", "", "Second company (required)")
	_ = compareCmd.MarkFlagRequired("a")
	_ = compareCmd.MarkFlagRequired("b")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	src := a.source()
	dsA, err := src.LoadDataset(ctx, compareA)
	if err != nil {
		return fmt.Errorf("failed to load dataset for %s: %w", compareA, err)
	}
	dsB, err := src.LoadDataset(ctx, compareB)
	if err != nil {
		return fmt.Errorf("failed to load dataset for %s: %w", compareB, err)
	}

	cmp := analysis.Compare(dsA, dsB)
	a.printer.PrintComparison(&cmp)
	return nil
}
