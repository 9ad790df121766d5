package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/ai-jobs-tracker/internal/scraper"
	"github.com/jonathan/ai-jobs-tracker/internal/storage"
	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

var (
	scrapeCompanies []string
	scrapeMode      string
	scrapeOut       string
	scrapeQuiet     bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape company career sites into datasets",
	Long: `Scrape the careers pages of the configured companies, build a dataset per company,
write it to every configured store and print its summary. Without --company every
configured company is scraped in turn.`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().StringSliceVar(&scrapeCompanies, "company", nil, "Company to scrape (repeatable; default all configured)")
	scrapeCmd.Flags().StringVar(&scrapeMode, "mode", "", "Scrape mode: content or title (default from config)")
	scrapeCmd.Flags().StringVarP(&scrapeOut, "out", "o", "", "Also write each dataset as JSON into this directory")
	scrapeCmd.Flags().BoolVarP(&scrapeQuiet, "quiet", "q", false, "Do not print progress")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	modeName := scrapeMode
	if modeName == "" {
		modeName = a.cfg.Scraper.Mode
	}
	mode, err := scraper.ParseMode(modeName)
	if err != nil {
		return err
	}

	names := scrapeCompanies
	if len(names) == 0 {
		names = a.cfg.CompanyNames()
	}
	if len(names) == 0 {
		return errors.New("no companies configured; add companies to the config file")
	}

	var progress scraper.ProgressCallback
	if !scrapeQuiet {
		stderr := cmd.ErrOrStderr()
		progress = func(ev scraper.ProgressEvent) {
			if ev.Total > 0 {
				fmt.Fprintf(stderr, "[%s] %s: %s (%d/%d)\n", ev.Company, ev.Step, ev.Message, ev.Done, ev.Total)
				return
			}
			fmt.Fprintf(stderr, "[%s] %s: %s\n", ev.Company, ev.Step, ev.Message)
		}
	}

	var failed []string
	for _, name := range names {
		company, browser, err := a.company(name)
		if err != nil {
			return err
		}

		ds, err := a.scraper(mode, browser, progress).Run(ctx, company)
		if ds != nil {
			a.printer.PrintSummary(ds)
			if scrapeOut != "" {
				if werr := writeDatasetFile(scrapeOut, ds); werr != nil {
					return werr
				}
			}
		}
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			if ds != nil {
				err = fmt.Errorf("%w: %w", errSinkFailed, err)
			}
			a.logger.Error("scrape failed", zap.String("company", company.Name), zap.Error(err))
			failed = append(failed, company.Name)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("scrape failed for %d of %d companies: %v", len(failed), len(names), failed)
	}
	return nil
}

func writeDatasetFile(dir string, ds *types.CompanyDataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}
	path := filepath.Join(dir, storage.CompanyKey(ds.Company)+"_jobs.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
