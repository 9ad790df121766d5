package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/ai-jobs-tracker/internal/config"
	"github.com/jonathan/ai-jobs-tracker/internal/events"
	"github.com/jonathan/ai-jobs-tracker/internal/scraper"
	"github.com/jonathan/ai-jobs-tracker/internal/scrapestatus"
	"github.com/jonathan/ai-jobs-tracker/internal/server"
	"github.com/jonathan/ai-jobs-tracker/internal/server/ratelimit"
	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

const sweepInterval = time.Minute

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing the stored datasets, cross-company queries and
background scrape triggering. Accounts and bookmarks require DATABASE_URL and JWT_SECRET.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", config.GetEnvInt("PORT", 8080), "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

// modeRunner scrapes each company with or without the browser fallback, as configured.
type modeRunner struct {
	plain   *scraper.Scraper
	browser *scraper.Scraper
	app     *app
}

func (r *modeRunner) Run(ctx context.Context, c scraper.Company) (*types.CompanyDataset, error) {
	if _, browser, err := r.app.company(c.Name); err == nil && browser {
		return r.browser.Run(ctx, c)
	}
	return r.plain.Run(ctx, c)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	mode, err := scraper.ParseMode(a.cfg.Scraper.Mode)
	if err != nil {
		return err
	}

	tracker, closeTracker, err := newTracker(ctx, a)
	if err != nil {
		return err
	}
	defer closeTracker()

	deps := server.Deps{
		Datasets: a.source(),
		Scraper: &modeRunner{
			plain:   a.scraper(mode, false, nil),
			browser: a.scraper(mode, true, nil),
			app:     a,
		},
		Companies: func(name string) (scraper.Company, bool) {
			co, ok := a.cfg.Company(name)
			return toScraperCompany(co), ok
		},
		Tracker: tracker,
		Logger:  a.logger,
	}
	switch {
	case a.db != nil:
		deps.Skills = a.db
	case a.sqlite != nil:
		deps.Skills = a.sqlite
	}

	if a.db != nil {
		if os.Getenv("JWT_SECRET") == "" {
			a.logger.Warn("JWT_SECRET not set; account and bookmark routes are disabled")
		} else {
			jwtCfg, err := config.NewJWTConfig()
			if err != nil {
				return err
			}
			passwordCfg, err := config.NewPasswordConfig()
			if err != nil {
				return err
			}
			deps.Users = a.db
			deps.Bookmarks = a.db
			deps.JWT = jwtCfg
			deps.Password = passwordCfg
		}
	}

	if a.cfg.NATSURL != "" {
		unsubscribe, err := events.Subscribe(a.cfg.NATSURL, a.logger, func(ev events.DatasetWritten) {
			a.logger.Info("dataset written",
				zap.String("company", ev.Company),
				zap.String("dataset_id", ev.DatasetID.String()),
				zap.Int("jobs", ev.TotalJobs),
			)
		})
		if err != nil {
			a.logger.Warn("failed to subscribe to dataset events", zap.Error(err))
		} else {
			defer unsubscribe()
		}
	}

	srv, err := server.New(server.Config{Port: servePort, RateLimit: ratelimit.LoadConfig()}, deps)
	if err != nil {
		return err
	}
	return srv.Start(ctx)
}

// newTracker uses Redis when REDIS_ADDR is configured and an in-process tracker otherwise.
func newTracker(ctx context.Context, a *app) (scrapestatus.Tracker, func(), error) {
	if a.cfg.RedisAddr != "" {
		rt, err := scrapestatus.NewRedisTracker(ctx, scrapestatus.RedisOptions{
			Addr:     a.cfg.RedisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       config.GetEnvInt("REDIS_DB", 0),
			TTL:      a.cfg.StatusTTL,
		})
		if err != nil {
			return nil, nil, err
		}
		return rt, func() {
			if err := rt.Close(); err != nil {
				a.logger.Warn("failed to close redis", zap.Error(err))
			}
		}, nil
	}

	mt := scrapestatus.NewMemoryTracker(a.cfg.StatusTTL)
	go mt.RunSweeper(ctx, sweepInterval)
	return mt, func() {}, nil
}
