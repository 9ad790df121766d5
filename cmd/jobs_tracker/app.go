package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/ai-jobs-tracker/internal/config"
	"github.com/jonathan/ai-jobs-tracker/internal/db"
	"github.com/jonathan/ai-jobs-tracker/internal/events"
	"github.com/jonathan/ai-jobs-tracker/internal/fetch"
	"github.com/jonathan/ai-jobs-tracker/internal/logging"
	"github.com/jonathan/ai-jobs-tracker/internal/observability"
	"github.com/jonathan/ai-jobs-tracker/internal/rules"
	"github.com/jonathan/ai-jobs-tracker/internal/scraper"
	"github.com/jonathan/ai-jobs-tracker/internal/storage"
)

const natsTimeout = 5 * time.Second

// app holds the collaborators shared by the commands. Optional backends are nil when
// their connection setting is empty.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	rules     *rules.Set
	printer   *observability.Printer
	json      *storage.JSONStore
	sqlite    *storage.SQLiteStore
	db        *db.DB
	publisher events.Publisher
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newApp loads the configuration and opens every configured backend.
func newApp(ctx context.Context, out io.Writer) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logLevel, devLogs)
	if err != nil {
		return nil, err
	}

	set, err := rules.Load(cfg.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		rules:     set,
		printer:   observability.NewPrinter(out),
		publisher: events.NopPublisher{},
	}

	a.json, err = storage.NewJSONStore(cfg.Storage.DataDir, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Storage.SQLitePath != "" {
		a.sqlite, err = storage.OpenSQLite(ctx, cfg.Storage.SQLitePath, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	if cfg.DatabaseURL != "" {
		a.db, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := a.db.Migrate(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	if cfg.NATSURL != "" {
		pub, err := events.NewNATSPublisher(cfg.NATSURL, natsTimeout, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.publisher = pub
	}

	return a, nil
}

// Close releases every opened backend.
func (a *app) Close() {
	if a.publisher != nil {
		a.publisher.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.sqlite != nil {
		if err := a.sqlite.Close(); err != nil {
			a.logger.Warn("failed to close sqlite", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// sink writes datasets to every configured store.
func (a *app) sink() storage.Sink {
	sinks := []storage.Sink{a.json}
	if a.sqlite != nil {
		sinks = append(sinks, a.sqlite)
	}
	if a.db != nil {
		sinks = append(sinks, a.db)
	}
	return storage.NewMultiSink(a.logger, sinks...)
}

// source reads datasets from the most capable configured store.
func (a *app) source() storage.Source {
	switch {
	case a.db != nil:
		return a.db
	case a.sqlite != nil:
		return a.sqlite
	default:
		return a.json
	}
}

func (a *app) captures() storage.CaptureStore {
	if a.sqlite != nil {
		return a.sqlite
	}
	return a.json
}

// fetcher builds the HTTP fetcher, with the Chrome fallback when browser is set.
func (a *app) fetcher(browser bool) fetch.Fetcher {
	sc := a.cfg.Scraper
	opts := fetch.DefaultOptions()
	if sc.Timeout > 0 {
		opts.Timeout = sc.Timeout
	}
	if sc.UserAgent != "" {
		opts.UserAgent = sc.UserAgent
	}

	options := []fetch.HTTPFetcherOption{
		fetch.WithLimiter(fetch.NewHostLimiter(sc.HostRate, sc.HostBurst)),
		fetch.WithLogger(a.logger),
	}
	if browser {
		options = append(options, fetch.WithRenderer(fetch.NewChromeRenderer(a.logger)))
	}
	return fetch.NewHTTPFetcher(opts, options...)
}

// scraper builds a scraper writing to every configured sink.
func (a *app) scraper(mode scraper.Mode, browser bool, progress scraper.ProgressCallback) *scraper.Scraper {
	return scraper.New(a.fetcher(browser), scraper.Options{
		Workers:    a.cfg.Scraper.Workers,
		Mode:       mode,
		Rules:      a.rules,
		Sink:       a.sink(),
		Captures:   a.captures(),
		Publisher:  a.publisher,
		Logger:     a.logger,
		OnProgress: progress,
	})
}

func (a *app) company(name string) (scraper.Company, bool, error) {
	co, ok := a.cfg.Company(name)
	if !ok {
		return scraper.Company{}, false, fmt.Errorf("company %q is not configured (known: %v)", name, a.cfg.CompanyNames())
	}
	return toScraperCompany(co), co.UseBrowser || a.cfg.Scraper.UseBrowser, nil
}

func toScraperCompany(co config.CompanyConfig) scraper.Company {
	return scraper.Company{
		Name:       co.Name,
		CareersURL: co.CareersURL,
		PapersURL:  co.PapersURL,
		PathHints:  co.PathHints,
	}
}

// errSinkFailed marks a scrape whose dataset was built but not fully persisted.
var errSinkFailed = errors.New("dataset was not fully persisted")
