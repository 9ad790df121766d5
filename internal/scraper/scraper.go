// Package scraper drives a company scrape: listing page, job pages, record building,
// aggregation and persistence.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/ai-jobs-tracker/internal/analysis"
	"github.com/jonathan/ai-jobs-tracker/internal/crawling"
	"github.com/jonathan/ai-jobs-tracker/internal/events"
	"github.com/jonathan/ai-jobs-tracker/internal/fetch"
	"github.com/jonathan/ai-jobs-tracker/internal/ingestion"
	"github.com/jonathan/ai-jobs-tracker/internal/records"
	"github.com/jonathan/ai-jobs-tracker/internal/rules"
	"github.com/jonathan/ai-jobs-tracker/internal/storage"
	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

// DefaultWorkers bounds concurrent job page fetches.
const DefaultWorkers = 4

// Company describes one career site to scrape.
type Company struct {
	Name       string
	CareersURL string
	PapersURL  string
	PathHints  []string // overrides the hosting platform's link hints
}

// ProgressEvent represents a progress update during a run.
type ProgressEvent struct {
	Company string `json:"company"`
	Step    string `json:"step"`
	Message string `json:"message"`
	Done    int    `json:"done,omitempty"`
	Total   int    `json:"total,omitempty"`
}

// ProgressCallback is called when run progress occurs. It may be called from several
// goroutines at once.
type ProgressCallback func(event ProgressEvent)

// Options configures a Scraper. Zero values fall back to defaults; nil collaborators are
// skipped.
type Options struct {
	Workers    int
	Mode       Mode
	Rules      *rules.Set
	Sink       storage.Sink
	Captures   storage.CaptureStore
	Publisher  events.Publisher
	Logger     *zap.Logger
	OnProgress ProgressCallback
	Now        func() time.Time
}

// Scraper runs company scrapes. It is safe for concurrent use by several runs.
type Scraper struct {
	fetcher fetch.Fetcher
	opts    Options
	logger  *zap.Logger
}

// New returns a scraper fetching through f.
func New(f fetch.Fetcher, opts Options) *Scraper {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Mode == "" {
		opts.Mode = ModeContent
	}
	if opts.Rules == nil {
		opts.Rules = rules.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Publisher == nil {
		opts.Publisher = events.NopPublisher{}
	}
	return &Scraper{fetcher: f, opts: opts, logger: opts.Logger}
}

// Mode returns the configured scrape mode.
func (s *Scraper) Mode() Mode {
	return s.opts.Mode
}

// Run scrapes one company and returns its dataset.
//
// Only a failure to fetch or parse the listing page aborts the run (*RunError). Job pages
// that fail are recorded in Dataset.Skipped and the run continues. When a sink is
// configured the dataset is written before Run returns; a sink failure is returned
// together with the dataset.
func (s *Scraper) Run(ctx context.Context, c Company) (*types.CompanyDataset, error) {
	log := s.logger.With(zap.String("company", c.Name), zap.String("mode", string(s.opts.Mode)))
	start := s.opts.Now()

	s.progress(ProgressEvent{Company: c.Name, Step: "listing", Message: "fetching listing page"})
	listing, err := s.fetcher.Fetch(ctx, c.CareersURL)
	if err != nil {
		return nil, &RunError{Company: c.Name, URL: c.CareersURL, Message: "failed to fetch listing page", Cause: err}
	}

	hints := c.PathHints
	if len(hints) == 0 {
		hints = fetch.PlatformJobPathHints(fetch.DetectPlatform(c.CareersURL))
	}
	raws, err := crawling.DiscoverJobLinks(listing.HTML, c.CareersURL, crawling.LinkOptions{PathHints: hints})
	if err != nil {
		return nil, &RunError{Company: c.Name, URL: c.CareersURL, Message: "failed to discover job links", Cause: err}
	}
	log.Info("discovered job links", zap.Int("links", len(raws)))

	var skipped []types.SkipRecord
	if s.opts.Mode == ModeContent {
		raws, skipped, err = s.fetchPages(ctx, c.Name, raws)
		if err != nil {
			return nil, err
		}
	}

	ds := BuildDataset(c.Name, raws, s.opts.Rules, s.opts.Mode, s.opts.Now())
	ds.Skipped = skipped

	if c.PapersURL != "" {
		papers, err := s.ScrapePapers(ctx, c)
		if err != nil {
			log.Warn("paper discovery failed", zap.String("url", c.PapersURL), zap.Error(err))
		} else {
			ds.Papers = papers
		}
	}

	log.Info("scrape finished",
		zap.Int("jobs", ds.Summary.TotalJobs),
		zap.Int("with_salary", ds.Summary.JobsWithSalary),
		zap.Int("skipped", len(ds.Skipped)),
		zap.Int("papers", len(ds.Papers)),
		zap.Duration("elapsed", s.opts.Now().Sub(start)),
	)

	if err := s.persist(ctx, ds, raws); err != nil {
		return ds, err
	}
	return ds, nil
}

// fetchPages fetches every job page with a bounded worker pool. Results are written by
// index so the kept captures stay in discovery order. Failed pages become skip records.
func (s *Scraper) fetchPages(ctx context.Context, company string, raws []types.RawJob) ([]types.RawJob, []types.SkipRecord, error) {
	fetched := make([]types.RawJob, len(raws))
	failures := make([]error, len(raws))
	total := len(raws)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for i := range raws {
		g.Go(func() error {
			raw := raws[i]
			res, err := s.fetcher.Fetch(gctx, raw.URL)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				failures[i] = err
				s.logger.Warn("skipping job page",
					zap.String("company", company),
					zap.String("url", raw.URL),
					zap.Error(err),
				)
				return nil
			}
			raw.PageText = res.Text
			raw.PageHTML = res.HTML
			raw.ContentHash = ingestion.ContentHash(res.Text)
			fetched[i] = raw
			s.progress(ProgressEvent{Company: company, Step: "job", Message: raw.Title, Done: i + 1, Total: total})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("job page fetch aborted: %w", err)
	}

	kept := make([]types.RawJob, 0, len(raws))
	skipped := make([]types.SkipRecord, 0)
	for i, raw := range raws {
		if failures[i] != nil {
			skipped = append(skipped, types.SkipRecord{URL: raw.URL, Title: raw.Title, Error: skipReason(failures[i])})
			continue
		}
		kept = append(kept, fetched[i])
	}
	return kept, skipped, nil
}

func skipReason(err error) string {
	var fe *fetch.Error
	if errors.As(err, &fe) && fe.StatusCode != 0 {
		return fmt.Sprintf("HTTP status %d", fe.StatusCode)
	}
	return err.Error()
}

// persist saves captures, writes the dataset and announces it. Capture and publish
// failures are logged; the sink failure is returned.
func (s *Scraper) persist(ctx context.Context, ds *types.CompanyDataset, raws []types.RawJob) error {
	if s.opts.Captures != nil {
		if err := s.opts.Captures.SaveCaptures(ctx, ds.Company, raws); err != nil {
			s.logger.Warn("failed to save captures", zap.String("company", ds.Company), zap.Error(err))
		}
	}

	if s.opts.Sink == nil {
		return nil
	}
	if err := s.opts.Sink.WriteDataset(ctx, ds); err != nil {
		return fmt.Errorf("failed to write dataset for %s: %w", ds.Company, err)
	}

	if err := s.opts.Publisher.PublishDatasetWritten(ctx, ds); err != nil {
		s.logger.Warn("failed to publish dataset event", zap.String("company", ds.Company), zap.Error(err))
	}
	return nil
}

// ScrapePapers fetches the company's publications page and lists its papers.
func (s *Scraper) ScrapePapers(ctx context.Context, c Company) ([]types.Paper, error) {
	if c.PapersURL == "" {
		return []types.Paper{}, nil
	}
	s.progress(ProgressEvent{Company: c.Name, Step: "papers", Message: "fetching publications page"})

	res, err := s.fetcher.Fetch(ctx, c.PapersURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch papers page: %w", err)
	}
	papers, err := crawling.DiscoverPapers(res.HTML, c.PapersURL)
	if err != nil {
		return nil, err
	}
	for i := range papers {
		papers[i].Company = c.Name
	}
	return papers, nil
}

// Analyze rebuilds a company's dataset from its stored captures with the scraper's rule
// set, without any network access. The result is written to the sink when one is set.
func (s *Scraper) Analyze(ctx context.Context, company string) (*types.CompanyDataset, error) {
	if s.opts.Captures == nil {
		return nil, errors.New("no capture store configured")
	}
	raws, err := s.opts.Captures.LoadCaptures(ctx, company)
	if err != nil {
		return nil, fmt.Errorf("failed to load captures for %s: %w", company, err)
	}

	ds := BuildDataset(company, raws, s.opts.Rules, s.opts.Mode, s.opts.Now())
	if s.opts.Sink != nil {
		if err := s.opts.Sink.WriteDataset(ctx, ds); err != nil {
			return ds, fmt.Errorf("failed to write dataset for %s: %w", company, err)
		}
		if err := s.opts.Publisher.PublishDatasetWritten(ctx, ds); err != nil {
			s.logger.Warn("failed to publish dataset event", zap.String("company", company), zap.Error(err))
		}
	}
	return ds, nil
}

func (s *Scraper) progress(ev ProgressEvent) {
	if s.opts.OnProgress != nil {
		s.opts.OnProgress(ev)
	}
}

// BuildDataset applies set to the captures and aggregates the result. It performs no I/O.
func BuildDataset(company string, raws []types.RawJob, set *rules.Set, mode Mode, now time.Time) *types.CompanyDataset {
	if set == nil {
		set = rules.Default()
	}
	builder := records.NewBuilder(set)
	if mode == ModeTitle {
		builder = records.NewTitleBuilder(set)
	}

	jobs := builder.BuildAll(company, raws)
	return &types.CompanyDataset{
		ID:           uuid.New(),
		Company:      company,
		RulesVersion: builder.Rules().Version,
		Mode:         string(mode),
		ScrapedAt:    now.UTC(),
		Jobs:         jobs,
		Summary:      analysis.Summarize(jobs, set.TopN),
	}
}
