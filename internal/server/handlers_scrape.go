package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/ai-jobs-tracker/internal/scrapestatus"
	"github.com/jonathan/ai-jobs-tracker/internal/storage"
)

const clearTimeout = 5 * time.Second

func (s *Server) scrapingEnabled(w http.ResponseWriter) bool {
	if s.deps.Tracker == nil || s.deps.Scraper == nil || s.deps.Companies == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "scraping is not configured")
		return false
	}
	return true
}

// handleStartScrape starts a background scrape of a configured company. A second start
// while the first is active answers 409.
func (s *Server) handleStartScrape(w http.ResponseWriter, r *http.Request) {
	if !s.scrapingEnabled(w) {
		return
	}
	name := r.PathValue("company")
	company, ok := s.deps.Companies(name)
	if !ok {
		s.errResponse(w, &ErrUnknownCompany{Company: name})
		return
	}

	key := storage.CompanyKey(company.Name)
	if err := s.deps.Tracker.Start(r.Context(), key); err != nil {
		if errors.Is(err, scrapestatus.ErrAlreadyActive) {
			s.errorResponse(w, http.StatusConflict, "scrape already running for "+company.Name)
			return
		}
		s.errResponse(w, err)
		return
	}

	s.scrapes.Add(1)
	go func() {
		defer s.scrapes.Done()
		logger := s.logger.With(zap.String("company", company.Name))

		ds, err := s.deps.Scraper.Run(s.scrapeCtx, company)
		switch {
		case err != nil:
			logger.Error("background scrape failed", zap.Error(err))
		case ds != nil:
			logger.Info("background scrape finished",
				zap.Int("jobs", len(ds.Jobs)),
				zap.Int("skipped", len(ds.Skipped)),
			)
		}

		ctx, cancel := context.WithTimeout(context.Background(), clearTimeout)
		defer cancel()
		if err := s.deps.Tracker.Clear(ctx, key); err != nil {
			logger.Warn("failed to clear scrape status", zap.Error(err))
		}
	}()

	s.jsonResponse(w, http.StatusAccepted, map[string]string{
		"company": company.Name,
		"status":  string(scrapestatus.Active),
	})
}

// handleScrapeStatus reports whether a company is being scraped.
func (s *Server) handleScrapeStatus(w http.ResponseWriter, r *http.Request) {
	if s.deps.Tracker == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "scraping is not configured")
		return
	}
	company := r.PathValue("company")
	status, err := s.deps.Tracker.Status(r.Context(), storage.CompanyKey(company))
	if err != nil {
		s.errResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"company": company,
		"status":  string(status),
	})
}

// handleClearScrapeStatus forgets the scrape status of a company, e.g. after a crash
// left it timed out.
func (s *Server) handleClearScrapeStatus(w http.ResponseWriter, r *http.Request) {
	if s.deps.Tracker == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "scraping is not configured")
		return
	}
	company := r.PathValue("company")
	if err := s.deps.Tracker.Clear(r.Context(), storage.CompanyKey(company)); err != nil {
		s.errResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"company": company,
		"status":  string(scrapestatus.Inactive),
	})
}
