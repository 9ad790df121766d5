package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jonathan/ai-jobs-tracker/internal/analysis"
	"github.com/jonathan/ai-jobs-tracker/internal/skills"
	"github.com/jonathan/ai-jobs-tracker/internal/storage"
	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

const (
	defaultJobsLimit = 50
	maxJobsLimit     = 500
)

// handleListCompanies lists the companies that have a stored dataset.
func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.deps.Datasets.ListCompanies(r.Context())
	if err != nil {
		s.errResponse(w, err)
		return
	}
	if companies == nil {
		companies = []string{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"companies": companies,
		"total":     len(companies),
	})
}

func (s *Server) loadDataset(ctx context.Context, company string) (*types.CompanyDataset, error) {
	ds, err := s.deps.Datasets.LoadDataset(ctx, company)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &ErrUnknownCompany{Company: company}
		}
		return nil, fmt.Errorf("failed to load dataset for %s: %w", company, err)
	}
	return ds, nil
}

// handleGetDataset returns the latest dataset of a company.
func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	ds, err := s.loadDataset(r.Context(), r.PathValue("company"))
	if err != nil {
		s.errResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ds)
}

// handleListJobs returns a filtered page of a company's postings.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := analysis.JobFilter{
		Department: q.Get("department"),
		Location:   q.Get("location"),
		Skill:      normalizeSkillParam(q.Get("skill")),
		Limit:      parseQueryInt(r, "limit", defaultJobsLimit, maxJobsLimit),
		Offset:     parseQueryInt(r, "offset", 0, 0),
	}
	if raw := q.Get("has_salary"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "has_salary must be a boolean")
			return
		}
		filter.HasSalary = &v
	}

	ds, err := s.loadDataset(r.Context(), r.PathValue("company"))
	if err != nil {
		s.errResponse(w, err)
		return
	}

	jobs, total := analysis.FilterJobs(ds.Jobs, filter)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"company": ds.Company,
		"jobs":    jobs,
		"total":   total,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

// handleListPapers returns the research papers stored with a company's dataset.
func (s *Server) handleListPapers(w http.ResponseWriter, r *http.Request) {
	ds, err := s.loadDataset(r.Context(), r.PathValue("company"))
	if err != nil {
		s.errResponse(w, err)
		return
	}
	papers := ds.Papers
	if papers == nil {
		papers = []types.Paper{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"company": ds.Company,
		"papers":  papers,
		"total":   len(papers),
	})
}

// handleJobsBySkill returns postings from every company listing the skill.
func (s *Server) handleJobsBySkill(w http.ResponseWriter, r *http.Request) {
	skill := normalizeSkillParam(r.URL.Query().Get("skill"))
	if skill == "" {
		s.errorResponse(w, http.StatusBadRequest, "skill is required")
		return
	}

	jobs, err := s.jobsWithSkill(r.Context(), skill)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"skill": skill,
		"jobs":  jobs,
		"total": len(jobs),
	})
}

func (s *Server) jobsWithSkill(ctx context.Context, skill string) ([]types.JobPosting, error) {
	if s.deps.Skills != nil {
		jobs, err := s.deps.Skills.JobsWithSkill(ctx, skill)
		if err != nil {
			return nil, fmt.Errorf("failed to query jobs with skill %s: %w", skill, err)
		}
		if jobs == nil {
			jobs = []types.JobPosting{}
		}
		return jobs, nil
	}

	companies, err := s.deps.Datasets.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	out := make([]types.JobPosting, 0)
	for _, c := range companies {
		ds, err := s.deps.Datasets.LoadDataset(ctx, c)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load dataset for %s: %w", c, err)
		}
		out = append(out, analysis.JobsWithSkill(ds.Jobs, skill)...)
	}
	return out, nil
}

// handleCompare compares the latest datasets of two companies.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	a, b := r.URL.Query().Get("a"), r.URL.Query().Get("b")
	if a == "" || b == "" {
		s.errorResponse(w, http.StatusBadRequest, "query parameters a and b are required")
		return
	}

	dsA, err := s.loadDataset(r.Context(), a)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	dsB, err := s.loadDataset(r.Context(), b)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, analysis.Compare(dsA, dsB))
}

// normalizeSkillParam maps aliases such as "golang" to vocabulary labels and passes
// unknown names through unchanged.
func normalizeSkillParam(raw string) string {
	if label := skills.NormalizeSkillName(raw); label != "" {
		return label
	}
	return raw
}
