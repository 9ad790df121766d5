package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/ai-jobs-tracker/internal/storage"
	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

var jobColumns = []string{
	"dataset_id", "position", "title", "url", "company", "location", "department",
	"salary_raw", "salary_min", "salary_max", "salary_estimated", "skills", "description", "rules_version",
}

// WriteDataset stores a dataset and its jobs in one transaction. It implements storage.Sink.
func (db *DB) WriteDataset(ctx context.Context, ds *types.CompanyDataset) error {
	summary, err := json.Marshal(ds.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	skipped, err := json.Marshal(nonNil(ds.Skipped))
	if err != nil {
		return fmt.Errorf("failed to marshal skipped jobs: %w", err)
	}
	papers, err := json.Marshal(nonNil(ds.Papers))
	if err != nil {
		return fmt.Errorf("failed to marshal papers: %w", err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO datasets (id, company, company_key, rules_version, mode, scraped_at, summary, skipped, papers)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		ds.ID, ds.Company, storage.CompanyKey(ds.Company), ds.RulesVersion, ds.Mode, ds.ScrapedAt,
		summary, skipped, papers,
	)
	if err != nil {
		return fmt.Errorf("failed to insert dataset: %w", err)
	}

	rows := make([][]any, 0, len(ds.Jobs))
	for i, j := range ds.Jobs {
		var raw *string
		var minK, maxK *int
		estimated := false
		if j.Salary != nil {
			raw, minK, maxK = &j.Salary.Raw, &j.Salary.Min, &j.Salary.Max
			estimated = j.Salary.Estimated
		}
		rows = append(rows, []any{
			ds.ID, i, j.Title, j.URL, j.Company, j.Location, j.Department,
			raw, minK, maxK, estimated, nonNil(j.Skills), j.Description, j.RulesVersion,
		})
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"jobs"}, jobColumns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("failed to insert jobs: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit dataset: %w", err)
	}
	return nil
}

// LoadDataset returns the most recent dataset for company, or storage.ErrNotFound.
func (db *DB) LoadDataset(ctx context.Context, company string) (*types.CompanyDataset, error) {
	var ds types.CompanyDataset
	var summary, skipped, papers []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, company, rules_version, mode, scraped_at, summary, skipped, papers
		 FROM datasets WHERE company_key = $1
		 ORDER BY scraped_at DESC, created_at DESC LIMIT 1`,
		storage.CompanyKey(company),
	).Scan(&ds.ID, &ds.Company, &ds.RulesVersion, &ds.Mode, &ds.ScrapedAt, &summary, &skipped, &papers)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("dataset for %s: %w", company, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	if err := json.Unmarshal(summary, &ds.Summary); err != nil {
		return nil, fmt.Errorf("failed to decode summary: %w", err)
	}
	if err := json.Unmarshal(skipped, &ds.Skipped); err != nil {
		return nil, fmt.Errorf("failed to decode skipped jobs: %w", err)
	}
	if err := json.Unmarshal(papers, &ds.Papers); err != nil {
		return nil, fmt.Errorf("failed to decode papers: %w", err)
	}

	ds.Jobs, err = db.queryJobs(ctx,
		`SELECT `+selectJobColumns+` FROM jobs WHERE dataset_id = $1 ORDER BY position`, ds.ID)
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

// ListCompanies returns the companies with at least one dataset, by name.
func (db *DB) ListCompanies(ctx context.Context) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT DISTINCT ON (company_key) company FROM datasets ORDER BY company_key, scraped_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// JobsWithSkill returns the jobs listing skill from the latest dataset of every company.
func (db *DB) JobsWithSkill(ctx context.Context, skill string) ([]types.JobPosting, error) {
	return db.queryJobs(ctx,
		`WITH latest AS (
		     SELECT DISTINCT ON (company_key) id FROM datasets ORDER BY company_key, scraped_at DESC
		 )
		 SELECT `+selectJobColumns+` FROM jobs
		 WHERE dataset_id IN (SELECT id FROM latest) AND $1 = ANY(skills)
		 ORDER BY company, position`,
		skill,
	)
}

const selectJobColumns = `title, url, company, location, department, salary_raw, salary_min, salary_max,
	salary_estimated, skills, description, rules_version`

func (db *DB) queryJobs(ctx context.Context, query string, args ...any) ([]types.JobPosting, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]types.JobPosting, 0)
	for rows.Next() {
		var j types.JobPosting
		var raw *string
		var minK, maxK *int
		var estimated bool
		if err := rows.Scan(&j.Title, &j.URL, &j.Company, &j.Location, &j.Department,
			&raw, &minK, &maxK, &estimated, &j.Skills, &j.Description, &j.RulesVersion); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		if minK != nil && maxK != nil {
			j.Salary = &types.Salary{Min: *minK, Max: *maxK, Estimated: estimated}
			if raw != nil {
				j.Salary.Raw = *raw
			}
		}
		if j.Skills == nil {
			j.Skills = []string{}
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
