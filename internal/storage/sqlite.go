package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

// sortableTime formats UTC timestamps with fixed width so text order is time order.
const sortableTime = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore is a single-file local store for datasets, their jobs and raw captures.
// Every dataset is kept; readers see the most recent one per company.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenSQLite opens (and migrates) the database at path.
func OpenSQLite(ctx context.Context, path string, logger *zap.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite %s: %w", path, err)
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

var sqliteSchemaV1 = []string{`
CREATE TABLE IF NOT EXISTS datasets (
  id TEXT PRIMARY KEY,
  company TEXT NOT NULL,
  rules_version TEXT NOT NULL,
  mode TEXT NOT NULL DEFAULT '',
  scraped_at TEXT NOT NULL,
  payload TEXT NOT NULL
);`, `
CREATE INDEX IF NOT EXISTS idx_datasets_company ON datasets(company, scraped_at);`, `
CREATE TABLE IF NOT EXISTS jobs (
  dataset_id TEXT NOT NULL REFERENCES datasets(id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  company TEXT NOT NULL,
  title TEXT NOT NULL,
  url TEXT NOT NULL,
  location TEXT NOT NULL,
  department TEXT NOT NULL,
  salary_min INTEGER,
  salary_max INTEGER,
  skills TEXT NOT NULL DEFAULT '[]',
  payload TEXT NOT NULL,
  PRIMARY KEY (dataset_id, position)
);`, `
CREATE TABLE IF NOT EXISTS captures (
  company TEXT PRIMARY KEY,
  saved_at TEXT NOT NULL,
  payload TEXT NOT NULL
);`,
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&v); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if v >= 1 {
		return tx.Commit()
	}

	for _, stmt := range sqliteSchemaV1 {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, `PRAGMA user_version = 1;`); err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}
	return tx.Commit()
}

// WriteDataset implements Sink.
func (s *SQLiteStore) WriteDataset(ctx context.Context, ds *types.CompanyDataset) error {
	key := CompanyKey(ds.Company)
	payload, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO datasets(id, company, rules_version, mode, scraped_at, payload)
VALUES(?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET payload = excluded.payload;
`, ds.ID.String(), key, ds.RulesVersion, ds.Mode, ds.ScrapedAt.UTC().Format(sortableTime), string(payload)); err != nil {
		return fmt.Errorf("failed to insert dataset: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM jobs WHERE dataset_id = ?;`, ds.ID.String()); err != nil {
		return fmt.Errorf("failed to clear jobs: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO jobs(dataset_id, position, company, title, url, location, department, salary_min, salary_max, skills, payload)
VALUES(?,?,?,?,?,?,?,?,?,?,?);
`)
	if err != nil {
		return fmt.Errorf("failed to prepare job insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, job := range ds.Jobs {
		skills, _ := json.Marshal(nonNil(job.Skills))
		jobPayload, err := json.Marshal(job)
		if err != nil {
			return fmt.Errorf("failed to marshal job %q: %w", job.Title, err)
		}
		var minK, maxK sql.NullInt64
		if job.Salary != nil {
			minK = sql.NullInt64{Int64: int64(job.Salary.Min), Valid: true}
			maxK = sql.NullInt64{Int64: int64(job.Salary.Max), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, ds.ID.String(), i, key, job.Title, job.URL, job.Location,
			job.Department, minK, maxK, string(skills), string(jobPayload)); err != nil {
			return fmt.Errorf("failed to insert job %q: %w", job.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dataset: %w", err)
	}
	s.logger.Info("dataset stored", zap.String("company", ds.Company), zap.String("id", ds.ID.String()))
	return nil
}

// LoadDataset implements Source.
func (s *SQLiteStore) LoadDataset(ctx context.Context, company string) (*types.CompanyDataset, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
SELECT payload FROM datasets WHERE company = ? ORDER BY scraped_at DESC LIMIT 1;
`, CompanyKey(company)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	var ds types.CompanyDataset
	if err := json.Unmarshal([]byte(payload), &ds); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	return &ds, nil
}

// ListCompanies implements Source.
func (s *SQLiteStore) ListCompanies(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT company FROM datasets ORDER BY company;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	companies := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// JobsWithSkill returns the jobs listing skill across the latest dataset of every company,
// ordered by company and page position.
func (s *SQLiteStore) JobsWithSkill(ctx context.Context, skill string) ([]types.JobPosting, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT j.payload
FROM jobs j
JOIN datasets d ON d.id = j.dataset_id
WHERE d.scraped_at = (SELECT MAX(d2.scraped_at) FROM datasets d2 WHERE d2.company = d.company)
  AND EXISTS (SELECT 1 FROM json_each(j.skills) s WHERE s.value = ?)
ORDER BY j.company, j.position;
`, skill)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs by skill: %w", err)
	}
	defer func() { _ = rows.Close() }()

	jobs := make([]types.JobPosting, 0)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var job types.JobPosting
		if err := json.Unmarshal([]byte(payload), &job); err != nil {
			return nil, fmt.Errorf("failed to decode job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// SaveCaptures implements CaptureStore.
func (s *SQLiteStore) SaveCaptures(ctx context.Context, company string, raws []types.RawJob) error {
	payload, err := json.Marshal(raws)
	if err != nil {
		return fmt.Errorf("failed to marshal captures: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO captures(company, saved_at, payload) VALUES(?,?,?)
ON CONFLICT(company) DO UPDATE SET saved_at = excluded.saved_at, payload = excluded.payload;
`, CompanyKey(company), time.Now().UTC().Format(time.RFC3339), string(payload))
	if err != nil {
		return fmt.Errorf("failed to save captures: %w", err)
	}
	return nil
}

// LoadCaptures implements CaptureStore.
func (s *SQLiteStore) LoadCaptures(ctx context.Context, company string) ([]types.RawJob, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM captures WHERE company = ?;`, CompanyKey(company)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load captures: %w", err)
	}
	var raws []types.RawJob
	if err := json.Unmarshal([]byte(payload), &raws); err != nil {
		return nil, fmt.Errorf("failed to decode captures: %w", err)
	}
	return raws, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
