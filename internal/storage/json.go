package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"github.com/jonathan/ai-jobs-tracker/internal/schemas"
	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

const (
	datasetSuffix = ".dataset.json"
	captureSuffix = ".captures.json"
	lockRetry     = 50 * time.Millisecond
)

// JSONStore keeps one dataset file and one capture file per company in a directory.
// Writes take an exclusive file lock and replace the file atomically, so concurrent
// processes never observe a partial snapshot.
type JSONStore struct {
	dir    string
	logger *zap.Logger
}

// NewJSONStore creates dir if needed and returns a store rooted there.
func NewJSONStore(dir string, logger *zap.Logger) (*JSONStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}
	return &JSONStore{dir: dir, logger: logger}, nil
}

// Dir returns the root directory.
func (s *JSONStore) Dir() string {
	return s.dir
}

// WriteDataset implements Sink.
func (s *JSONStore) WriteDataset(ctx context.Context, ds *types.CompanyDataset) error {
	key := CompanyKey(ds.Company)
	if key == "" {
		return fmt.Errorf("failed to write dataset: empty company")
	}
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}
	if err := schemas.ValidateDataset(data); err != nil {
		return fmt.Errorf("refusing to write invalid dataset for %s: %w", ds.Company, err)
	}
	if err := s.writeLocked(ctx, key, key+datasetSuffix, data); err != nil {
		return err
	}
	s.logger.Info("dataset written",
		zap.String("company", ds.Company),
		zap.String("path", filepath.Join(s.dir, key+datasetSuffix)),
		zap.Int("jobs", len(ds.Jobs)),
	)
	return nil
}

// LoadDataset implements Source. The file is validated against the dataset schema.
func (s *JSONStore) LoadDataset(ctx context.Context, company string) (*types.CompanyDataset, error) {
	key := CompanyKey(company)
	data, err := s.readLocked(ctx, key, key+datasetSuffix)
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidateDataset(data); err != nil {
		return nil, fmt.Errorf("stored dataset for %s is invalid: %w", company, err)
	}
	var ds types.CompanyDataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to decode dataset for %s: %w", company, err)
	}
	return &ds, nil
}

// ListCompanies implements Source, returning the keys of stored datasets sorted.
func (s *JSONStore) ListCompanies(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list data dir: %w", err)
	}
	companies := make([]string, 0)
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), datasetSuffix) {
			companies = append(companies, strings.TrimSuffix(e.Name(), datasetSuffix))
		}
	}
	sort.Strings(companies)
	return companies, nil
}

// SaveCaptures implements CaptureStore.
func (s *JSONStore) SaveCaptures(ctx context.Context, company string, raws []types.RawJob) error {
	key := CompanyKey(company)
	if key == "" {
		return fmt.Errorf("failed to save captures: empty company")
	}
	data, err := json.Marshal(raws)
	if err != nil {
		return fmt.Errorf("failed to marshal captures: %w", err)
	}
	return s.writeLocked(ctx, key, key+captureSuffix, data)
}

// LoadCaptures implements CaptureStore.
func (s *JSONStore) LoadCaptures(ctx context.Context, company string) ([]types.RawJob, error) {
	key := CompanyKey(company)
	data, err := s.readLocked(ctx, key, key+captureSuffix)
	if err != nil {
		return nil, err
	}
	var raws []types.RawJob
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("failed to decode captures for %s: %w", company, err)
	}
	return raws, nil
}

func (s *JSONStore) lock(key string) *flock.Flock {
	return flock.New(filepath.Join(s.dir, "."+key+".lock"))
}

func (s *JSONStore) writeLocked(ctx context.Context, key, name string, data []byte) error {
	fl := s.lock(key)
	locked, err := fl.TryLockContext(ctx, lockRetry)
	if err != nil || !locked {
		return fmt.Errorf("failed to lock %s: %w", name, lockErr(err))
	}
	defer func() { _ = fl.Unlock() }()

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

func (s *JSONStore) readLocked(ctx context.Context, key, name string) ([]byte, error) {
	fl := s.lock(key)
	locked, err := fl.TryRLockContext(ctx, lockRetry)
	if err != nil || !locked {
		return nil, fmt.Errorf("failed to lock %s: %w", name, lockErr(err))
	}
	defer func() { _ = fl.Unlock() }()

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

func lockErr(err error) error {
	if err != nil {
		return err
	}
	return errors.New("lock not acquired")
}
