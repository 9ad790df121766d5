// Package storage persists company datasets and raw captures.
//
// The extraction core only sees the Sink interface; JSON snapshot files, SQLite and
// Postgres are interchangeable implementations.
package storage

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

// ErrNotFound is returned when a company has no stored dataset or captures.
var ErrNotFound = errors.New("not found")

// Sink accepts complete dataset snapshots.
type Sink interface {
	WriteDataset(ctx context.Context, ds *types.CompanyDataset) error
}

// Source reads back the latest dataset per company.
type Source interface {
	LoadDataset(ctx context.Context, company string) (*types.CompanyDataset, error)
	ListCompanies(ctx context.Context) ([]string, error)
}

// CaptureStore keeps the raw inputs of a run so rules can be re-applied later.
type CaptureStore interface {
	SaveCaptures(ctx context.Context, company string, raws []types.RawJob) error
	LoadCaptures(ctx context.Context, company string) ([]types.RawJob, error)
}

// MultiSink writes a dataset to every sink in order. The first failure is returned after
// all sinks were tried.
type MultiSink struct {
	sinks  []Sink
	logger *zap.Logger
}

// NewMultiSink combines sinks; nil entries are skipped.
func NewMultiSink(logger *zap.Logger, sinks ...Sink) *MultiSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &MultiSink{logger: logger}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// WriteDataset implements Sink.
func (m *MultiSink) WriteDataset(ctx context.Context, ds *types.CompanyDataset) error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.WriteDataset(ctx, ds); err != nil {
			m.logger.Error("dataset sink failed",
				zap.String("company", ds.Company),
				zap.String("sink", sinkName(s)),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Len returns the number of sinks.
func (m *MultiSink) Len() int {
	return len(m.sinks)
}

func sinkName(s Sink) string {
	switch s.(type) {
	case *JSONStore:
		return "json"
	case *SQLiteStore:
		return "sqlite"
	default:
		return "other"
	}
}

var unsafeKeyChars = regexp.MustCompile(`[^a-z0-9_-]+`)

// CompanyKey normalizes a company name into a storage key: lowercase, with runs of other
// characters replaced by a dash.
func CompanyKey(company string) string {
	key := unsafeKeyChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(company)), "-")
	return strings.Trim(key, "-")
}
