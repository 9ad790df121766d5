// Package events announces written datasets to other processes over NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

// DatasetWrittenSubject is the subject of DatasetWritten events.
const DatasetWrittenSubject = "jobs.dataset.written"

// DatasetWritten is published after a dataset was persisted.
type DatasetWritten struct {
	DatasetID      uuid.UUID `json:"dataset_id"`
	Company        string    `json:"company"`
	RulesVersion   string    `json:"rules_version"`
	Mode           string    `json:"mode,omitempty"`
	ScrapedAt      time.Time `json:"scraped_at"`
	TotalJobs      int       `json:"total_jobs"`
	JobsWithSalary int       `json:"jobs_with_salary"`
	Skipped        int       `json:"skipped"`
}

// NewDatasetWritten builds the event for ds.
func NewDatasetWritten(ds *types.CompanyDataset) DatasetWritten {
	return DatasetWritten{
		DatasetID:      ds.ID,
		Company:        ds.Company,
		RulesVersion:   ds.RulesVersion,
		Mode:           ds.Mode,
		ScrapedAt:      ds.ScrapedAt,
		TotalJobs:      ds.Summary.TotalJobs,
		JobsWithSalary: ds.Summary.JobsWithSalary,
		Skipped:        len(ds.Skipped),
	}
}

// Publisher publishes dataset events.
type Publisher interface {
	PublishDatasetWritten(ctx context.Context, ds *types.CompanyDataset) error
	Close()
}

// NopPublisher drops every event. It is used when no NATS URL is configured.
type NopPublisher struct{}

// PublishDatasetWritten implements Publisher.
func (NopPublisher) PublishDatasetWritten(context.Context, *types.CompanyDataset) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() {}

type natsPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url string, timeout time.Duration, logger *zap.Logger) (Publisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	opts := []nats.Option{
		nats.Name("jobs-tracker"),
		nats.Timeout(timeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	return &natsPublisher{conn: conn, logger: logger}, nil
}

func (p *natsPublisher) PublishDatasetWritten(_ context.Context, ds *types.CompanyDataset) error {
	data, err := json.Marshal(NewDatasetWritten(ds))
	if err != nil {
		return fmt.Errorf("failed to marshal dataset event: %w", err)
	}

	if err := p.conn.Publish(DatasetWrittenSubject, data); err != nil {
		p.logger.Error("failed to publish dataset event",
			zap.String("company", ds.Company),
			zap.Error(err))
		return fmt.Errorf("failed to publish to NATS: %w", err)
	}

	p.logger.Debug("published dataset event",
		zap.String("company", ds.Company),
		zap.String("subject", DatasetWrittenSubject))
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

// Subscribe delivers DatasetWritten events from the server at url to handle until the
// returned function is called.
func Subscribe(url string, logger *zap.Logger, handle func(DatasetWritten)) (func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	conn, err := nats.Connect(url, nats.Name("jobs-tracker-subscriber"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	sub, err := conn.Subscribe(DatasetWrittenSubject, func(msg *nats.Msg) {
		var ev DatasetWritten
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			logger.Warn("dropping malformed dataset event", zap.Error(err))
			return
		}
		handle(ev)
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", DatasetWrittenSubject, err)
	}
	return func() {
		_ = sub.Unsubscribe()
		conn.Close()
	}, nil
}
