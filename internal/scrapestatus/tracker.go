// Package scrapestatus tracks which companies are currently being scraped.
//
// An entry is Active for TTL after Start, then TimedOut until it is cleared or evicted.
// Entries are evicted once they are older than twice the TTL, after which the key reads
// as Inactive again.
package scrapestatus

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is how long a started scrape counts as active.
const DefaultTTL = 20 * time.Minute

// ErrAlreadyActive is returned by Start when the key has an active scrape.
var ErrAlreadyActive = errors.New("scrape already active")

// Status is the state of a key.
type Status string

const (
	Inactive Status = "inactive"
	Active   Status = "active"
	TimedOut Status = "timed_out"
)

// Tracker is the scrape status cache.
type Tracker interface {
	// Start marks key active. It fails with ErrAlreadyActive while a previous start is
	// still active; a timed-out entry is restarted.
	Start(ctx context.Context, key string) error
	Status(ctx context.Context, key string) (Status, error)
	Clear(ctx context.Context, key string) error
}

// statusAt classifies an entry started at started, seen at now.
func statusAt(started, now time.Time, ttl time.Duration) Status {
	switch age := now.Sub(started); {
	case age < ttl:
		return Active
	case age < 2*ttl:
		return TimedOut
	default:
		return Inactive
	}
}
