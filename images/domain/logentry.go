package domain

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// LogScope selects the range of a view-audit query.
type LogScope int

const (
	// ScopeToday restricts the query to the partition for the current UTC
	// calendar day.
	ScopeToday LogScope = iota

	// ScopeAllTime scans every partition.
	ScopeAllTime
)

// LogEntry is one immutable record of a user viewing an image. Entries are
// append-only; no update or delete path exists.
type LogEntry struct {
	PartitionKey string    `json:"partitionKey"`
	RowKey       string    `json:"rowKey"`
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	ImageID      string    `json:"imageId"`
	Caption      string    `json:"caption"`
	URI          string    `json:"uri"`
	EntryDate    time.Time `json:"entryDate"`
}

// ViewedImage carries the fields of a viewed image that get recorded in the
// audit trail. URI is the resolved blob URL at view time.
type ViewedImage struct {
	ImageID string
	Caption string
	URI     string
}

// NewLogEntry builds an entry for a view that happened at the given instant.
// The partition key is the UTC calendar day, so "today only" queries scan a
// single partition. The row key leads with a zero-padded inverted timestamp
// so entries within a partition sort newest-first by construction; the image
// id and a random token break ties between views in the same nanosecond.
func NewLogEntry(at time.Time, userID, username string, view ViewedImage) *LogEntry {
	at = at.UTC()
	return &LogEntry{
		PartitionKey: LogPartitionKey(at),
		RowKey: fmt.Sprintf("%019d:%s:%s",
			math.MaxInt64-at.UnixNano(),
			view.ImageID,
			uuid.NewString()),
		UserID:    userID,
		Username:  username,
		ImageID:   view.ImageID,
		Caption:   view.Caption,
		URI:       view.URI,
		EntryDate: at,
	}
}

// LogPartitionKey formats the partition key for an event instant.
func LogPartitionKey(at time.Time) string {
	return at.UTC().Format("20060102")
}

// LogPager is a lazy, forward-only, non-restartable paged sequence of log
// entries.
type LogPager interface {
	HasMore() bool
	NextPage(ctx context.Context) ([]LogEntry, error)
}

// LogStore appends view-audit entries to a time-partitioned table and
// supports range queries over it.
type LogStore interface {
	// Append inserts a single entry. Store-level write failures are
	// surfaced to the caller, never swallowed.
	Append(ctx context.Context, entry *LogEntry) error

	Query(ctx context.Context, scope LogScope) (LogPager, error)
}
