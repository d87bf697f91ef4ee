package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"picshare/images/domain"

	"github.com/dgraph-io/badger/v4"
)

var _ domain.LogStore = (*BadgerLogStore)(nil)

const (
	logKeyPrefix    = "log/"
	defaultLogPages = 100
)

// BadgerLogStore implements domain.LogStore on a badger table. Keys are
// "log/<partition>/<rowKey>"; badger iterates keys in lexicographic order,
// so a prefix scan over one day partition yields entries newest-first by
// construction of the row key.
type BadgerLogStore struct {
	db       *badger.DB
	pageSize int
	now      func() time.Time
}

// NewLogStore opens the audit table at path. The handle is long-lived and
// shared by every call; Close it on shutdown.
func NewLogStore(path string) (*BadgerLogStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable badger logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log table: %w", err)
	}

	return &BadgerLogStore{
		db:       db,
		pageSize: defaultLogPages,
		now:      time.Now,
	}, nil
}

// Close releases the underlying table handle.
func (s *BadgerLogStore) Close() error {
	return s.db.Close()
}

// Append inserts one entry. A conflicting row key rejects the write; the
// failure is surfaced to the caller, never swallowed.
func (s *BadgerLogStore) Append(ctx context.Context, entry *domain.LogEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("append log entry %s/%s: failed to encode entry: %w",
			entry.PartitionKey, entry.RowKey, err)
	}

	key := logKey(entry.PartitionKey, entry.RowKey)
	err = s.db.Update(func(txn *badger.Txn) error {
		_, getErr := txn.Get(key)
		if getErr == nil {
			return fmt.Errorf("row key already exists")
		}
		if getErr != badger.ErrKeyNotFound {
			return getErr
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return fmt.Errorf("append log entry %s/%s: %w", entry.PartitionKey, entry.RowKey, err)
	}

	return nil
}

// Query starts a lazy scan over the audit table. ScopeToday restricts the
// scan to the single partition for the current UTC calendar day; ScopeAllTime
// walks every partition.
func (s *BadgerLogStore) Query(ctx context.Context, scope domain.LogScope) (domain.LogPager, error) {
	prefix := []byte(logKeyPrefix)
	if scope == domain.ScopeToday {
		prefix = []byte(logKeyPrefix + domain.LogPartitionKey(s.now()) + "/")
	}

	return &logPager{
		store:  s,
		prefix: prefix,
	}, nil
}

// logPager re-fetches one page per NextPage call, resuming from an internal
// continuation key. Forward-only and non-restartable.
type logPager struct {
	store  *BadgerLogStore
	prefix []byte
	seek   []byte
	done   bool
}

func (p *logPager) HasMore() bool {
	return !p.done
}

func (p *logPager) NextPage(ctx context.Context) ([]domain.LogEntry, error) {
	if p.done {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page := make([]domain.LogEntry, 0, p.store.pageSize)

	err := p.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = p.prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := p.prefix
		if p.seek != nil {
			seek = p.seek
		}

		for it.Seek(seek); it.ValidForPrefix(p.prefix); it.Next() {
			if len(page) == p.store.pageSize {
				return nil
			}

			item := it.Item()
			var entry domain.LogEntry
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				return fmt.Errorf("failed to decode entry at %s: %w", item.Key(), err)
			}

			page = append(page, entry)

			// Continuation key: the smallest key strictly after this one.
			p.seek = append(item.KeyCopy(nil), 0)
		}

		p.done = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query log entries: %w", err)
	}

	return page, nil
}

func logKey(partitionKey, rowKey string) []byte {
	return []byte(logKeyPrefix + partitionKey + "/" + rowKey)
}
