package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"picshare/images/domain"
)

func tempLogStore(t *testing.T) *BadgerLogStore {
	t.Helper()

	store, err := NewLogStore(filepath.Join(t.TempDir(), "audit"))
	if err != nil {
		t.Fatalf("failed to open log store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func drainLogs(t *testing.T, pager domain.LogPager) []domain.LogEntry {
	t.Helper()

	var all []domain.LogEntry
	for pager.HasMore() {
		page, err := pager.NextPage(context.Background())
		if err != nil {
			t.Fatalf("NextPage failed: %v", err)
		}
		all = append(all, page...)
	}
	return all
}

func TestLogStore_TodayNewestFirst(t *testing.T) {
	store := tempLogStore(t)

	day := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return day }

	ctx := context.Background()
	t1 := domain.NewLogEntry(day, "u1", "alice", domain.ViewedImage{ImageID: "a"})
	t2 := domain.NewLogEntry(day.Add(time.Millisecond), "u1", "alice", domain.ViewedImage{ImageID: "b"})
	t3 := domain.NewLogEntry(day.Add(2*time.Millisecond), "u1", "alice", domain.ViewedImage{ImageID: "c"})

	// Append out of order; the row key, not insert order, determines the scan order.
	for _, entry := range []*domain.LogEntry{t2, t1, t3} {
		if err := store.Append(ctx, entry); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	pager, err := store.Query(ctx, domain.ScopeToday)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	got := drainLogs(t, pager)
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}

	wantOrder := []string{"c", "b", "a"}
	for i, want := range wantOrder {
		if got[i].ImageID != want {
			t.Errorf("entry %d = %q, want %q", i, got[i].ImageID, want)
		}
	}
	for i := 1; i < len(got); i++ {
		if !got[i].EntryDate.Before(got[i-1].EntryDate) {
			t.Errorf("entries not strictly decreasing at %d: %v then %v",
				i, got[i-1].EntryDate, got[i].EntryDate)
		}
	}
}

func TestLogStore_SameInstantNoCollision(t *testing.T) {
	store := tempLogStore(t)

	day := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return day }

	ctx := context.Background()
	e1 := domain.NewLogEntry(day, "u1", "alice", domain.ViewedImage{ImageID: "a"})
	e2 := domain.NewLogEntry(day, "u2", "bob", domain.ViewedImage{ImageID: "b"})

	if err := store.Append(ctx, e1); err != nil {
		t.Fatalf("Append e1 failed: %v", err)
	}
	if err := store.Append(ctx, e2); err != nil {
		t.Fatalf("Append e2 failed: %v", err)
	}

	pager, err := store.Query(ctx, domain.ScopeToday)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	if got := drainLogs(t, pager); len(got) != 2 {
		t.Errorf("got %d entries, want 2", len(got))
	}
}

func TestLogStore_AppendDuplicateRowKey(t *testing.T) {
	store := tempLogStore(t)

	day := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	entry := domain.NewLogEntry(day, "u1", "alice", domain.ViewedImage{ImageID: "a"})

	ctx := context.Background()
	if err := store.Append(ctx, entry); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(ctx, entry); err == nil {
		t.Error("appending the same row key twice should fail")
	}
}

func TestLogStore_ScopeToday(t *testing.T) {
	store := tempLogStore(t)

	today := time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)
	yesterday := today.Add(-24 * time.Hour)
	store.now = func() time.Time { return today }

	ctx := context.Background()
	if err := store.Append(ctx, domain.NewLogEntry(yesterday, "u1", "alice", domain.ViewedImage{ImageID: "old"})); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(ctx, domain.NewLogEntry(today, "u1", "alice", domain.ViewedImage{ImageID: "new"})); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	pager, err := store.Query(ctx, domain.ScopeToday)
	if err != nil {
		t.Fatalf("Query(Today) failed: %v", err)
	}
	got := drainLogs(t, pager)
	if len(got) != 1 || got[0].ImageID != "new" {
		t.Errorf("Query(Today) = %+v, want only the entry for today", got)
	}

	pager, err = store.Query(ctx, domain.ScopeAllTime)
	if err != nil {
		t.Fatalf("Query(AllTime) failed: %v", err)
	}
	if got := drainLogs(t, pager); len(got) != 2 {
		t.Errorf("Query(AllTime) returned %d entries, want 2", len(got))
	}
}

func TestLogStore_Pagination(t *testing.T) {
	store := tempLogStore(t)
	store.pageSize = 2

	day := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return day }

	ctx := context.Background()
	const total = 5
	for i := 0; i < total; i++ {
		entry := domain.NewLogEntry(day.Add(time.Duration(i)*time.Second), "u1", "alice",
			domain.ViewedImage{ImageID: "img"})
		if err := store.Append(ctx, entry); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	pager, err := store.Query(ctx, domain.ScopeToday)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	var count, pages int
	for pager.HasMore() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			t.Fatalf("NextPage failed: %v", err)
		}
		if len(page) > 2 {
			t.Errorf("page size = %d, want <= 2", len(page))
		}
		count += len(page)
		pages++
	}

	if count != total {
		t.Errorf("drained %d entries, want %d", count, total)
	}
	if pages < 3 {
		t.Errorf("drained in %d pages, want at least 3", pages)
	}

	// The sequence is forward-only; once drained it stays drained.
	if pager.HasMore() {
		t.Error("pager reports more entries after drain")
	}
}
