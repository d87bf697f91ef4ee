package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"picshare/images/domain"
)

// fakeLogStore captures appended entries for gateway tests.
type fakeLogStore struct {
	entries   []domain.LogEntry
	appendErr error
}

func (f *fakeLogStore) Append(_ context.Context, entry *domain.LogEntry) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeLogStore) Query(_ context.Context, _ domain.LogScope) (domain.LogPager, error) {
	return &fakeLogPager{entries: f.entries}, nil
}

type fakeLogPager struct {
	entries []domain.LogEntry
	done    bool
}

func (p *fakeLogPager) HasMore() bool { return !p.done }

func (p *fakeLogPager) NextPage(_ context.Context) ([]domain.LogEntry, error) {
	p.done = true
	return p.entries, nil
}

func TestLogGateway_RecordView(t *testing.T) {
	store := &fakeLogStore{}
	gateway := NewLogGateway(store)

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	gateway.now = func() time.Time { return at }

	view := domain.ViewedImage{ImageID: "img1", Caption: "Sunset", URI: "http://blobs.test/images/image-img1.jpg"}
	if err := gateway.RecordView(context.Background(), "u2", "bob", view); err != nil {
		t.Fatalf("RecordView failed: %v", err)
	}

	if len(store.entries) != 1 {
		t.Fatalf("appended %d entries, want 1", len(store.entries))
	}

	entry := store.entries[0]
	if entry.UserID != "u2" || entry.Username != "bob" {
		t.Errorf("viewer = (%q, %q), want (u2, bob)", entry.UserID, entry.Username)
	}
	if entry.ImageID != "img1" || entry.Caption != "Sunset" || entry.URI != view.URI {
		t.Errorf("view fields not carried: %+v", entry)
	}
	if entry.PartitionKey != "20240601" {
		t.Errorf("PartitionKey = %q, want 20240601", entry.PartitionKey)
	}
	if !entry.EntryDate.Equal(at) {
		t.Errorf("EntryDate = %v, want %v", entry.EntryDate, at)
	}
}

func TestLogGateway_RecordViewSurfacesFailure(t *testing.T) {
	boom := errors.New("write rejected")
	gateway := NewLogGateway(&fakeLogStore{appendErr: boom})

	err := gateway.RecordView(context.Background(), "u2", "bob", domain.ViewedImage{ImageID: "img1"})
	if !errors.Is(err, boom) {
		t.Errorf("RecordView error = %v, want %v", err, boom)
	}
}

func TestLogGateway_QueryPassthrough(t *testing.T) {
	store := &fakeLogStore{entries: []domain.LogEntry{{ImageID: "img1"}}}
	gateway := NewLogGateway(store)

	pager, err := gateway.Query(context.Background(), domain.ScopeAllTime)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	page, err := pager.NextPage(context.Background())
	if err != nil {
		t.Fatalf("NextPage failed: %v", err)
	}
	if len(page) != 1 || page[0].ImageID != "img1" {
		t.Errorf("page = %+v, want the stored entry", page)
	}
}
